package attendance

import (
	"context"
)

type AttendanceService interface {
	// CheckIn opens today's record for the caller, or for Identity when the
	// caller manages attendance.
	CheckIn(ctx context.Context, req CheckRequest) (CheckResponse, error)
	CheckOut(ctx context.Context, req CheckRequest) (CheckResponse, error)
	// CheckInOrOut lets the reconciler decide: check in, otherwise check out.
	CheckInOrOut(ctx context.Context, req CheckRequest) (CheckResponse, error)
	// KioskScan is CheckInOrOut for a trusted kiosk; Identity is required and
	// no session is involved.
	KioskScan(ctx context.Context, req CheckRequest) (CheckResponse, error)

	GetTodayStatus(ctx context.Context, employeeID string) (*AttendanceResponse, error)
	GetWeeklyRecords(ctx context.Context, employeeID string) ([]AttendanceResponse, error)
	GetMonthlyRecords(ctx context.Context, employeeID string, q MonthlyQuery) ([]AttendanceResponse, error)
	GetRecentRecords(ctx context.Context, employeeID string, limit int) ([]AttendanceResponse, error)
	GetTotalHours(ctx context.Context, employeeID string) (TotalHoursResponse, error)

	SaveRecord(ctx context.Context, req SaveRecordRequest) (AttendanceResponse, error)
	UpdateRecord(ctx context.Context, req UpdateRecordRequest) (AttendanceResponse, error)
	DeleteRecord(ctx context.Context, id string) error
}
