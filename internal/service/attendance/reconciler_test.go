package attendance

import (
	"testing"
	"time"

	"github.com/hrmanagement/hrm-backend-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, min, sec int) time.Time {
	return time.Date(2025, 3, 3, hour, min, sec, 0, time.UTC)
}

func TestResolve(t *testing.T) {
	in := at(9, 0, 0)
	out := at(18, 0, 0)

	tests := []struct {
		name    string
		now     time.Time
		today   *attendance.Attendance
		want    attendance.Action
		wantErr error
	}{
		{name: "no record", now: in, want: attendance.ActionCheckIn},
		{name: "record without check-in", now: in, today: &attendance.Attendance{}, want: attendance.ActionCheckIn},
		{name: "open record", now: out, today: &attendance.Attendance{CheckInAt: &in}, want: attendance.ActionCheckOut},
		{name: "open record scanned at check-in time", now: in, today: &attendance.Attendance{CheckInAt: &in}, want: attendance.ActionCheckOut},
		{name: "open record scanned before check-in", now: at(8, 0, 0), today: &attendance.Attendance{CheckInAt: &in}, wantErr: attendance.ErrInvalidTimeOrder},
		{name: "completed record", now: at(19, 0, 0), today: &attendance.Attendance{CheckInAt: &in, CheckOutAt: &out}, wantErr: attendance.ErrAlreadyCompletedToday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.now, tt.today)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHoursBetween(t *testing.T) {
	hours, err := HoursBetween(at(9, 0, 0), at(18, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, 9.0, hours)

	hours, err = HoursBetween(at(9, 0, 0), at(17, 30, 0))
	require.NoError(t, err)
	assert.Equal(t, 8.5, hours)

	hours, err = HoursBetween(at(9, 0, 0), at(9, 0, 0))
	require.NoError(t, err)
	assert.Zero(t, hours)

	// sub-second remainders are dropped
	hours, err = HoursBetween(at(9, 0, 0), at(10, 0, 0).Add(900*time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, 1.0, hours)

	_, err = HoursBetween(at(18, 0, 0), at(9, 0, 0))
	assert.ErrorIs(t, err, attendance.ErrInvalidTimeOrder)
}

func TestCanCheckIn(t *testing.T) {
	in := at(9, 0, 0)
	out := at(18, 0, 0)

	assert.NoError(t, CanCheckIn(nil))
	assert.ErrorIs(t, CanCheckIn(&attendance.Attendance{CheckInAt: &in}), attendance.ErrAlreadyCheckedIn)
	assert.ErrorIs(t, CanCheckIn(&attendance.Attendance{CheckInAt: &in, CheckOutAt: &out}), attendance.ErrAlreadyCompletedToday)
}

func TestCanCheckOut(t *testing.T) {
	in := at(9, 0, 0)
	out := at(18, 0, 0)

	assert.ErrorIs(t, CanCheckOut(out, nil), attendance.ErrNotCheckedIn)
	assert.ErrorIs(t, CanCheckOut(out, &attendance.Attendance{}), attendance.ErrNotCheckedIn)
	assert.ErrorIs(t, CanCheckOut(at(8, 0, 0), &attendance.Attendance{CheckInAt: &in}), attendance.ErrInvalidTimeOrder)
	assert.ErrorIs(t, CanCheckOut(out, &attendance.Attendance{CheckInAt: &in, CheckOutAt: &out}), attendance.ErrAlreadyCompletedToday)
	assert.NoError(t, CanCheckOut(out, &attendance.Attendance{CheckInAt: &in}))
}

func TestApplyCheckOut(t *testing.T) {
	in := at(9, 0, 0)
	open := attendance.Attendance{ID: "att-1", CheckInAt: &in}

	closed, err := ApplyCheckOut(open, at(18, 0, 0))
	require.NoError(t, err)
	require.NotNil(t, closed.HoursWorked)
	assert.Equal(t, 9.0, *closed.HoursWorked)
	assert.True(t, closed.IsCompleted())
	assert.True(t, open.IsOpen(), "input record must not be modified")
}
