package attendance

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarDate_UsesLocation(t *testing.T) {
	istanbul := time.FixedZone("TRT", 3*60*60)
	late := time.Date(2025, 3, 3, 22, 30, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), CalendarDate(late, time.UTC))
	assert.Equal(t, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), CalendarDate(late, istanbul))
}

func TestMonthRange(t *testing.T) {
	from, to := MonthRange(2024, 2)
	assert.Equal(t, "2024-02-01", from.Format(DateLayout))
	assert.Equal(t, "2024-02-29", to.Format(DateLayout))

	from, to = MonthRange(2025, 12)
	assert.Equal(t, "2025-12-01", from.Format(DateLayout))
	assert.Equal(t, "2025-12-31", to.Format(DateLayout))
}

func TestWeekRange_MondayToSunday(t *testing.T) {
	cases := map[string]string{
		"2025-03-03": "2025-03-03", // Monday
		"2025-03-05": "2025-03-03",
		"2025-03-09": "2025-03-03", // Sunday
	}
	for day, wantMonday := range cases {
		d, _ := time.Parse(DateLayout, day)
		monday, sunday := WeekRange(d)
		assert.Equal(t, wantMonday, monday.Format(DateLayout), day)
		assert.Equal(t, time.Sunday, sunday.Weekday(), day)
	}
}

func TestAttemptError_MatchesBothCauses(t *testing.T) {
	err := error(&AttemptError{CheckIn: ErrAlreadyCheckedIn, CheckOut: ErrAlreadyCompletedToday})

	assert.True(t, errors.Is(err, ErrAlreadyCheckedIn))
	assert.True(t, errors.Is(err, ErrAlreadyCompletedToday))
	assert.False(t, errors.Is(err, ErrInvalidTimeOrder))

	var attempt *AttemptError
	require.True(t, errors.As(err, &attempt))
	assert.Contains(t, attempt.Error(), "check-out failed")
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "9h00m", FormatDuration(9))
	assert.Equal(t, "8h30m", FormatDuration(8.5))
	assert.Equal(t, "0h01m", FormatDuration(61.0/3600))
	assert.Equal(t, "0h00m", FormatDuration(0))
}

func TestParseStamp(t *testing.T) {
	loc := time.FixedZone("TRT", 3*60*60)
	day := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	got, ok := ParseStamp(day, "09:15", loc)
	require.True(t, ok)
	assert.True(t, got.Equal(time.Date(2025, 3, 3, 6, 15, 0, 0, time.UTC)))

	got, ok = ParseStamp(day, "2025-03-03T18:00:00Z", loc)
	require.True(t, ok)
	assert.True(t, got.Equal(time.Date(2025, 3, 3, 18, 0, 0, 0, time.UTC)))

	_, ok = ParseStamp(day, "six pm", loc)
	assert.False(t, ok)
}

func TestSaveRecordRequest_Validate(t *testing.T) {
	out := "18:00"
	req := SaveRecordRequest{EmployeeID: "not-a-uuid", Date: "2025-13-01", CheckOut: &out}

	err := req.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "employee_id")
	assert.Contains(t, err.Error(), "date")
	assert.Contains(t, err.Error(), "check_in is required")
}
