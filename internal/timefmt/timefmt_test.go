package timefmt

import (
	"math"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedFormatter(now time.Time) Formatter {
	return NewFormatter(time.UTC, func() time.Time { return now })
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "14:30", FormatTime("14:30:00"))
	assert.Equal(t, "09:00", FormatTime("09:00:00"))
	// one colon: everything before it
	assert.Equal(t, "14", FormatTime("14:30"))
	assert.Equal(t, "1430", FormatTime("1430"))
}

func TestFormatter_Formats(t *testing.T) {
	f := fixedFormatter(time.Now())

	assert.Equal(t, "14:30", f.FormatTimeDetailed("2024-06-15T14:30:00Z"))
	assert.Equal(t, "09:05", f.FormatTimeDetailed("2024-06-15T09:05:00"))
	assert.Equal(t, "Saturday, June 15", f.FormatDate("2024-06-15T14:30:00Z"))
	assert.Equal(t, "June 15, 2024, 14:30", f.FormatDateTimeDetailed("2024-06-15T14:30:00Z"))
	assert.Equal(t, "", f.FormatDate("not a date"))
}

func TestFormatter_ZoneLessInLocation(t *testing.T) {
	cph, err := time.LoadLocation("Europe/Copenhagen")
	require.NoError(t, err)
	f := NewFormatter(cph, nil)

	// wall clock preserved for zone-less feed values
	assert.Equal(t, "09:00", f.FormatTimeDetailed("2024-10-01T09:00:00"))
	// zoned values are converted
	assert.Equal(t, "11:00", f.FormatTimeDetailed("2024-10-01T09:00:00Z"))
}

func TestCalculateSessionDuration(t *testing.T) {
	f := fixedFormatter(time.Now())

	assert.Equal(t, 90.0, f.CalculateSessionDuration("2024-06-15T14:00:00Z", "2024-06-15T15:30:00Z"))
	assert.Equal(t, 30.0, f.CalculateSessionDuration("2024-06-15T14:00:00Z", "2024-06-15T14:30:00Z"))
	assert.Equal(t, 0.5, f.CalculateSessionDuration("2024-06-15T14:00:00Z", "2024-06-15T14:00:30Z"))
	assert.Equal(t, -15.0, f.CalculateSessionDuration("2024-06-15T14:15:00Z", "2024-06-15T14:00:00Z"))
	assert.True(t, math.IsNaN(f.CalculateSessionDuration("garbage", "2024-06-15T14:00:00Z")))
}

func TestHasSessionStartedEnded(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	f := fixedFormatter(now)

	assert.True(t, f.HasSessionStarted("2020-01-01T00:00:00Z"))
	assert.False(t, f.HasSessionStarted("2099-12-31T23:59:59Z"))
	assert.True(t, f.HasSessionStarted("2024-06-15T12:00:00Z"), "start == now counts as started")

	assert.True(t, f.HasSessionEnded("2020-01-01T00:00:00Z"))
	assert.False(t, f.HasSessionEnded("2099-12-31T23:59:59Z"))
	assert.True(t, f.HasSessionEnded("2024-06-15T12:00:00Z"))
	assert.False(t, f.HasSessionEnded("nope"))
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	f := fixedFormatter(now)
	ago := func(s int) time.Time { return now.Add(-time.Duration(s) * time.Second) }

	cases := []struct {
		seconds int
		want    string
	}{
		{0, "just now"},
		{59, "just now"},
		{60, "1m ago"},
		{300, "5m ago"},
		{3599, "59m ago"},
		{3600, "1h ago"},
		{7200, "2h ago"},
		{86399, "23h ago"},
		{86400, "1d ago"},
		{259200, "3d ago"},
		{604799, "6d ago"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, f.FormatRelativeTime(ago(tc.seconds)), "seconds=%d", tc.seconds)
	}

	old := f.FormatRelativeTime(ago(700000))
	assert.Contains(t, old, "2024")
	assert.Equal(t, "1/1/2020", f.FormatRelativeTime(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)))
}
