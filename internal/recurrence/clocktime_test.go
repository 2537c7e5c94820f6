package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClockTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  ClockTime
		ok    bool
	}{
		{"hours and minutes", "10:00", ClockTime{10, 0, 0}, true},
		{"with seconds", "09:30:15", ClockTime{9, 30, 15}, true},
		{"midnight", "00:00", ClockTime{0, 0, 0}, true},
		{"end of day", "23:59:59", ClockTime{23, 59, 59}, true},
		{"single digit hour", "9:05", ClockTime{9, 5, 0}, true},
		{"hour out of range", "24:00", ClockTime{}, false},
		{"minute out of range", "10:60", ClockTime{}, false},
		{"second out of range", "10:00:60", ClockTime{}, false},
		{"negative hour", "-1:00", ClockTime{}, false},
		{"missing minutes", "10", ClockTime{}, false},
		{"too many parts", "10:00:00:00", ClockTime{}, false},
		{"not a number", "ten:00", ClockTime{}, false},
		{"empty", "", ClockTime{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClockTime(tt.input)
			if !tt.ok {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformedTime)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClockTimeBefore(t *testing.T) {
	assert.True(t, ClockTime{9, 0, 0}.Before(ClockTime{10, 0, 0}))
	assert.True(t, ClockTime{10, 0, 0}.Before(ClockTime{10, 30, 0}))
	assert.True(t, ClockTime{10, 30, 0}.Before(ClockTime{10, 30, 1}))
	assert.False(t, ClockTime{10, 0, 0}.Before(ClockTime{10, 0, 0}))
	assert.False(t, ClockTime{11, 0, 0}.Before(ClockTime{10, 59, 59}))
}

func TestClockTimeOn(t *testing.T) {
	date := time.Date(2024, 1, 3, 17, 45, 12, 999, time.UTC)

	got := ClockTime{10, 30, 5}.On(date)

	assert.Equal(t, time.Date(2024, 1, 3, 10, 30, 5, 0, time.UTC), got)
}
