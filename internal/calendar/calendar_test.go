package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC) // a Sunday morning

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		date string
		time string
		code string // empty means accepted
	}{
		{"tuesday dinner", "2025-06-10", "20:00", ""},
		{"tuesday lunch first slot", "2025-06-10", "13:00", ""},
		{"tuesday lunch last slot", "2025-06-10", "16:00", ""},
		{"tuesday between services", "2025-06-10", "17:00", ReasonOutOfHours},
		{"tuesday last dinner slot", "2025-06-10", "23:30", ""},
		{"tuesday before opening", "2025-06-10", "12:30", ReasonOutOfHours},
		{"monday closed", "2025-06-09", "20:00", ReasonClosed},
		{"friday afternoon", "2025-06-13", "17:30", ""},
		{"saturday late", "2025-06-14", "23:30", ""},
		{"sunday last slot", "2025-06-15", "17:00", ""},
		{"sunday evening", "2025-06-15", "20:00", ReasonOutOfHours},
		{"quarter past", "2025-06-10", "20:15", ReasonGranularity},
		{"bad date", "10/06/2025", "20:00", ReasonBadDate},
		{"impossible date", "2025-02-30", "20:00", ReasonBadDate},
		{"bad time", "2025-06-10", "8pm", ReasonBadTime},
		{"past", "2025-05-27", "20:00", ReasonPast},
		{"earlier today", "2025-06-01", "09:30", ReasonPast},
		{"later today", "2025-06-01", "13:00", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rej := Validate(tt.date, tt.time, now, time.UTC)
			if tt.code == "" {
				assert.Nil(t, rej)
				return
			}
			require.NotNil(t, rej)
			assert.Equal(t, tt.code, rej.Code)
			assert.NotEmpty(t, rej.Error())
		})
	}
}

func TestValidate_UsesLocation(t *testing.T) {
	madrid, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)

	// 13:00 in Madrid on 2025-06-01 is 11:00 UTC, still ahead of now.
	assert.Nil(t, Validate("2025-06-01", "13:00", now, madrid))
	// 11:30 Madrid is 09:30 UTC, already past, and checked before opening hours.
	rej := Validate("2025-06-01", "11:30", now, madrid)
	require.NotNil(t, rej)
	assert.Equal(t, ReasonPast, rej.Code)
}

func TestTimes(t *testing.T) {
	assert.Empty(t, Times(time.Monday))
	assert.Equal(t, []string{
		"13:00", "13:30", "14:00", "14:30", "15:00", "15:30", "16:00",
		"20:00", "20:30", "21:00", "21:30", "22:00", "22:30", "23:00", "23:30",
	}, Times(time.Tuesday))
	assert.Len(t, Times(time.Friday), 22)
	assert.Equal(t, "17:00", Times(time.Sunday)[len(Times(time.Sunday))-1])

	for day := time.Sunday; day <= time.Saturday; day++ {
		for _, tm := range Times(day) {
			assert.Contains(t, []string{"00", "30"}, tm[3:], "granularity on %s", day)
		}
	}
	assert.True(t, IsClosed(time.Monday))
	assert.False(t, IsClosed(time.Sunday))
}
