package timeinfo_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camtang26/cre8tiveCA/pkg/timeinfo"
)

func TestLookup_Brisbane(t *testing.T) {
	t.Parallel()

	// 23:30 UTC Sunday is 09:30 Monday in Brisbane (UTC+10, no DST).
	now := time.Date(2025, 6, 1, 23, 30, 15, 250_000_000, time.UTC)

	snap, err := timeinfo.Lookup(now, "")
	require.NoError(t, err)

	ct := snap.CurrentTime
	assert.Equal(t, "2025-06-01T23:30:15.250Z", ct.UTC)
	assert.Equal(t, now.UnixMilli(), ct.UTCTimestamp)
	assert.Equal(t, timeinfo.DefaultTimezone, ct.Timezone)
	assert.Equal(t, "Monday, 02/06/2025, 09:30:15 am", ct.Local)
	assert.Equal(t, 2025, ct.Year)
	assert.Equal(t, 6, ct.Month)
	assert.Equal(t, 2, ct.Day)
	assert.Equal(t, 9, ct.Hour)
	assert.Equal(t, 30, ct.Minute)
	assert.Equal(t, 15, ct.Second)
	assert.Equal(t, "Monday", ct.Weekday)
	assert.True(t, ct.IsAM)
	assert.Equal(t, "am", ct.DayPeriod)

	rd := snap.RelativeDates
	assert.Equal(t, timeinfo.DateRef{Date: "2025-06-02", Weekday: "Monday"}, rd.Today)
	assert.Equal(t, timeinfo.DateRef{Date: "2025-06-03", Weekday: "Tuesday"}, rd.Tomorrow)
	assert.Equal(t, timeinfo.DateRef{Date: "2025-06-04", Weekday: "Wednesday"}, rd.DayAfterTomorrow)
	assert.Equal(t, timeinfo.DateRef{Date: "2025-06-09", Weekday: "Monday"}, rd.NextWeek)

	ui := snap.UsefulInfo
	assert.Equal(t, "Monday, 02/06/2025", ui.CurrentDateString)
	assert.Equal(t, "09:30 am", ui.CurrentTimeString)
	assert.Equal(t, "2025-06-02", ui.ISODate)
	assert.True(t, ui.BusinessHours.IsBusinessHours)
	assert.Equal(t, "Tomorrow", ui.BusinessHours.NextBusinessDay)
}

func TestLookup_AfternoonAndMidnight(t *testing.T) {
	t.Parallel()

	pm, err := timeinfo.Lookup(time.Date(2025, 6, 6, 7, 5, 0, 0, time.UTC), "Australia/Brisbane")
	require.NoError(t, err)
	assert.Equal(t, 5, pm.CurrentTime.Hour)
	assert.False(t, pm.CurrentTime.IsAM)
	assert.Equal(t, "pm", pm.CurrentTime.DayPeriod)
	assert.Equal(t, "05:05 pm", pm.UsefulInfo.CurrentTimeString)
	assert.False(t, pm.UsefulInfo.BusinessHours.IsBusinessHours, "17:05 is after close")
	assert.Equal(t, "Monday", pm.UsefulInfo.BusinessHours.NextBusinessDay, "Friday rolls to Monday")

	midnight, err := timeinfo.Lookup(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), "UTC")
	require.NoError(t, err)
	assert.Equal(t, 12, midnight.CurrentTime.Hour)
	assert.True(t, midnight.CurrentTime.IsAM)
}

func TestLookup_Weekend(t *testing.T) {
	t.Parallel()

	// Saturday 10:00 in New York.
	snap, err := timeinfo.Lookup(time.Date(2025, 6, 7, 14, 0, 0, 0, time.UTC), "America/New_York")
	require.NoError(t, err)
	assert.Equal(t, "Saturday", snap.CurrentTime.Weekday)
	assert.False(t, snap.UsefulInfo.BusinessHours.IsBusinessHours)
	assert.Equal(t, "Monday", snap.UsefulInfo.BusinessHours.NextBusinessDay)
}

func TestLookup_LocalCalendarAcrossDST(t *testing.T) {
	t.Parallel()

	// Sydney leaves DST early on 2025-04-06; tomorrow is still the 6th.
	snap, err := timeinfo.Lookup(time.Date(2025, 4, 5, 2, 0, 0, 0, time.UTC), "Australia/Sydney")
	require.NoError(t, err)
	assert.Equal(t, "2025-04-06", snap.RelativeDates.Tomorrow.Date)
	assert.Equal(t, "Sunday", snap.RelativeDates.Tomorrow.Weekday)
}

func TestLookup_UnknownTimezone(t *testing.T) {
	t.Parallel()

	for _, tz := range []string{"Mars/Olympus_Mons", "Local", "local"} {
		_, err := timeinfo.Lookup(time.Now(), tz)
		assert.ErrorIs(t, err, timeinfo.ErrUnknownTimezone, tz)
	}
}

func TestSnapshot_JSONShape(t *testing.T) {
	t.Parallel()

	snap, err := timeinfo.Lookup(time.Date(2025, 6, 1, 23, 30, 0, 0, time.UTC), "")
	require.NoError(t, err)

	raw, err := json.Marshal(snap)
	require.NoError(t, err)

	var doc map[string]map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Contains(t, doc["current_time"], "utc_timestamp")
	assert.Contains(t, doc["current_time"], "day_period")
	assert.Contains(t, doc["relative_dates"], "day_after_tomorrow")
	assert.Contains(t, doc["useful_info"], "business_hours")
}
