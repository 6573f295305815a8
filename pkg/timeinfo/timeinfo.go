package timeinfo

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

// DefaultTimezone is used when the caller names no zone.
const DefaultTimezone = "Australia/Brisbane"

const (
	businessOpen  = 9
	businessClose = 17
	isoDate       = "2006-01-02"
)

var ErrUnknownTimezone = errors.New("timeinfo: unknown timezone")

// Snapshot is the JSON document returned by the current-time endpoint.
type Snapshot struct {
	CurrentTime   CurrentTime   `json:"current_time"`
	RelativeDates RelativeDates `json:"relative_dates"`
	UsefulInfo    UsefulInfo    `json:"useful_info"`
}

type CurrentTime struct {
	UTC          string `json:"utc"`
	UTCTimestamp int64  `json:"utc_timestamp"`
	Timezone     string `json:"timezone"`
	Local        string `json:"local"`
	Year         int    `json:"year"`
	Month        int    `json:"month"`
	Day          int    `json:"day"`
	Hour         int    `json:"hour"` // 1-12
	Minute       int    `json:"minute"`
	Second       int    `json:"second"`
	Weekday      string `json:"weekday"`
	IsAM         bool   `json:"is_am"`
	DayPeriod    string `json:"day_period"` // "am" or "pm"
}

type RelativeDates struct {
	Today            DateRef `json:"today"`
	Tomorrow         DateRef `json:"tomorrow"`
	DayAfterTomorrow DateRef `json:"day_after_tomorrow"`
	NextWeek         DateRef `json:"next_week"`
}

type DateRef struct {
	Date    string `json:"date"`
	Weekday string `json:"weekday"`
}

type UsefulInfo struct {
	CurrentDateString string        `json:"current_date_string"`
	CurrentTimeString string        `json:"current_time_string"`
	ISODate           string        `json:"iso_date"`
	BusinessHours     BusinessHours `json:"business_hours"`
}

type BusinessHours struct {
	IsBusinessHours bool   `json:"is_business_hours"`
	NextBusinessDay string `json:"next_business_day"`
}

// LoadZone resolves an IANA zone name. Empty means DefaultTimezone; "Local"
// is refused because it depends on the host.
func LoadZone(tz string) (*time.Location, string, error) {
	tz = strings.TrimSpace(tz)
	if tz == "" {
		tz = DefaultTimezone
	}
	if strings.EqualFold(tz, "local") {
		return nil, tz, fmt.Errorf("%w: %q", ErrUnknownTimezone, tz)
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, tz, fmt.Errorf("%w: %q", ErrUnknownTimezone, tz)
	}
	return loc, tz, nil
}

// Lookup describes now as seen in tz. Relative dates and iso_date follow the
// local calendar, not the UTC one.
func Lookup(now time.Time, tz string) (Snapshot, error) {
	loc, name, err := LoadZone(tz)
	if err != nil {
		return Snapshot{}, err
	}

	local := now.In(loc)
	hour12, _ := strconv.Atoi(local.Format("3"))
	period := strings.ToLower(local.Format("PM"))
	weekday := local.Weekday().String()

	// Noon keeps AddDate clear of DST transitions.
	noon := time.Date(local.Year(), local.Month(), local.Day(), 12, 0, 0, 0, loc)
	ref := func(days int) DateRef {
		d := noon.AddDate(0, 0, days)
		return DateRef{Date: d.Format(isoDate), Weekday: d.Weekday().String()}
	}

	return Snapshot{
		CurrentTime: CurrentTime{
			UTC:          now.UTC().Format("2006-01-02T15:04:05.000Z"),
			UTCTimestamp: now.UnixMilli(),
			Timezone:     name,
			Local:        local.Format("Monday, 02/01/2006, 03:04:05 ") + period,
			Year:         local.Year(),
			Month:        int(local.Month()),
			Day:          local.Day(),
			Hour:         hour12,
			Minute:       local.Minute(),
			Second:       local.Second(),
			Weekday:      weekday,
			IsAM:         period == "am",
			DayPeriod:    period,
		},
		RelativeDates: RelativeDates{
			Today:            ref(0),
			Tomorrow:         ref(1),
			DayAfterTomorrow: ref(2),
			NextWeek:         ref(7),
		},
		UsefulInfo: UsefulInfo{
			CurrentDateString: weekday + ", " + local.Format("02/01/2006"),
			CurrentTimeString: local.Format("03:04 ") + period,
			ISODate:           local.Format(isoDate),
			BusinessHours: BusinessHours{
				IsBusinessHours: isBusinessHours(local),
				NextBusinessDay: nextBusinessDay(local.Weekday()),
			},
		},
	}, nil
}

func isBusinessHours(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return t.Hour() >= businessOpen && t.Hour() < businessClose
}

func nextBusinessDay(d time.Weekday) string {
	switch d {
	case time.Friday, time.Saturday, time.Sunday:
		return "Monday"
	}
	return "Tomorrow"
}
