// Package timeinfo answers "what time is it there" for voice agents that have
// no clock of their own.
//
// Lookup renders one instant in an IANA zone: wall clock parts on a 12-hour
// clock, the next few calendar dates with their weekdays, ready-made date and
// time strings, and a business-hours hint. The tz database is embedded so
// lookups behave the same in scratch containers.
package timeinfo
