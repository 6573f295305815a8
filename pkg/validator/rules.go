package validator

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
	_ "time/tzdata" // zone lookups must not depend on the host tz database
	"unicode/utf8"
)

func RequiredString(field, value string) Rule {
	return newRule(field, "field is required", func() bool {
		return strings.TrimSpace(value) != ""
	})
}

// MaxLenString counts runes, not bytes.
func MaxLenString(field, value string, max int) Rule {
	return newRule(field, fmt.Sprintf("must be at most %d characters long", max), func() bool {
		return utf8.RuneCountInString(value) <= max
	})
}

// ValidEmail accepts a bare RFC 5322 address whose domain has at least one dot.
func ValidEmail(field, value string) Rule {
	return newRule(field, "must be a valid email address", func() bool {
		return isEmail(value)
	})
}

// ValidEmails passes when every element is a valid address. Empty is valid.
func ValidEmails(field string, values []string) Rule {
	return newRule(field, "must contain only valid email addresses", func() bool {
		for _, v := range values {
			if !isEmail(v) {
				return false
			}
		}
		return true
	})
}

// ValidTimezone passes for empty input or a zone known to the tz database.
func ValidTimezone(field, value string) Rule {
	return newRule(field, "must be a valid IANA timezone", func() bool {
		if value == "" {
			return true
		}
		_, err := time.LoadLocation(value)
		return err == nil && !strings.EqualFold(value, "local")
	})
}

// RFC3339Time passes when value parses as an RFC 3339 timestamp.
func RFC3339Time(field, value string) Rule {
	return newRule(field, "must be an RFC 3339 timestamp", func() bool {
		_, err := time.Parse(time.RFC3339, value)
		return err == nil
	})
}

// OptionalRFC3339Time is RFC3339Time that also accepts an empty value.
func OptionalRFC3339Time(field, value string) Rule {
	r := RFC3339Time(field, value)
	check := r.Check
	r.Check = func() bool { return value == "" || check() }
	return r
}

// UTCTime passes for an empty value or an RFC 3339 timestamp with a zero
// offset ("Z" or "+00:00").
func UTCTime(field, value string) Rule {
	return newRule(field, "must be in UTC", func() bool {
		if value == "" {
			return true
		}
		t, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return true
		}
		_, offset := t.Zone()
		return offset == 0
	})
}

// TimeAfter passes when value is strictly after other. Either being zero passes,
// leaving format errors to the parse rules.
func TimeAfter(field string, value, other time.Time) Rule {
	return newRule(field, "must be after the start time", func() bool {
		return value.IsZero() || other.IsZero() || value.After(other)
	})
}

// PositiveInt passes for values greater than zero.
func PositiveInt(field string, value int) Rule {
	return newRule(field, "must be a positive integer", func() bool {
		return value > 0
	})
}

func isEmail(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value || addr.Name != "" {
		return false
	}
	local, domain, ok := strings.Cut(addr.Address, "@")
	if !ok || local == "" || !strings.Contains(domain, ".") {
		return false
	}
	for part := range strings.SplitSeq(domain, ".") {
		if part == "" {
			return false
		}
	}
	return true
}
