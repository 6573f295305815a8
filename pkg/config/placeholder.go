package config

import "strings"

// Configured reports whether v holds a real value. Empty strings and the
// template placeholders shipped in .env.example ("your-azure-tenant-id",
// "<client-secret>", "changeme") count as unset.
func Configured(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	lower := strings.ToLower(v)
	switch {
	case strings.HasPrefix(lower, "your-"), strings.HasPrefix(lower, "your_"):
		return false
	case strings.HasPrefix(v, "<") && strings.HasSuffix(v, ">"):
		return false
	case lower == "changeme", lower == "todo", lower == "xxx":
		return false
	}
	return true
}
