package calcom

import (
	"strings"

	"golang.org/x/text/language"
)

// NormalizeLanguage reduces a BCP 47 tag to its base language ("en-AU" → "en").
// Empty, unparseable and undetermined input yields DefaultLanguage.
func NormalizeLanguage(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return DefaultLanguage
	}
	t, err := language.Parse(tag)
	if err != nil {
		return DefaultLanguage
	}
	base, conf := t.Base()
	if conf == language.No || base.String() == "und" {
		return DefaultLanguage
	}
	return base.String()
}
