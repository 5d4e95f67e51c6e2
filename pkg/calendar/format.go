package calendar

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
)

// DefaultLocale is used when a locale is empty or cannot be parsed.
const DefaultLocale = "pt-BR"

type fieldOrder int

const (
	orderDMY fieldOrder = iota
	orderMDY
	orderYMD
)

type displayLayout struct {
	order fieldOrder
	sep   string
}

var (
	// Regions writing month first.
	mdyRegions = map[string]bool{"US": true, "PH": true, "FM": true, "MH": true, "PW": true, "BZ": true}
	// Languages writing year first.
	ymdBases = map[string]displayLayout{
		"ja": {orderYMD, "/"},
		"zh": {orderYMD, "/"},
		"ko": {orderYMD, ". "},
		"hu": {orderYMD, ". "},
		"lt": {orderYMD, "-"},
		"sv": {orderYMD, "-"},
	}
	// Languages writing day first with a separator other than "/".
	dmyBases = map[string]string{
		"de": ".", "ru": ".", "pl": ".", "tr": ".", "cs": ".", "fi": ".",
		"nb": ".", "uk": ".", "ro": ".", "nl": "-", "da": ".",
	}
)

// Format renders d in the conventional numeric day/month/year order of the
// given BCP 47 locale, e.g. "23/02/2026" for pt-BR and "02/23/2026" for en-US.
// The zero date renders as "".
func (d Date) Format(locale string) string {
	if d.IsZero() {
		return ""
	}
	layout := layoutFor(locale)
	yyyy := fmt.Sprintf("%04d", d.Year)
	mm := fmt.Sprintf("%02d", int(d.Month))
	dd := fmt.Sprintf("%02d", d.Day)

	switch layout.order {
	case orderMDY:
		return mm + layout.sep + dd + layout.sep + yyyy
	case orderYMD:
		return yyyy + layout.sep + mm + layout.sep + dd
	default:
		return dd + layout.sep + mm + layout.sep + yyyy
	}
}

// ParseDisplay reads a string produced by Format for the same locale.
func ParseDisplay(s, locale string) (Date, error) {
	layout := layoutFor(locale)
	var a, b, c int
	pattern := "%d" + layout.sep + "%d" + layout.sep + "%d"
	if n, err := fmt.Sscanf(s, pattern, &a, &b, &c); err != nil || n != 3 {
		return Date{}, fmt.Errorf("%w: %q for locale %s", ErrInvalidFormat, s, locale)
	}
	switch layout.order {
	case orderMDY:
		return New(c, monthOf(a), b)
	case orderYMD:
		return New(a, monthOf(b), c)
	default:
		return New(c, monthOf(b), a)
	}
}

func layoutFor(locale string) displayLayout {
	if locale == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.MustParse(DefaultLocale)
	}

	base, _ := tag.Base()
	region, _ := tag.Region()

	if base.String() == "en" && mdyRegions[region.String()] {
		return displayLayout{orderMDY, "/"}
	}
	if l, ok := ymdBases[base.String()]; ok {
		return l
	}
	if sep, ok := dmyBases[base.String()]; ok {
		return displayLayout{orderDMY, sep}
	}
	return displayLayout{orderDMY, "/"}
}

func monthOf(n int) time.Month {
	return time.Month(n)
}
