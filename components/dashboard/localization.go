package dashboard

import (
	"fmt"
	"strings"
	"time"
)

// Weekday and month display names per locale. Keys are matched
// case-insensitively, and language-region pairs (`de-at`) fall back to their
// base language (`de`) before the default.
var (
	weekdayNames = map[string][7]string{
		"en": {"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"},
		"de": {"Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag", "Sonntag"},
	}
	monthNames = map[string][12]string{
		"en": {"January", "February", "March", "April", "May", "June", "July",
			"August", "September", "October", "November", "December"},
		"de": {"Januar", "Februar", "März", "April", "Mai", "Juni", "Juli",
			"August", "September", "Oktober", "November", "Dezember"},
	}
)

const defaultLocale = "en"

// WeekdayName returns the localized name of t's weekday.
func WeekdayName(t time.Time, locale string) string {
	names := weekdayNamesFor(locale)
	return names[mondayIndex(t.Weekday())]
}

// MonthName returns the localized name of t's month.
func MonthName(t time.Time, locale string) string {
	names, ok := monthNames[resolveLocale(locale, func(l string) bool {
		_, ok := monthNames[l]
		return ok
	})]
	if !ok {
		names = monthNames[defaultLocale]
	}
	return names[int(t.Month())-1]
}

// DateTitle renders the heading above the calendar,
// e.g. "Wednesday, 15. May 2024".
func DateTitle(t time.Time, locale string) string {
	return fmt.Sprintf("%s, %d. %s %d", WeekdayName(t, locale), t.Day(), MonthName(t, locale), t.Year())
}

func weekdayNamesFor(locale string) [7]string {
	if names, ok := weekdayNames[resolveLocale(locale, func(l string) bool {
		_, ok := weekdayNames[l]
		return ok
	})]; ok {
		return names
	}
	return weekdayNames[defaultLocale]
}

// mondayIndex maps Go's Sunday-first weekday numbering onto the Monday-first
// strip used everywhere in this package.
func mondayIndex(d time.Weekday) int {
	if d == time.Sunday {
		return 6
	}
	return int(d) - 1
}

func resolveLocale(locale string, known func(string) bool) string {
	for _, candidate := range localeCandidates(locale) {
		if known(candidate) {
			return candidate
		}
	}
	return defaultLocale
}

func localeCandidates(locale string) []string {
	locale = strings.TrimSpace(strings.ToLower(locale))
	if locale == "" {
		return []string{defaultLocale}
	}
	candidates := []string{locale}
	if idx := strings.Index(locale, "-"); idx > 0 {
		candidates = append(candidates, locale[:idx])
	}
	return append(candidates, defaultLocale)
}
