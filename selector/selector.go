// Package selector picks which named sheet holds the schedule for a target
// date. Schedule sheets carry a "M/D - M/D" date-range token in their title;
// the range may cross a year boundary (December into January), and the
// viewer may be inspecting a date near year-end, so each range is tried
// against three candidate years.
package selector

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/atravisjones/Arizona-Roofers-Scheduler/errors"
	"github.com/atravisjones/Arizona-Roofers-Scheduler/metrics"
	"github.com/rs/zerolog"
)

var rangeToken = regexp.MustCompile(`(\d{1,2})/(\d{1,2})\s*-\s*(\d{1,2})/(\d{1,2})`)

// Select returns the first title (in list order) whose embedded date range
// covers target for any of the three candidate years. When no range matches
// it falls back to the first prefixed title with a warning; when no title
// carries the prefix at all, selection fails.
func Select(titles []string, target time.Time, prefix string, logger zerolog.Logger) (string, error) {
	day := startOfDay(target)
	firstPrefixed := ""

	for _, title := range titles {
		if !strings.HasPrefix(title, prefix) {
			continue
		}
		if firstPrefixed == "" {
			firstPrefixed = title
		}
		m := rangeToken.FindStringSubmatch(title)
		if m == nil {
			continue
		}
		startMonth, _ := strconv.Atoi(m[1])
		startDay, _ := strconv.Atoi(m[2])
		endMonth, _ := strconv.Atoi(m[3])
		endDay, _ := strconv.Atoi(m[4])

		for _, year := range []int{day.Year(), day.Year() - 1, day.Year() + 1} {
			if covers(day, startMonth, startDay, endMonth, endDay, year) {
				return title, nil
			}
		}
	}

	if firstPrefixed != "" {
		metrics.SheetFallbackTotal.Inc()
		logger.Warn().Str("title", firstPrefixed).Time("target", day).
			Msg("no sheet date range covers the target date, falling back to first prefixed sheet")
		return firstPrefixed, nil
	}

	return "", &apperrors.LayoutError{Detail: "sheet selection", Err: apperrors.ErrNoScheduleSheet}
}

// covers reports whether day falls inside the range anchored at year. A range
// whose start month is after its end month crosses December into January, so
// the end bound lands in the following year.
func covers(day time.Time, startMonth, startDay, endMonth, endDay, year int) bool {
	endYear := year
	if startMonth > endMonth {
		endYear = year + 1
	}
	start := time.Date(year, time.Month(startMonth), startDay, 0, 0, 0, 0, day.Location())
	end := time.Date(endYear, time.Month(endMonth), endDay, 23, 59, 59, 999_000_000, day.Location())
	return !day.Before(start) && !day.After(end)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
