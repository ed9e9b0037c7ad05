// Package parser turns the two-dimensional availability grid into per-person
// unavailable time slots. The grid is a human-maintained sheet that was never
// designed for machine consumption: a person's name may appear once followed
// by several unlabeled time-slot rows, section headers divide the sheet into
// visual blocks, and availability marks are an inconsistent mix of blanks,
// booleans and checkmarks.
package parser

import (
	"regexp"
	"strings"
	"time"

	apperrors "github.com/atravisjones/Arizona-Roofers-Scheduler/errors"
	"github.com/atravisjones/Arizona-Roofers-Scheduler/metrics"
	"github.com/atravisjones/Arizona-Roofers-Scheduler/models"
)

// Result holds the discovered day columns and the drafts in discovery order.
type Result struct {
	Days   []models.DayColumn
	Drafts []*models.RepDraft
}

// weekdays is the fixed vocabulary matched against header cells, in ISO
// order. Day names in the output use the canonical capitalized form.
var weekdays = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// sectionDivider matches ALL-CAPS letters-and-spaces tokens like "PHOENIX"
// or "NORTH TEAM" that split the grid into sections.
var sectionDivider = regexp.MustCompile(`^[A-Z][A-Z\s]*$`)

// checkmarks are the glyphs authors use to mean "available".
var checkmarks = map[string]struct{}{
	"✓": {},
	"✔": {},
	"✅": {},
	"☑": {},
}

// slotMatcher recognizes one time-slot label anchored at the end of a cell,
// case-insensitively and with or without spaces around the dash.
type slotMatcher struct {
	slot models.TimeSlot
	re   *regexp.Regexp
}

// ParseGrid scans the grid and returns one draft per recognized person.
// Row 0 is the header; a header with no day columns is a hard failure since
// every downstream assumption depends on them.
func ParseGrid(grid [][]string, slots []models.TimeSlot) (*Result, error) {
	start := time.Now()
	defer func() {
		metrics.ParseDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	if len(grid) == 0 {
		return nil, &apperrors.LayoutError{Detail: "availability grid", Err: apperrors.ErrEmptyGrid}
	}
	days := parseHeader(grid[0])
	if len(days) == 0 {
		return nil, &apperrors.LayoutError{Detail: "availability grid", Err: apperrors.ErrNoDayColumns}
	}

	matchers := buildMatchers(slots)
	drafts := make(map[string]*models.RepDraft)
	var order []*models.RepDraft

	// currentName carries a person's name forward onto slot rows that omit
	// it because it was already stated earlier in the same visual block.
	currentName := ""

	for r := 1; r < len(grid); r++ {
		row := grid[r]
		first := ""
		if len(row) > 0 {
			first = strings.TrimSpace(row[0])
		}

		// A blank first cell ends the current block.
		if first == "" {
			currentName = ""
			metrics.ParserRowsTotal.WithLabelValues("blank").Inc()
			continue
		}

		// Section dividers end the current block too.
		if len(first) > 1 && sectionDivider.MatchString(first) {
			currentName = ""
			metrics.ParserRowsTotal.WithLabelValues("divider").Inc()
			continue
		}

		slot, prefix, ok := matchSlot(first, matchers)
		if !ok {
			// A bare name announcing the block that follows.
			currentName = trimName(first)
			metrics.ParserRowsTotal.WithLabelValues("name").Inc()
			continue
		}

		name := trimName(prefix)
		if name == "" {
			name = currentName
		}
		if name == "" {
			// A stray label-only row with no carried context. The origin
			// data contains these; they are dropped, not errors.
			metrics.ParserRowsTotal.WithLabelValues("dropped").Inc()
			continue
		}
		currentName = name

		draft := drafts[name]
		if draft == nil {
			draft = newDraft(name, r+1, days)
			drafts[name] = draft
			order = append(order, draft)
		}

		for _, day := range days {
			cell := ""
			if day.Col < len(row) {
				cell = row[day.Col]
			}
			if !available(cell) {
				draft.UnavailableSlots[day.Day][slot.ID] = struct{}{}
			}
		}
		metrics.ParserRowsTotal.WithLabelValues("slot").Inc()
	}

	return &Result{Days: days, Drafts: order}, nil
}

// Summary lists the 3-letter abbreviations of the days that still have at
// least one open slot, or "Not available" when every day is fully blocked.
func Summary(draft *models.RepDraft, days []models.DayColumn, totalSlots int) string {
	var open []string
	for _, day := range days {
		if len(draft.UnavailableSlots[day.Day]) < totalSlots {
			open = append(open, abbrev(day.Day))
		}
	}
	if len(open) == 0 {
		return "Not available"
	}
	return strings.Join(open, ", ")
}

// parseHeader discovers day columns: every column after the name column
// whose trimmed text starts with a full weekday name, in header order.
func parseHeader(header []string) []models.DayColumn {
	var days []models.DayColumn
	for c := 1; c < len(header); c++ {
		cell := strings.ToLower(strings.TrimSpace(header[c]))
		for _, wd := range weekdays {
			if strings.HasPrefix(cell, strings.ToLower(wd)) {
				days = append(days, models.DayColumn{Day: wd, Col: c})
				break
			}
		}
	}
	return days
}

func buildMatchers(slots []models.TimeSlot) []slotMatcher {
	matchers := make([]slotMatcher, 0, len(slots))
	for _, slot := range slots {
		parts := strings.Split(slot.Label, "-")
		for i := range parts {
			parts[i] = regexp.QuoteMeta(strings.TrimSpace(parts[i]))
		}
		re := regexp.MustCompile(`(?i)^(.*?)\s*` + strings.Join(parts, `\s*-\s*`) + `$`)
		matchers = append(matchers, slotMatcher{slot: slot, re: re})
	}
	return matchers
}

// matchSlot tests a first-column cell against every slot label. On a match
// it returns the slot and the text preceding the label (the person's name,
// possibly empty).
func matchSlot(text string, matchers []slotMatcher) (models.TimeSlot, string, bool) {
	for _, m := range matchers {
		if sub := m.re.FindStringSubmatch(text); sub != nil {
			return m.slot, sub[1], true
		}
	}
	return models.TimeSlot{}, "", false
}

func newDraft(name string, sheetRow int, days []models.DayColumn) *models.RepDraft {
	draft := &models.RepDraft{
		Name:             name,
		FirstRowIndex:    sheetRow,
		UnavailableSlots: make(map[string]map[string]struct{}, len(days)),
	}
	for _, day := range days {
		draft.UnavailableSlots[day.Day] = make(map[string]struct{})
	}
	return draft
}

// available reports whether a cell marks the slot as open. Default policy is
// "available unless explicitly marked otherwise": only an empty cell, a TRUE
// boolean or a checkmark means open; any other content blocks the slot.
func available(cell string) bool {
	t := strings.TrimSpace(cell)
	if t == "" || strings.EqualFold(t, "TRUE") {
		return true
	}
	_, ok := checkmarks[t]
	return ok
}

func trimName(s string) string {
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), ":"))
}

func abbrev(day string) string {
	if len(day) < 3 {
		return day
	}
	return day[:3]
}
