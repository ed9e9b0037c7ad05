package roster

import (
	"github.com/atravisjones/Arizona-Roofers-Scheduler/models"
	"github.com/atravisjones/Arizona-Roofers-Scheduler/parser"
)

// FallbackSheetName clearly marks a roster built from the synthetic dataset
// rather than live data.
const FallbackSheetName = "(fallback)"

// fallbackNames are the synthetic reps, one per region band plus one outside
// every band, so the fallback roster exercises the same downstream paths as
// a live one.
var fallbackNames = []struct {
	name string
	row  int
}{
	{"Sample Rep Phoenix", 5},
	{"Sample Rep North", 100},
	{"Sample Rep South", 150},
	{"Sample Rep Unassigned", 300},
}

// fallbackGrid builds a parse result equivalent to a Monday-Friday sheet
// where every synthetic rep is fully available.
func (s *Service) fallbackGrid() *gridResult {
	days := []models.DayColumn{
		{Day: "Monday", Col: 1},
		{Day: "Tuesday", Col: 2},
		{Day: "Wednesday", Col: 3},
		{Day: "Thursday", Col: 4},
		{Day: "Friday", Col: 5},
	}

	drafts := make([]*models.RepDraft, 0, len(fallbackNames))
	for _, f := range fallbackNames {
		draft := &models.RepDraft{
			Name:             f.name,
			FirstRowIndex:    f.row,
			UnavailableSlots: make(map[string]map[string]struct{}, len(days)),
		}
		for _, day := range days {
			draft.UnavailableSlots[day.Day] = make(map[string]struct{})
		}
		drafts = append(drafts, draft)
	}

	return &gridResult{
		sheetName: FallbackSheetName,
		parsed:    &parser.Result{Days: days, Drafts: drafts},
	}
}
