package models

// TimeSlot is one named sub-window of a working day. The catalog of slots is
// fixed configuration shared by all components.
type TimeSlot struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// DayColumn is a (weekday, column index) pair discovered from the grid
// header row, ordered by column index.
type DayColumn struct {
	Day string
	Col int
}

// RepDraft is the parser-internal, mutable form of a rep. It is created the
// first time a name is recognized during the row scan and mutated as further
// rows for the same person are consumed.
type RepDraft struct {
	Name string
	// UnavailableSlots maps day name to the set of slot IDs marked unavailable.
	UnavailableSlots map[string]map[string]struct{}
	// FirstRowIndex is the 1-based sheet row where this person's block began.
	// Only used later for region inference.
	FirstRowIndex int
}

// SkillRecord holds the auxiliary skill data for one person, keyed externally
// by normalized name. Read-only after construction.
type SkillRecord struct {
	Skills   map[string]int
	ZipCodes []string
}

// Region is a coarse geographic bucket inferred from a rep's row position
// within the grid.
type Region string

const (
	RegionPHX     Region = "PHX"
	RegionNorth   Region = "NORTH"
	RegionSouth   Region = "SOUTH"
	RegionUnknown Region = "UNKNOWN"
)

// Rep is the finalized output entity for one person.
type Rep struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Availability string `json:"availability"`
	// UnavailableSlots always contains an entry for every discovered day
	// column, possibly empty. Slot IDs appear in catalog order.
	UnavailableSlots map[string][]string `json:"unavailableSlots"`
	Skills           map[string]int      `json:"skills,omitempty"`
	ZipCodes         []string            `json:"zipCodes,omitempty"`
	Region           Region              `json:"region"`
	SalesRank        *int                `json:"salesRank,omitempty"`
}

// Roster is the result of one ingestion query.
type Roster struct {
	Reps      []Rep  `json:"reps"`
	SheetName string `json:"sheetName"`
}
