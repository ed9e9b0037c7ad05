// Package roster coordinates one ingestion query: it fans out the auxiliary
// fetches, selects and retrieves the availability sheet, and assembles the
// final rep list.
package roster

import (
	"context"
	"fmt"
	"time"

	"github.com/atravisjones/Arizona-Roofers-Scheduler/config"
	"github.com/atravisjones/Arizona-Roofers-Scheduler/metrics"
	"github.com/atravisjones/Arizona-Roofers-Scheduler/models"
	"github.com/atravisjones/Arizona-Roofers-Scheduler/normalize"
	"github.com/atravisjones/Arizona-Roofers-Scheduler/parser"
	"github.com/atravisjones/Arizona-Roofers-Scheduler/selector"
	"github.com/atravisjones/Arizona-Roofers-Scheduler/sheets"
	"github.com/atravisjones/Arizona-Roofers-Scheduler/skills"
	"github.com/rs/zerolog"
)

// Service runs ingestion queries against one configured spreadsheet.
type Service struct {
	Client *sheets.Client
	Loader *skills.Loader
	Config *config.Config
	Logger zerolog.Logger
}

// NewService wires a Service from its collaborators.
func NewService(client *sheets.Client, loader *skills.Loader, cfg *config.Config, logger zerolog.Logger) *Service {
	return &Service{
		Client: client,
		Loader: loader,
		Config: cfg,
		Logger: logger.With().Str("component", "roster").Logger(),
	}
}

// parse output plus the resolved sheet name, before the auxiliary join.
type gridResult struct {
	sheetName string
	parsed    *parser.Result
}

// FetchSheetData runs one full query for the given target date.
//
// The skill and rank fetches start immediately and run concurrently with the
// metadata fetch; sheet selection gates the grid fetch, which then proceeds
// in parallel with any still-in-flight auxiliary work. The auxiliary results
// are awaited, never re-issued, before assembly. Skill or rank failure
// degrades to empty mappings; metadata, grid or layout failure fails the
// query unless the fallback dataset is enabled.
func (s *Service) FetchSheetData(ctx context.Context, date time.Time) (*models.Roster, error) {
	start := time.Now()
	defer func() {
		metrics.QueryDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	skillCh := make(chan map[string]models.SkillRecord, 1)
	rankCh := make(chan map[string]int, 1)
	go func() { skillCh <- s.Loader.FetchSkills(ctx) }()
	go func() { rankCh <- s.Loader.FetchRanks(ctx) }()

	grid, err := s.fetchAvailability(ctx, date)
	if err != nil {
		if !s.Config.UseFallbackData {
			return nil, err
		}
		metrics.FallbackActivationsTotal.Inc()
		s.Logger.Warn().Err(err).Msg("live retrieval failed, substituting fallback dataset")
		grid = s.fallbackGrid()
	}

	skillRecords := <-skillCh
	ranks := <-rankCh

	roster := s.assemble(grid, skillRecords, ranks)
	if len(roster.Reps) == 0 {
		metrics.EmptyResultsTotal.Inc()
		s.Logger.Warn().Str("sheet", roster.SheetName).
			Msg("sheet retrieved successfully but parsed to zero reps")
	}
	return roster, nil
}

// FetchSheetCell is a narrow single-cell lookup against the named sheet.
func (s *Service) FetchSheetCell(ctx context.Context, cellRef, sheetName string) (string, error) {
	return s.Client.Cell(ctx, cellRef, sheetName)
}

func (s *Service) fetchAvailability(ctx context.Context, date time.Time) (*gridResult, error) {
	titles, err := s.Client.SheetTitles(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching spreadsheet metadata: %w", err)
	}

	sheetName, err := selector.Select(titles, date, s.Config.SheetTitlePrefix, s.Logger)
	if err != nil {
		return nil, err
	}

	cells, err := s.Client.Range(ctx, fmt.Sprintf("'%s'!%s", sheetName, s.Config.AvailabilityRange))
	if err != nil {
		return nil, fmt.Errorf("fetching availability grid %q: %w", sheetName, err)
	}

	parsed, err := parser.ParseGrid(cells, s.Config.TimeSlots)
	if err != nil {
		return nil, err
	}
	return &gridResult{sheetName: sheetName, parsed: parsed}, nil
}

// assemble finalizes the drafts in discovery order, joining the auxiliary
// maps by normalized name. Missing skills, zips or rank are not errors.
func (s *Service) assemble(grid *gridResult, skillRecords map[string]models.SkillRecord, ranks map[string]int) *models.Roster {
	reps := make([]models.Rep, 0, len(grid.parsed.Drafts))

	for i, draft := range grid.parsed.Drafts {
		rep := models.Rep{
			ID:               fmt.Sprintf("rep-%d-%s", i+1, normalize.Slug(draft.Name)),
			Name:             draft.Name,
			Availability:     parser.Summary(draft, grid.parsed.Days, len(s.Config.TimeSlots)),
			UnavailableSlots: orderedSlots(draft, grid.parsed.Days, s.Config.TimeSlots),
			Region:           s.Config.RegionFor(draft.FirstRowIndex),
		}

		key := normalize.Key(draft.Name)
		if rec, ok := skillRecords[key]; ok {
			rep.Skills = rec.Skills
			rep.ZipCodes = rec.ZipCodes
		}
		if rank, ok := ranks[key]; ok {
			r := rank
			rep.SalesRank = &r
		}

		reps = append(reps, rep)
	}

	metrics.RepsParsed.Set(float64(len(reps)))
	return &models.Roster{Reps: reps, SheetName: grid.sheetName}
}

// orderedSlots flattens a draft's unavailable-slot sets into catalog-ordered
// lists, keeping an entry for every discovered day even when it is empty.
func orderedSlots(draft *models.RepDraft, days []models.DayColumn, slots []models.TimeSlot) map[string][]string {
	out := make(map[string][]string, len(days))
	for _, day := range days {
		ids := make([]string, 0, len(draft.UnavailableSlots[day.Day]))
		for _, slot := range slots {
			if _, blocked := draft.UnavailableSlots[day.Day][slot.ID]; blocked {
				ids = append(ids, slot.ID)
			}
		}
		out[day.Day] = ids
	}
	return out
}
