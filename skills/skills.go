// Package skills loads the two auxiliary tables joined onto availability
// data: per-person skill scores with zip coverage, and the sales ranking
// order. Both loaders degrade to empty mappings on failure so availability
// data stays usable without them.
package skills

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/atravisjones/Arizona-Roofers-Scheduler/metrics"
	"github.com/atravisjones/Arizona-Roofers-Scheduler/models"
	"github.com/atravisjones/Arizona-Roofers-Scheduler/normalize"
	"github.com/atravisjones/Arizona-Roofers-Scheduler/sheets"
	"github.com/rs/zerolog"
)

// rankingHeader is the header token that sometimes leaks into the ranking
// data range and must be skipped.
const rankingHeader = "sales order"

var zipSeparators = regexp.MustCompile(`[,;\s]+`)

// Loader fetches and parses the auxiliary tables.
type Loader struct {
	Client       *sheets.Client
	SkillsRange  string
	RankingRange string
	Logger       zerolog.Logger
}

// NewLoader creates a Loader over the given client and ranges.
func NewLoader(client *sheets.Client, skillsRange, rankingRange string, logger zerolog.Logger) *Loader {
	return &Loader{
		Client:       client,
		SkillsRange:  skillsRange,
		RankingRange: rankingRange,
		Logger:       logger.With().Str("component", "skills").Logger(),
	}
}

// FetchSkills retrieves and parses the skills sheet. Any transport or API
// failure yields an empty mapping, never an error.
func (l *Loader) FetchSkills(ctx context.Context) map[string]models.SkillRecord {
	grid, err := l.Client.Range(ctx, l.SkillsRange)
	if err != nil {
		metrics.AuxDegradedTotal.WithLabelValues("skills").Inc()
		l.Logger.Warn().Err(err).Msg("skills retrieval failed, continuing without skill data")
		return map[string]models.SkillRecord{}
	}
	return ParseSkills(grid)
}

// FetchRanks retrieves and parses the sales ranking list with the same
// degradation policy as FetchSkills.
func (l *Loader) FetchRanks(ctx context.Context) map[string]int {
	rows, err := l.Client.Range(ctx, l.RankingRange)
	if err != nil {
		metrics.AuxDegradedTotal.WithLabelValues("ranks").Inc()
		l.Logger.Warn().Err(err).Msg("ranking retrieval failed, continuing without rank data")
		return map[string]int{}
	}
	return ParseRanks(rows)
}

// ParseSkills builds normalized-name-keyed skill records from a header row
// plus data rows. The zip column is the first header containing "zip"
// (case-insensitive); skill columns sit strictly between the name column and
// the zip column. Without a zip column every trailing column is a skill and
// nobody gets zip codes. Non-numeric scores are dropped, not recorded.
func ParseSkills(grid [][]string) map[string]models.SkillRecord {
	out := make(map[string]models.SkillRecord)
	if len(grid) == 0 {
		return out
	}

	header := grid[0]
	zipCol := -1
	for i := 1; i < len(header); i++ {
		if strings.Contains(strings.ToLower(header[i]), "zip") {
			zipCol = i
			break
		}
	}
	skillEnd := zipCol
	if zipCol == -1 {
		skillEnd = len(header)
	}

	for _, row := range grid[1:] {
		if len(row) == 0 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" {
			continue
		}

		rec := models.SkillRecord{Skills: make(map[string]int)}
		for c := 1; c < skillEnd && c < len(row); c++ {
			skillName := strings.TrimSpace(header[c])
			if skillName == "" {
				continue
			}
			score, err := strconv.Atoi(strings.TrimSpace(row[c]))
			if err != nil {
				continue
			}
			rec.Skills[skillName] = score
		}
		if zipCol != -1 && zipCol < len(row) {
			rec.ZipCodes = splitZips(row[zipCol])
		}
		out[normalize.Key(name)] = rec
	}
	return out
}

// ParseRanks derives ranks from list order: the first accepted row is rank 1.
// Duplicate normalized names keep their first (highest) rank, and a leaked
// "sales order" header row does not consume a rank.
func ParseRanks(rows [][]string) map[string]int {
	out := make(map[string]int)
	rank := 1
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" || strings.EqualFold(name, rankingHeader) {
			continue
		}
		key := normalize.Key(name)
		if _, seen := out[key]; seen {
			continue
		}
		out[key] = rank
		rank++
	}
	return out
}

func splitZips(cell string) []string {
	var zips []string
	for _, token := range zipSeparators.Split(strings.TrimSpace(cell), -1) {
		if token != "" {
			zips = append(zips, token)
		}
	}
	return zips
}
