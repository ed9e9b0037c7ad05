package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atravisjones/Arizona-Roofers-Scheduler/models"
	"github.com/joho/godotenv"
)

// RegionBand maps an inclusive range of 1-based sheet rows to a region.
// The bands mirror the physical layout of the source sheet and must be
// re-derived for any structurally different sheet.
type RegionBand struct {
	Region models.Region
	First  int
	Last   int
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	SpreadsheetID    string
	APIKey           string
	BaseURL          string
	SheetTitlePrefix string

	AvailabilityRange string
	SkillsRange       string
	RankingRange      string

	TimeSlots   []models.TimeSlot
	RegionBands []RegionBand

	MaxRetries   int
	InitialDelay time.Duration

	UseFallbackData bool

	Port           string
	AllowedOrigins []string
	LogLevel       string
}

// Load reads the .env file (if present) and returns a populated Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		SpreadsheetID:    getEnv("SPREADSHEET_ID", ""),
		APIKey:           getEnv("SHEETS_API_KEY", ""),
		BaseURL:          getEnv("SHEETS_BASE_URL", "https://sheets.googleapis.com/v4/spreadsheets"),
		SheetTitlePrefix: getEnv("SHEET_TITLE_PREFIX", "Schedule"),

		AvailabilityRange: getEnv("AVAILABILITY_RANGE", "A1:H190"),
		SkillsRange:       getEnv("SKILLS_RANGE", "Skills!A1:H60"),
		RankingRange:      getEnv("RANKING_RANGE", "Sales Order!A2:A60"),

		MaxRetries:      getEnvInt("MAX_RETRIES", 3),
		InitialDelay:    time.Duration(getEnvInt("INITIAL_DELAY_MS", 1000)) * time.Millisecond,
		UseFallbackData: getEnvBool("USE_FALLBACK_DATA", false),

		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: splitAndTrim(getEnv("ALLOWED_ORIGINS", "http://localhost:5173"), ","),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	slots, err := parseTimeSlots(getEnv("TIME_SLOTS", DefaultTimeSlots))
	if err != nil {
		return nil, fmt.Errorf("invalid TIME_SLOTS: %w", err)
	}
	cfg.TimeSlots = slots

	bands, err := parseRegionBands(getEnv("REGION_BANDS", DefaultRegionBands))
	if err != nil {
		return nil, fmt.Errorf("invalid REGION_BANDS: %w", err)
	}
	cfg.RegionBands = bands

	return cfg, nil
}

// DefaultTimeSlots is the four-window working day used by the scheduling
// sheet, as "id=label" pairs separated by semicolons.
const DefaultTimeSlots = "morning=8am - 10am;midday=10am - 12pm;afternoon=12pm - 2pm;evening=2pm - 4pm"

// DefaultRegionBands encodes the row ranges of the three geographic sections
// in the current sheet layout. Rows outside every band resolve to UNKNOWN.
const DefaultRegionBands = "PHX:2-90,NORTH:91-140,SOUTH:141-190"

// RegionFor resolves a 1-based sheet row to its region band.
func (c *Config) RegionFor(row int) models.Region {
	for _, b := range c.RegionBands {
		if row >= b.First && row <= b.Last {
			return b.Region
		}
	}
	return models.RegionUnknown
}

func parseTimeSlots(raw string) ([]models.TimeSlot, error) {
	var slots []models.TimeSlot
	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		id, label, ok := strings.Cut(entry, "=")
		if !ok || strings.TrimSpace(id) == "" || strings.TrimSpace(label) == "" {
			return nil, fmt.Errorf("expected id=label, got %q", entry)
		}
		slots = append(slots, models.TimeSlot{ID: strings.TrimSpace(id), Label: strings.TrimSpace(label)})
	}
	if len(slots) == 0 {
		return nil, fmt.Errorf("no time slots configured")
	}
	return slots, nil
}

func parseRegionBands(raw string) ([]RegionBand, error) {
	var bands []RegionBand
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, span, ok := strings.Cut(entry, ":")
		if !ok {
			return nil, fmt.Errorf("expected REGION:first-last, got %q", entry)
		}
		lo, hi, ok := strings.Cut(span, "-")
		if !ok {
			return nil, fmt.Errorf("expected first-last range, got %q", span)
		}
		first, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("bad range start in %q: %w", entry, err)
		}
		last, err := strconv.Atoi(strings.TrimSpace(hi))
		if err != nil {
			return nil, fmt.Errorf("bad range end in %q: %w", entry, err)
		}
		if last < first {
			return nil, fmt.Errorf("inverted range in %q", entry)
		}
		bands = append(bands, RegionBand{Region: models.Region(strings.TrimSpace(name)), First: first, Last: last})
	}
	return bands, nil
}

func splitAndTrim(raw, sep string) []string {
	parts := strings.Split(raw, sep)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
