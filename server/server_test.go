package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/atravisjones/Arizona-Roofers-Scheduler/config"
	"github.com/atravisjones/Arizona-Roofers-Scheduler/fetcher"
	"github.com/atravisjones/Arizona-Roofers-Scheduler/models"
	"github.com/atravisjones/Arizona-Roofers-Scheduler/roster"
	"github.com/atravisjones/Arizona-Roofers-Scheduler/server"
	"github.com/atravisjones/Arizona-Roofers-Scheduler/sheets"
	"github.com/atravisjones/Arizona-Roofers-Scheduler/skills"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// upstreamHandler fakes a healthy tabular source with one schedule sheet.
func upstreamHandler() http.HandlerFunc {
	writeJSON := func(w http.ResponseWriter, body any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "/values/"):
			switch {
			case strings.Contains(r.URL.Path, "Skills"), strings.Contains(r.URL.Path, "Sales"):
				writeJSON(w, map[string]any{"values": [][]any{}})
			default:
				writeJSON(w, map[string]any{"values": [][]any{
					{"Crew", "Monday 1/6"},
					{"Sam Lee 8am - 10am", ""},
					{"B2 note", ""},
				}})
			}
		default:
			writeJSON(w, map[string]any{"sheets": []any{
				map[string]any{"properties": map[string]any{"title": "Schedule 1/6 - 1/12"}},
			}})
		}
	}
}

func newAPI(t *testing.T) http.Handler {
	t.Helper()
	upstream := httptest.NewServer(upstreamHandler())
	t.Cleanup(upstream.Close)

	cfg := &config.Config{
		SpreadsheetID:     "SS1",
		SheetTitlePrefix:  "Schedule",
		AvailabilityRange: "A1:H190",
		SkillsRange:       "Skills!A1:H60",
		RankingRange:      "Sales Order!A2:A60",
		TimeSlots: []models.TimeSlot{
			{ID: "morning", Label: "8am - 10am"},
		},
		RegionBands:  []config.RegionBand{{Region: models.RegionPHX, First: 2, Last: 90}},
		MaxRetries:   0,
		InitialDelay: time.Millisecond,
	}

	f := fetcher.New(cfg.MaxRetries, cfg.InitialDelay, zerolog.Nop())
	f.Sleep = func(time.Duration) {}
	client := sheets.NewClient(upstream.URL, cfg.SpreadsheetID, cfg.APIKey, f)
	loader := skills.NewLoader(client, cfg.SkillsRange, cfg.RankingRange, zerolog.Nop())
	svc := roster.NewService(client, loader, cfg, zerolog.Nop())

	return server.New(svc, zerolog.Nop()).Routes([]string{"*"})
}

func get(t *testing.T, api http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealthz(t *testing.T) {
	rec := get(t, newAPI(t), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRosterEndpoint(t *testing.T) {
	rec := get(t, newAPI(t), "/api/roster?date=2024-01-08")
	assert.Equal(t, http.StatusOK, rec.Code)

	var snapshot models.Roster
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	assert.Equal(t, "Schedule 1/6 - 1/12", snapshot.SheetName)
	assert.Len(t, snapshot.Reps, 1)
	assert.Equal(t, "Sam Lee", snapshot.Reps[0].Name)
}

func TestRosterEndpoint_BadDate(t *testing.T) {
	rec := get(t, newAPI(t), "/api/roster?date=01-08-2024")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCellEndpoint(t *testing.T) {
	api := newAPI(t)

	rec := get(t, api, "/api/cell?ref=A2&sheet=Schedule+1%2F6+-+1%2F12")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["value"])
}

func TestCellEndpoint_MissingParams(t *testing.T) {
	api := newAPI(t)

	rec := get(t, api, "/api/cell")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(t, api, "/api/cell?ref=A2")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	api := newAPI(t)
	get(t, api, "/api/roster?date=2024-01-08")

	rec := get(t, api, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ingest_reps_parsed")
	assert.Contains(t, rec.Body.String(), "fetch_attempts_total")
}
