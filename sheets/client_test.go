package sheets_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "github.com/atravisjones/Arizona-Roofers-Scheduler/errors"
	"github.com/atravisjones/Arizona-Roofers-Scheduler/fetcher"
	"github.com/atravisjones/Arizona-Roofers-Scheduler/sheets"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newClient(t *testing.T, handler http.HandlerFunc) *sheets.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	f := fetcher.New(0, time.Millisecond, zerolog.Nop())
	f.Sleep = func(time.Duration) {}
	return sheets.NewClient(srv.URL, "SS1", "key", f)
}

func serveJSON(body any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}
}

func TestSheetTitles(t *testing.T) {
	client := newClient(t, serveJSON(map[string]any{"sheets": []any{
		map[string]any{"properties": map[string]any{"title": "Overview"}},
		map[string]any{"properties": map[string]any{"title": "Schedule 1/6 - 1/12"}},
	}}))

	titles, err := client.SheetTitles(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []string{"Overview", "Schedule 1/6 - 1/12"}, titles)
}

func TestRange_CellCoercion(t *testing.T) {
	client := newClient(t, serveJSON(map[string]any{"values": [][]any{
		{"text", true, false, 85001, nil},
	}}))

	grid, err := client.Range(context.Background(), "A1:E1")
	assert.NoError(t, err)
	assert.Equal(t, [][]string{{"text", "TRUE", "FALSE", "85001", ""}}, grid)
}

func TestCell(t *testing.T) {
	tests := map[string]struct {
		values   [][]any
		expected string
	}{
		"Value":         {values: [][]any{{"Jane"}}, expected: "Jane"},
		"BlankCell":     {values: [][]any{{"  "}}, expected: "(empty)"},
		"NoValues":      {values: [][]any{}, expected: "(empty)"},
		"EmptyFirstRow": {values: [][]any{{}}, expected: "(empty)"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			client := newClient(t, serveJSON(map[string]any{"values": tt.values}))

			got, err := client.Cell(context.Background(), "B2", "Schedule 1/6 - 1/12")
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCell_MissingSheetName(t *testing.T) {
	client := newClient(t, serveJSON(map[string]any{"values": [][]any{}}))

	_, err := client.Cell(context.Background(), "B2", "  ")
	assert.True(t, errors.Is(err, apperrors.ErrMissingSheetName))
}

func TestCell_RemoteRefusalPropagates(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.Cell(context.Background(), "B2", "Schedule 1/6 - 1/12")
	var refusal *apperrors.RemoteRefusal
	assert.True(t, errors.As(err, &refusal))
	assert.Equal(t, http.StatusNotFound, refusal.Status)
}
