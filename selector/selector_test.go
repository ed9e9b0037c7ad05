package selector_test

import (
	"errors"
	"testing"
	"time"

	apperrors "github.com/atravisjones/Arizona-Roofers-Scheduler/errors"
	"github.com/atravisjones/Arizona-Roofers-Scheduler/selector"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSelect(t *testing.T) {
	date := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 15, 30, 0, 0, time.UTC)
	}

	tests := map[string]struct {
		titles        []string
		target        time.Time
		expected      string
		expectedError error
	}{
		"YearRollover_RangeSpansDecemberIntoJanuary": {
			titles:   []string{"Schedule 12/30 - 1/5", "Schedule 1/6 - 1/12"},
			target:   date(2024, time.January, 2),
			expected: "Schedule 12/30 - 1/5",
		},
		"PlainRange_SecondSheet": {
			titles:   []string{"Schedule 12/30 - 1/5", "Schedule 1/6 - 1/12"},
			target:   date(2024, time.January, 8),
			expected: "Schedule 1/6 - 1/12",
		},
		"InclusiveBounds_StartDay": {
			titles:   []string{"Schedule 3/4 - 3/10"},
			target:   date(2024, time.March, 4),
			expected: "Schedule 3/4 - 3/10",
		},
		"InclusiveBounds_EndDay": {
			titles:   []string{"Schedule 3/4 - 3/10"},
			target:   date(2024, time.March, 10),
			expected: "Schedule 3/4 - 3/10",
		},
		"DashWithoutSpaces": {
			titles:   []string{"Schedule 3/4-3/10"},
			target:   date(2024, time.March, 6),
			expected: "Schedule 3/4-3/10",
		},
		"FirstMatchInListOrderWins": {
			titles:   []string{"Schedule 3/1 - 3/31", "Schedule 3/4 - 3/10"},
			target:   date(2024, time.March, 6),
			expected: "Schedule 3/1 - 3/31",
		},
		"NonPrefixedTitlesIgnored": {
			titles:   []string{"Notes 3/4 - 3/10", "Schedule 3/4 - 3/10"},
			target:   date(2024, time.March, 6),
			expected: "Schedule 3/4 - 3/10",
		},
		"NoRangeCoversTarget_FallsBackToFirstPrefixed": {
			titles:   []string{"Overview", "Schedule 1/6 - 1/12", "Schedule 1/13 - 1/19"},
			target:   date(2024, time.June, 1),
			expected: "Schedule 1/6 - 1/12",
		},
		"PrefixedTitleWithoutRangeToken_StillFallbackCandidate": {
			titles:   []string{"Schedule (old)", "Schedule 1/6 - 1/12"},
			target:   date(2024, time.June, 1),
			expected: "Schedule (old)",
		},
		"NoPrefixedTitle_Fails": {
			titles:        []string{"Overview", "Notes 1/6 - 1/12"},
			target:        date(2024, time.January, 8),
			expectedError: apperrors.ErrNoScheduleSheet,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := selector.Select(tt.titles, tt.target, "Schedule", zerolog.Nop())

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, tt.expectedError))
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSelect_TriesPriorAndNextYear(t *testing.T) {
	// A viewer in late December 2023 looking at the first days of January:
	// the range is authored for the new year but must still match.
	got, err := selector.Select(
		[]string{"Schedule 12/30 - 1/5"},
		time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC),
		"Schedule", zerolog.Nop())

	assert.NoError(t, err)
	assert.Equal(t, "Schedule 12/30 - 1/5", got)
}
