package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestNormalizeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	toEntries := func(offsets []int) []HistoryEntry {
		entries := make([]HistoryEntry, len(offsets))
		for i, off := range offsets {
			entries[i] = HistoryEntry{
				Date:     base.Add(time.Duration(off) * time.Minute),
				Status:   Statuses[i%len(Statuses)],
				Location: "Stop",
			}
		}
		return entries
	}

	properties.Property("chronological history is sorted by date", prop.ForAll(
		func(offsets []int) bool {
			_, chronological, _ := Normalize(toEntries(offsets))
			for i := 1; i < len(chronological); i++ {
				if chronological[i].Date.Before(chronological[i-1].Date) {
					return false
				}
			}
			return len(chronological) == len(offsets)
		},
		gen.SliceOf(gen.IntRange(-10000, 10000)),
	))

	properties.Property("newest-first starts with the current entry", prop.ForAll(
		func(offsets []int) bool {
			current, chronological, ok := Normalize(toEntries(offsets))
			if !ok {
				return len(offsets) == 0
			}
			return NewestFirst(chronological)[0] == current
		},
		gen.SliceOf(gen.IntRange(-100, 100)),
	))

	properties.TestingRun(t)
}

func TestMapperProperties(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("progress and stage stay in range for any text", prop.ForAll(
		func(text string) bool {
			p, s := ProgressOf(text), StageOf(text)
			return p >= 0 && p <= 100 && s >= 0 && s <= 4
		},
		gen.AnyString(),
	))

	properties.Property("classification ignores case and padding", prop.ForAll(
		func(idx int, upper bool) bool {
			status := string(Statuses[idx])
			variant := "  " + status + "\t"
			if upper {
				variant = strings.ToUpper(variant)
			}
			return ColorOf(variant) == ColorOf(status) &&
				ProgressOf(variant) == ProgressOf(status) &&
				StageOf(variant) == StageOf(status)
		},
		gen.IntRange(0, len(Statuses)-1),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
