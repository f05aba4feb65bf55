// Package themecolor assigns each group member a visually distinct
// (color, pattern) combination for UI differentiation.
package themecolor

import (
	"math/rand"
	"time"

	"github.com/divvyapp/divvy/pkg/divvy/models"
)

// PlaceholderIndex is reserved for the departed-member placeholder and is
// never produced by live allocation.
const PlaceholderIndex = -1

type paletteEntry struct {
	Name  string
	Light string
	Dark  string
}

var palette = []paletteEntry{
	{"coral", "#FF7F6B", "#C94F3D"},
	{"amber", "#FFC145", "#C98F1B"},
	{"lime", "#A8D84B", "#73A226"},
	{"emerald", "#4BCB8F", "#2A9364"},
	{"teal", "#3DBFC2", "#238A8D"},
	{"sky", "#55AEE8", "#2D7CB3"},
	{"indigo", "#7B7FE0", "#4F53AC"},
	{"violet", "#A96FE3", "#7A42AF"},
	{"magenta", "#E06BC2", "#AC3E8E"},
	{"rose", "#F2668B", "#BC3A5E"},
	{"sienna", "#D98E5A", "#A1602E"},
	{"slate", "#8E9BAB", "#5E6B7A"},
}

var patterns = []string{"solid", "stripes", "dots", "waves"}

// CombinationCount is the size of the full (color, pattern) space
var CombinationCount = len(palette) * len(patterns)

type pairKey struct {
	index   int
	pattern string
}

// Assign picks a (color, pattern) pair not present in existing, uniformly at
// random. When every combination is taken it degrades to a uniform draw over
// the whole space rather than failing. The placeholder pair is excluded from
// both pools. A nil rnd uses the process-wide locked source; tests pass a
// seeded *rand.Rand for determinism.
func Assign(existing []models.ThemeColor, assignedAt time.Time, rnd *rand.Rand) models.ThemeColor {
	intn := rand.Intn
	if rnd != nil {
		intn = rnd.Intn
	}

	used := make(map[pairKey]bool, len(existing))
	for _, t := range existing {
		if t.ColorIndex == PlaceholderIndex {
			continue
		}
		used[pairKey{t.ColorIndex, t.Pattern}] = true
	}

	free := make([]pairKey, 0, CombinationCount)
	for i := range palette {
		for _, p := range patterns {
			k := pairKey{i, p}
			if !used[k] {
				free = append(free, k)
			}
		}
	}

	var pick pairKey
	if len(free) > 0 {
		pick = free[intn(len(free))]
	} else {
		// Every combination is in use; reuse is allowed at this point
		pick = pairKey{intn(len(palette)), patterns[intn(len(patterns))]}
	}

	entry := palette[pick.index]
	return models.ThemeColor{
		Light:      entry.Light,
		Dark:       entry.Dark,
		Name:       entry.Name,
		Pattern:    pick.pattern,
		ColorIndex: pick.index,
		AssignedAt: assignedAt,
	}
}

// Departed returns the neutral placeholder theme shown for members who have
// left the group. Live allocation never produces this pair.
func Departed(assignedAt time.Time) models.ThemeColor {
	return models.ThemeColor{
		Light:      "#C4C4C4",
		Dark:       "#8A8A8A",
		Name:       "gray",
		Pattern:    "solid",
		ColorIndex: PlaceholderIndex,
		AssignedAt: assignedAt,
	}
}
