package match

import (
	"cmp"
	"slices"
)

// FullMatchMinutes is the exit minute for a player who was never taken off.
const FullMatchMinutes = 90

// MinutesPlayed derives time on the pitch from one player's events in one
// match. The second return value is false when there is no event data.
func MinutesPlayed(starter bool, events []Event) (int, bool) {
	if len(events) == 0 {
		return 0, false
	}

	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b Event) int {
		return cmp.Compare(a.Minute, b.Minute)
	})

	entry := 0
	if !starter {
		entry = sorted[0].Minute
	}

	exit := FullMatchMinutes
	for _, e := range sorted {
		if e.Type.endsAppearance() {
			exit = e.Minute
			break
		}
	}

	return max(0, exit-entry), true
}
