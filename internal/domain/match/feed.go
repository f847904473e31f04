package match

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

const (
	// UnknownDay groups matches without a usable kickoff; it always sorts last.
	UnknownDay      = "-"
	DefaultPageSize = 5
	MaxPageSize     = 100
)

// PageSizeOptions are the sizes offered to clients.
var PageSizeOptions = []int{5, 10, 20}

type DayGroup struct {
	Day     string
	Matches []Match
}

type DayFeed struct {
	Page         int
	Size         int
	TotalMatches int
	TotalPages   int
	Days         []DayGroup
}

// HasVideo reports whether a match carries a playable source. Embedded HLS
// urls are folded into VideoURL during normalization.
func HasVideo(m Match) bool {
	return strings.TrimSpace(m.PxltGameID) != "" || strings.TrimSpace(m.VideoURL) != ""
}

// DayKey returns the UTC calendar day of the kickoff, or UnknownDay.
func DayKey(m Match) string {
	if m.MatchDate == nil || m.MatchDate.IsZero() {
		return UnknownDay
	}
	return m.MatchDate.UTC().Format(time.DateOnly)
}

// NormalizePage clamps page to >= 1 and size to 1..MaxPageSize, defaulting size.
func NormalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	switch {
	case size == 0:
		size = DefaultPageSize
	case size < 1:
		size = 1
	case size > MaxPageSize:
		size = MaxPageSize
	}
	return page, size
}

// BuildDayFeed groups matches by kickoff day (newest day first, kickoff
// ascending within a day) and returns one page of the flattened order.
func BuildDayFeed(items []Match, page, size int, videoOnly bool) DayFeed {
	page, size = NormalizePage(page, size)

	eligible := make([]Match, 0, len(items))
	for _, m := range items {
		if videoOnly && !HasVideo(m) {
			continue
		}
		eligible = append(eligible, m)
	}

	slices.SortStableFunc(eligible, compareFeedOrder)

	total := len(eligible)
	feed := DayFeed{
		Page:         page,
		Size:         size,
		TotalMatches: total,
		TotalPages:   max(1, (total+size-1)/size),
		Days:         []DayGroup{},
	}

	start := (page - 1) * size
	if start >= total {
		return feed
	}
	end := min(start+size, total)

	for _, m := range eligible[start:end] {
		day := DayKey(m)
		if n := len(feed.Days); n > 0 && feed.Days[n-1].Day == day {
			feed.Days[n-1].Matches = append(feed.Days[n-1].Matches, m)
			continue
		}
		feed.Days = append(feed.Days, DayGroup{Day: day, Matches: []Match{m}})
	}

	return feed
}

func compareFeedOrder(a, b Match) int {
	dayA, dayB := DayKey(a), DayKey(b)
	if dayA != dayB {
		if dayA == UnknownDay {
			return 1
		}
		if dayB == UnknownDay {
			return -1
		}
		// Newest day first.
		return strings.Compare(dayB, dayA)
	}
	if dayA == UnknownDay {
		return 0
	}
	return cmp.Compare(a.MatchDate.UnixNano(), b.MatchDate.UnixNano())
}
