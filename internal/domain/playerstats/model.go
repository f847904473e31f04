package playerstats

import (
	"fmt"
	"time"
)

const (
	MinValue = 1
	MaxValue = 10

	// DefaultValue seeds stat rows created by sync.
	DefaultValue = 5
)

// Stats holds the 1..10 skill ratings for one player. Nil means not rated.
type Stats struct {
	PlayerID  int64
	Passing   *int
	Dribbling *int
	Speed     *int
	Strength  *int
	Vision    *int
	Defending *int
	Shooting  *int
	Potential *int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type field struct {
	name string
	ptr  func(*Stats) **int
}

var fields = []field{
	{"passing", func(s *Stats) **int { return &s.Passing }},
	{"dribbling", func(s *Stats) **int { return &s.Dribbling }},
	{"speed", func(s *Stats) **int { return &s.Speed }},
	{"strength", func(s *Stats) **int { return &s.Strength }},
	{"vision", func(s *Stats) **int { return &s.Vision }},
	{"defending", func(s *Stats) **int { return &s.Defending }},
	{"shooting", func(s *Stats) **int { return &s.Shooting }},
	{"potential", func(s *Stats) **int { return &s.Potential }},
}

// FieldNames lists the rating names in storage order.
func FieldNames() []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.name)
	}
	return out
}

// Validate rejects any set rating outside MinValue..MaxValue.
func (s Stats) Validate() error {
	for _, f := range fields {
		v := *f.ptr(&s)
		if v != nil && (*v < MinValue || *v > MaxValue) {
			return fmt.Errorf("%s must be between %d and %d", f.name, MinValue, MaxValue)
		}
	}
	return nil
}

// Clamp forces every set rating into MinValue..MaxValue.
func (s Stats) Clamp() Stats {
	for _, f := range fields {
		p := f.ptr(&s)
		if *p != nil {
			v := ClampValue(**p)
			*p = &v
		}
	}
	return s
}

// Merge overlays the set ratings of patch onto s.
func (s Stats) Merge(patch Stats) Stats {
	for _, f := range fields {
		if v := *f.ptr(&patch); v != nil {
			n := *v
			*f.ptr(&s) = &n
		}
	}
	return s
}

func (s Stats) IsEmpty() bool {
	for _, f := range fields {
		if *f.ptr(&s) != nil {
			return false
		}
	}
	return true
}

// Values returns the ratings keyed by name; unset ratings map to nil.
func (s Stats) Values() map[string]*int {
	out := make(map[string]*int, len(fields))
	for _, f := range fields {
		out[f.name] = *f.ptr(&s)
	}
	return out
}

// Set assigns one rating by name and reports whether the name is known.
func (s *Stats) Set(name string, value int) bool {
	for _, f := range fields {
		if f.name == name {
			v := value
			*f.ptr(s) = &v
			return true
		}
	}
	return false
}

// Defaults returns a fully rated row with every value set to v, clamped.
func Defaults(playerID int64, v int) Stats {
	s := Stats{PlayerID: playerID}
	for _, f := range fields {
		n := ClampValue(v)
		*f.ptr(&s) = &n
	}
	return s
}

func ClampValue(v int) int {
	return min(max(v, MinValue), MaxValue)
}
