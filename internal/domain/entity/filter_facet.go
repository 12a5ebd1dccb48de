package entity

import "time"

// FacetKind is a categorical filter dimension of the catalog.
type FacetKind string

const (
	FacetKindPlatform  FacetKind = "platform"
	FacetKindGenre     FacetKind = "genre"
	FacetKindMode      FacetKind = "mode"
	FacetKindDeveloper FacetKind = "developer"
)

// FacetKinds lists every kind in seeding order.
var FacetKinds = []FacetKind{
	FacetKindPlatform,
	FacetKindGenre,
	FacetKindMode,
	FacetKindDeveloper,
}

// Valid reports whether k is one of the known facet kinds.
func (k FacetKind) Valid() bool {
	switch k {
	case FacetKindPlatform, FacetKindGenre, FacetKindMode, FacetKindDeveloper:
		return true
	}

	return false
}

// FilterFacet is one selectable value of a facet, unique per (UpstreamID, Kind).
type FilterFacet struct {
	ID          int64     `json:"-"`
	UpstreamID  int64     `json:"upstream_id"`
	Kind        FacetKind `json:"kind"`
	Name        string    `json:"name"`
	RefreshedAt time.Time `json:"refreshed_at"`
}

// FacetSet groups facet display names by kind.
type FacetSet struct {
	Platforms  []string `json:"platforms"`
	Genres     []string `json:"genres"`
	Modes      []string `json:"modes"`
	Developers []string `json:"developers"`
}

// NewFacetSet returns a FacetSet whose lists are empty rather than nil.
func NewFacetSet() *FacetSet {
	return &FacetSet{
		Platforms:  []string{},
		Genres:     []string{},
		Modes:      []string{},
		Developers: []string{},
	}
}

// Add appends name to the list matching kind. Unknown kinds are ignored.
func (s *FacetSet) Add(kind FacetKind, name string) {
	switch kind {
	case FacetKindPlatform:
		s.Platforms = append(s.Platforms, name)
	case FacetKindGenre:
		s.Genres = append(s.Genres, name)
	case FacetKindMode:
		s.Modes = append(s.Modes, name)
	case FacetKindDeveloper:
		s.Developers = append(s.Developers, name)
	}
}

// Len is the total number of names across all kinds.
func (s *FacetSet) Len() int {
	return len(s.Platforms) + len(s.Genres) + len(s.Modes) + len(s.Developers)
}
