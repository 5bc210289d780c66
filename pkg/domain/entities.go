// Package domain defines the zoo reference entities, value types, and
// rule evaluation primitives used by zoohousing.
package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Biome identifies a habitat type offered by an enclosure or tolerated by a species.
type Biome string

// Biomes present in the reference catalog.
const (
	BiomeSavanna Biome = "savana"
	BiomeRiver   Biome = "rio"
	BiomeForest  Biome = "floresta"
)

// compositeSeparator joins biome names inside a composite enclosure label.
const compositeSeparator = " e "

// Reference species names with dedicated social rules.
const (
	SpeciesHippopotamus = "HIPOPOTAMO"
	SpeciesMonkey       = "MACACO"
)

// BiomeSet is an unordered set of biomes.
type BiomeSet map[Biome]struct{}

// NewBiomeSet builds a set from the supplied biomes, ignoring blanks.
func NewBiomeSet(biomes ...Biome) BiomeSet {
	set := make(BiomeSet, len(biomes))
	for _, b := range biomes {
		b = Biome(strings.TrimSpace(string(b)))
		if b == "" {
			continue
		}
		set[b] = struct{}{}
	}
	return set
}

// ParseBiomeLabel splits a descriptor such as "savana e rio" into its biomes.
func ParseBiomeLabel(label string) BiomeSet {
	parts := strings.Split(strings.TrimSpace(label), compositeSeparator)
	biomes := make([]Biome, 0, len(parts))
	for _, p := range parts {
		biomes = append(biomes, Biome(p))
	}
	return NewBiomeSet(biomes...)
}

// Contains reports whether b is a member of the set.
func (s BiomeSet) Contains(b Biome) bool {
	_, ok := s[b]
	return ok
}

// Intersects reports whether the sets share at least one biome.
func (s BiomeSet) Intersects(other BiomeSet) bool {
	for b := range s {
		if other.Contains(b) {
			return true
		}
	}
	return false
}

// Equal reports whether both sets hold exactly the same biomes.
func (s BiomeSet) Equal(other BiomeSet) bool {
	if len(s) != len(other) {
		return false
	}
	for b := range s {
		if !other.Contains(b) {
			return false
		}
	}
	return true
}

// Sorted returns the biomes in lexical order.
func (s BiomeSet) Sorted() []Biome {
	out := make([]Biome, 0, len(s))
	for b := range s {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Label renders the set the way composite enclosure descriptors are written.
func (s BiomeSet) Label() string {
	names := make([]string, 0, len(s))
	for _, b := range s.Sorted() {
		names = append(names, string(b))
	}
	return strings.Join(names, compositeSeparator)
}

// Clone returns an independent copy of the set.
func (s BiomeSet) Clone() BiomeSet {
	out := make(BiomeSet, len(s))
	for b := range s {
		out[b] = struct{}{}
	}
	return out
}

// Species describes the static housing requirements of an animal species.
type Species struct {
	Name      string   `json:"name"`
	UnitSize  int      `json:"unit_size"`
	Biomes    BiomeSet `json:"-"`
	Carnivore bool     `json:"carnivore"`
}

// RequiredSpace returns the space taken by quantity individuals.
func (s Species) RequiredSpace(quantity int) int {
	return s.UnitSize * quantity
}

// Enclosure captures a zoo enclosure and its current occupants.
type Enclosure struct {
	ID            int            `json:"id"`
	BiomeLabel    string         `json:"biome"`
	Biomes        BiomeSet       `json:"-"`
	TotalCapacity int            `json:"total_capacity"`
	Occupants     map[string]int `json:"occupants"`
}

// NewEnclosure builds an enclosure, parsing its biome label once.
func NewEnclosure(id int, biomeLabel string, capacity int, occupants map[string]int) Enclosure {
	return Enclosure{
		ID:            id,
		BiomeLabel:    biomeLabel,
		Biomes:        ParseBiomeLabel(biomeLabel),
		TotalCapacity: capacity,
		Occupants:     cloneOccupants(occupants),
	}
}

// IsEmpty reports whether no species currently lives in the enclosure.
func (e Enclosure) IsEmpty() bool {
	return len(e.Occupants) == 0
}

// Houses reports whether at least one individual of species lives in the enclosure.
// A zero count does not count as housed.
func (e Enclosure) Houses(species string) bool {
	return e.Occupants[species] > 0
}

// OccupantSpecies returns occupant species names in lexical order.
func (e Enclosure) OccupantSpecies() []string {
	names := make([]string, 0, len(e.Occupants))
	for name := range e.Occupants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy of the enclosure.
func (e Enclosure) Clone() Enclosure {
	e.Biomes = e.Biomes.Clone()
	e.Occupants = cloneOccupants(e.Occupants)
	return e
}

func cloneOccupants(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Placement describes a viable enclosure for a request.
type Placement struct {
	EnclosureID   int `json:"enclosure_id"`
	FreeSpace     int `json:"free_space"`
	TotalCapacity int `json:"total_capacity"`
}

// String renders the placement using the zoo's display template.
func (p Placement) String() string {
	return fmt.Sprintf("Recinto %d (espaço livre: %d total: %d)", p.EnclosureID, p.FreeSpace, p.TotalCapacity)
}

// Assessment reports the outcome of evaluating one enclosure for a request.
type Assessment struct {
	EnclosureID   int        `json:"enclosure_id"`
	Biome         string     `json:"biome"`
	TotalCapacity int        `json:"total_capacity"`
	OccupiedSpace int        `json:"occupied_space"`
	FreeSpace     int        `json:"free_space"`
	Viable        bool       `json:"viable"`
	Violation     *Violation `json:"violation,omitempty"`
}
