package domain

import (
	"errors"
	"fmt"
	"sort"
)

// Catalog holds the immutable species and enclosure reference tables.
type Catalog struct {
	species    map[string]Species
	enclosures []Enclosure
}

// NewCatalog copies the supplied tables into a catalog and validates them.
// Enclosures are kept in ascending id order.
func NewCatalog(species []Species, enclosures []Enclosure) (*Catalog, error) {
	c := &Catalog{
		species:    make(map[string]Species, len(species)),
		enclosures: make([]Enclosure, 0, len(enclosures)),
	}
	for _, s := range species {
		if _, dup := c.species[s.Name]; dup {
			return nil, fmt.Errorf("duplicate species %q", s.Name)
		}
		s.Biomes = s.Biomes.Clone()
		c.species[s.Name] = s
	}
	for _, e := range enclosures {
		if e.Biomes == nil {
			e.Biomes = ParseBiomeLabel(e.BiomeLabel)
		}
		c.enclosures = append(c.enclosures, e.Clone())
	}
	sort.Slice(c.enclosures, func(i, j int) bool { return c.enclosures[i].ID < c.enclosures[j].ID })
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the reference table invariants.
func (c *Catalog) Validate() error {
	var errs []error
	for name, s := range c.species {
		if name == "" {
			errs = append(errs, errors.New("species with empty name"))
		}
		if s.UnitSize <= 0 {
			errs = append(errs, fmt.Errorf("species %s: unit size must be positive, got %d", name, s.UnitSize))
		}
		if len(s.Biomes) == 0 {
			errs = append(errs, fmt.Errorf("species %s: no compatible biomes", name))
		}
	}
	seen := make(map[int]struct{}, len(c.enclosures))
	for _, e := range c.enclosures {
		if _, dup := seen[e.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate enclosure id %d", e.ID))
		}
		seen[e.ID] = struct{}{}
		if e.TotalCapacity <= 0 {
			errs = append(errs, fmt.Errorf("enclosure %d: capacity must be positive, got %d", e.ID, e.TotalCapacity))
		}
		if len(e.Biomes) == 0 {
			errs = append(errs, fmt.Errorf("enclosure %d: no biome", e.ID))
		}
		for _, name := range e.OccupantSpecies() {
			if _, ok := c.species[name]; !ok {
				errs = append(errs, fmt.Errorf("enclosure %d: unknown occupant species %s", e.ID, name))
			}
			if e.Occupants[name] < 0 {
				errs = append(errs, fmt.Errorf("enclosure %d: negative count for %s", e.ID, name))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid catalog: %w", errors.Join(errs...))
	}
	return nil
}

// FindSpecies looks up a species by its case-sensitive name.
func (c *Catalog) FindSpecies(name string) (Species, bool) {
	s, ok := c.species[name]
	if !ok {
		return Species{}, false
	}
	s.Biomes = s.Biomes.Clone()
	return s, true
}

// ListSpecies returns all species ordered by name.
func (c *Catalog) ListSpecies() []Species {
	out := make([]Species, 0, len(c.species))
	for _, s := range c.species {
		s.Biomes = s.Biomes.Clone()
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ListEnclosures returns copies of all enclosures ordered by id.
func (c *Catalog) ListEnclosures() []Enclosure {
	out := make([]Enclosure, len(c.enclosures))
	for i, e := range c.enclosures {
		out[i] = e.Clone()
	}
	return out
}

// FindEnclosure looks up an enclosure by id.
func (c *Catalog) FindEnclosure(id int) (Enclosure, bool) {
	for _, e := range c.enclosures {
		if e.ID == id {
			return e.Clone(), true
		}
	}
	return Enclosure{}, false
}
