// Package codec reads and writes the YAML catalog document format.
package codec

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"zoohousing/pkg/domain"
)

// Document is the serialized form of a catalog shared by the file and S3 sources.
type Document struct {
	Species    []SpeciesDoc   `yaml:"species"`
	Enclosures []EnclosureDoc `yaml:"enclosures"`
}

// SpeciesDoc describes one species entry.
type SpeciesDoc struct {
	Name      string   `yaml:"name"`
	UnitSize  int      `yaml:"unit_size"`
	Biomes    []string `yaml:"biomes"`
	Carnivore bool     `yaml:"carnivore"`
}

// EnclosureDoc describes one enclosure entry. Biome keeps the composite label.
type EnclosureDoc struct {
	ID            int            `yaml:"id"`
	Biome         string         `yaml:"biome"`
	TotalCapacity int            `yaml:"total_capacity"`
	Occupants     map[string]int `yaml:"occupants,omitempty"`
}

// Decode reads a YAML document and builds a validated catalog.
func Decode(r io.Reader) (*domain.Catalog, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return doc.Catalog()
}

// Encode writes the catalog as a YAML document.
func Encode(w io.Writer, c *domain.Catalog) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(FromCatalog(c)); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return enc.Close()
}

// Catalog converts the document into domain entities.
func (d Document) Catalog() (*domain.Catalog, error) {
	species := make([]domain.Species, 0, len(d.Species))
	for _, s := range d.Species {
		biomes := make([]domain.Biome, 0, len(s.Biomes))
		for _, b := range s.Biomes {
			biomes = append(biomes, domain.Biome(b))
		}
		species = append(species, domain.Species{
			Name:      s.Name,
			UnitSize:  s.UnitSize,
			Biomes:    domain.NewBiomeSet(biomes...),
			Carnivore: s.Carnivore,
		})
	}
	enclosures := make([]domain.Enclosure, 0, len(d.Enclosures))
	for _, e := range d.Enclosures {
		enclosures = append(enclosures, domain.NewEnclosure(e.ID, e.Biome, e.TotalCapacity, e.Occupants))
	}
	return domain.NewCatalog(species, enclosures)
}

// FromCatalog converts a catalog into its document form.
func FromCatalog(c *domain.Catalog) Document {
	var doc Document
	for _, s := range c.ListSpecies() {
		biomes := make([]string, 0, len(s.Biomes))
		for _, b := range s.Biomes.Sorted() {
			biomes = append(biomes, string(b))
		}
		doc.Species = append(doc.Species, SpeciesDoc{
			Name:      s.Name,
			UnitSize:  s.UnitSize,
			Biomes:    biomes,
			Carnivore: s.Carnivore,
		})
	}
	for _, e := range c.ListEnclosures() {
		ed := EnclosureDoc{ID: e.ID, Biome: e.BiomeLabel, TotalCapacity: e.TotalCapacity}
		if len(e.Occupants) > 0 {
			ed.Occupants = e.Occupants
		}
		doc.Enclosures = append(doc.Enclosures, ed)
	}
	return doc
}
