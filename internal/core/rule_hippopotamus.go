package core

import (
	"fmt"

	"zoohousing/pkg/domain"
)

// NewHippopotamusRule restricts the hippopotamus to the savanna and river enclosure.
func NewHippopotamusRule() Rule {
	return NewDualBiomeRule("hippopotamus_biome", domain.SpeciesHippopotamus, domain.NewBiomeSet(domain.BiomeSavanna, domain.BiomeRiver))
}

// NewDualBiomeRule only admits species into enclosures whose biomes equal required.
// Violations are reported under name.
func NewDualBiomeRule(name, species string, required domain.BiomeSet) Rule {
	return dualBiomeRule{name: name, species: species, required: required.Clone()}
}

type dualBiomeRule struct {
	name     string
	species  string
	required domain.BiomeSet
}

func (r dualBiomeRule) Name() string { return r.name }

func (r dualBiomeRule) Evaluate(_ RuleView, c Candidate) *Violation {
	if c.Species.Name != r.species || r.required.Equal(c.Enclosure.Biomes) {
		return nil
	}
	return &Violation{
		Rule:        r.name,
		EnclosureID: c.Enclosure.ID,
		Message:     fmt.Sprintf("%s only cohabits in %s", r.species, r.required.Label()),
	}
}

// HippopotamusBiomeOK reports whether a hippopotamus may be housed in the enclosure.
func HippopotamusBiomeOK(enclosure Enclosure) bool {
	return domain.NewBiomeSet(domain.BiomeSavanna, domain.BiomeRiver).Equal(enclosure.Biomes)
}
