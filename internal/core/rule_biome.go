package core

import "fmt"

// NewBiomeRule rejects enclosures offering none of the species' biomes.
func NewBiomeRule() Rule {
	return biomeRule{}
}

type biomeRule struct{}

func (biomeRule) Name() string { return "biome" }

func (biomeRule) Evaluate(_ RuleView, c Candidate) *Violation {
	if c.Species.Biomes.Intersects(c.Enclosure.Biomes) {
		return nil
	}
	return &Violation{
		Rule:        "biome",
		EnclosureID: c.Enclosure.ID,
		Message:     fmt.Sprintf("%s does not live in %s", c.Species.Name, c.Enclosure.BiomeLabel),
	}
}
