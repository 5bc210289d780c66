package core

import (
	"fmt"

	"zoohousing/pkg/domain"
)

// NewLonePrimateRule refuses to place a single monkey into an empty enclosure.
func NewLonePrimateRule() Rule {
	return NewNoIsolationRule("lone_primate", domain.SpeciesMonkey)
}

// NewNoIsolationRule refuses a lone individual of species in an empty enclosure.
func NewNoIsolationRule(name, species string) Rule {
	return noIsolationRule{name: name, species: species}
}

type noIsolationRule struct {
	name    string
	species string
}

func (r noIsolationRule) Name() string { return r.name }

func (r noIsolationRule) Evaluate(_ RuleView, c Candidate) *Violation {
	if c.Species.Name != r.species || c.Quantity != 1 || !c.Enclosure.IsEmpty() {
		return nil
	}
	return &Violation{
		Rule:        r.name,
		EnclosureID: c.Enclosure.ID,
		Message:     fmt.Sprintf("a single %s cannot stay alone", r.species),
	}
}
