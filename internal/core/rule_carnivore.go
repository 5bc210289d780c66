package core

import "fmt"

// NewCarnivoreSegregationRule requires carnivores to move into empty enclosures.
// Any occupant rejects, including members of the same species.
func NewCarnivoreSegregationRule() Rule {
	return carnivoreSegregationRule{}
}

type carnivoreSegregationRule struct{}

func (carnivoreSegregationRule) Name() string { return "carnivore_segregation" }

func (carnivoreSegregationRule) Evaluate(_ RuleView, c Candidate) *Violation {
	if !c.Species.Carnivore || c.Enclosure.IsEmpty() {
		return nil
	}
	return &Violation{
		Rule:        "carnivore_segregation",
		EnclosureID: c.Enclosure.ID,
		Message:     fmt.Sprintf("carnivore %s requires an empty enclosure", c.Species.Name),
	}
}
