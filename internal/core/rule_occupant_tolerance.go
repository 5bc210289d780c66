package core

import "fmt"

// NewOccupantToleranceRule rejects additions next to a resident carnivore of another species.
func NewOccupantToleranceRule() Rule {
	return occupantToleranceRule{}
}

type occupantToleranceRule struct{}

func (occupantToleranceRule) Name() string { return "occupant_tolerance" }

func (occupantToleranceRule) Evaluate(view RuleView, c Candidate) *Violation {
	for _, name := range c.Enclosure.OccupantSpecies() {
		resident, ok := view.FindSpecies(name)
		if !ok || !resident.Carnivore || name == c.Species.Name {
			continue
		}
		return &Violation{
			Rule:        "occupant_tolerance",
			EnclosureID: c.Enclosure.ID,
			Message:     fmt.Sprintf("resident carnivore %s does not tolerate %s", name, c.Species.Name),
		}
	}
	return nil
}
