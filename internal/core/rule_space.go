package core

import "fmt"

// NewSpaceRule rejects candidates whose individuals do not fit in the space left
// by the current occupants. The new-species overhead is not part of this check.
func NewSpaceRule() Rule {
	return spaceRule{}
}

type spaceRule struct{}

func (spaceRule) Name() string { return "space" }

func (spaceRule) Evaluate(view RuleView, c Candidate) *Violation {
	required := c.Species.RequiredSpace(c.Quantity)
	available := c.Enclosure.TotalCapacity - OccupiedSpace(view, c.Enclosure)
	if required <= available {
		return nil
	}
	return &Violation{
		Rule:        "space",
		EnclosureID: c.Enclosure.ID,
		Message:     fmt.Sprintf("needs %d units, %d available", required, available),
	}
}
