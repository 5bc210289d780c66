package core

import "zoohousing/pkg/domain"

// cohabitationOverhead is charged once when more than one species shares an enclosure.
const cohabitationOverhead = 1

// OccupiedSpace returns the space used by the current occupants, including the
// cohabitation overhead when more than one distinct species is present.
// Occupants missing from the view contribute nothing.
func OccupiedSpace(view domain.RuleView, enclosure domain.Enclosure) int {
	occupied := 0
	for name, count := range enclosure.Occupants {
		species, ok := view.FindSpecies(name)
		if !ok {
			continue
		}
		occupied += species.RequiredSpace(count)
	}
	if len(enclosure.Occupants) > 1 {
		occupied += cohabitationOverhead
	}
	return occupied
}

// ExtraSpaceForAddition returns the overhead of introducing species to an
// already occupied enclosure that does not house it yet.
func ExtraSpaceForAddition(enclosure domain.Enclosure, species string) int {
	if !enclosure.IsEmpty() && !enclosure.Houses(species) {
		return cohabitationOverhead
	}
	return 0
}

// FreeSpaceAfter projects the free space once quantity individuals are added.
// The result may be negative; feasibility is decided by the rules engine.
func FreeSpaceAfter(view domain.RuleView, enclosure domain.Enclosure, species domain.Species, quantity int) int {
	return enclosure.TotalCapacity -
		OccupiedSpace(view, enclosure) -
		species.RequiredSpace(quantity) -
		ExtraSpaceForAddition(enclosure, species.Name)
}
