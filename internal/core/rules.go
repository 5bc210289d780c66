package core

import "zoohousing/pkg/domain"

// NewRulesEngine constructs an empty engine.
func NewRulesEngine() *RulesEngine {
	return domain.NewRulesEngine()
}

// NewDefaultRulesEngine builds an engine with the zoo's feasibility checks in evaluation order.
func NewDefaultRulesEngine() *RulesEngine {
	engine := NewRulesEngine()
	for _, rule := range defaultRules() {
		engine.Register(rule)
	}
	return engine
}

func defaultRules() []Rule {
	return []Rule{
		NewSpaceRule(),
		NewBiomeRule(),
		NewCarnivoreSegregationRule(),
		NewHippopotamusRule(),
		NewLonePrimateRule(),
		NewOccupantToleranceRule(),
	}
}

var defaultEngine = NewDefaultRulesEngine()

// IsViable reports whether quantity individuals of species fit in the enclosure
// under the default rules. It never mutates the enclosure.
func IsViable(view RuleView, enclosure Enclosure, species Species, quantity int) bool {
	return defaultEngine.Evaluate(view, Candidate{Enclosure: enclosure, Species: species, Quantity: quantity}).Viable
}
