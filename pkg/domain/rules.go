package domain

// RuleView provides read-only access to the reference tables for rule evaluation.
type RuleView interface {
	FindSpecies(name string) (Species, bool)
	ListSpecies() []Species
	ListEnclosures() []Enclosure
}

// Candidate is the hypothetical addition of Quantity individuals of Species to Enclosure.
type Candidate struct {
	Enclosure Enclosure
	Species   Species
	Quantity  int
}

// Violation reports a failed feasibility check.
type Violation struct {
	Rule        string `json:"rule"`
	EnclosureID int    `json:"enclosure_id"`
	Message     string `json:"message"`
}

// Rule is a single feasibility check. Evaluate returns nil when the candidate passes.
type Rule interface {
	Name() string
	Evaluate(view RuleView, candidate Candidate) *Violation
}

// Verdict is the outcome of running the rules engine on one candidate.
type Verdict struct {
	Viable    bool
	Violation *Violation
}

// RulesEngine runs rules in registration order, stopping at the first violation.
type RulesEngine struct {
	rules []Rule
}

// NewRulesEngine constructs an engine instance.
func NewRulesEngine() *RulesEngine {
	return &RulesEngine{}
}

// Register appends a rule to the engine.
func (e *RulesEngine) Register(rule Rule) {
	e.rules = append(e.rules, rule)
}

// Rules returns the registered rules in evaluation order.
func (e *RulesEngine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Evaluate checks the candidate against every rule until one fails.
func (e *RulesEngine) Evaluate(view RuleView, candidate Candidate) Verdict {
	for _, rule := range e.rules {
		if v := rule.Evaluate(view, candidate); v != nil {
			if v.Rule == "" {
				v.Rule = rule.Name()
			}
			return Verdict{Viable: false, Violation: v}
		}
	}
	return Verdict{Viable: true}
}
