package core

import "zoohousing/pkg/domain"

type (
	Species     = domain.Species
	Enclosure   = domain.Enclosure
	Catalog     = domain.Catalog
	Placement   = domain.Placement
	Assessment  = domain.Assessment
	Candidate   = domain.Candidate
	Violation   = domain.Violation
	Verdict     = domain.Verdict
	Rule        = domain.Rule
	RuleView    = domain.RuleView
	RulesEngine = domain.RulesEngine
)
