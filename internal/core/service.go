package core

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"zoohousing/pkg/domain"
)

// Operation names reported to the metrics recorder.
const (
	OperationFindViable = "find_viable_enclosures"
	OperationAssess     = "assess_enclosures"
)

const outcomeViable = "viable"

// Service answers placement requests against an immutable catalog.
// It is safe for concurrent use.
type Service struct {
	catalog *Catalog
	engine  *RulesEngine
	logger  *zap.Logger
	metrics MetricsRecorder
	clock   Clock
	cache   *cache.Cache

	// maxQuantity bounds cached quantities; larger requests never fit anywhere.
	maxQuantity int
}

// NewService constructs a service over the supplied catalog.
func NewService(catalog *Catalog, opts ...ServiceOption) (*Service, error) {
	if catalog == nil {
		return nil, errors.New("catalog cannot be nil")
	}
	s := &Service{
		catalog: catalog,
		engine:  NewDefaultRulesEngine(),
		logger:  zap.NewNop(),
		metrics: noopMetrics{},
		clock:   systemClock{},
	}
	for _, e := range catalog.ListEnclosures() {
		if e.TotalCapacity > s.maxQuantity {
			s.maxQuantity = e.TotalCapacity
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Catalog returns the reference tables the service evaluates against.
func (s *Service) Catalog() *Catalog {
	return s.catalog
}

type cachedResult struct {
	placements []Placement
	err        error
}

// FindViableEnclosures lists the enclosures able to take quantity individuals of
// species, ordered by enclosure id.
func (s *Service) FindViableEnclosures(ctx context.Context, species string, quantity int) ([]Placement, error) {
	started := s.clock.Now()
	key := species + "\x00" + strconv.Itoa(quantity)
	cacheable := s.cacheable(species, quantity)
	if cacheable {
		if hit, ok := s.cache.Get(key); ok {
			res := hit.(cachedResult)
			s.observe(ctx, OperationFindViable, species, res.err, started)
			return clonePlacements(res.placements), res.err
		}
	}

	placements, err := s.findViable(species, quantity)
	if cacheable {
		s.cache.SetDefault(key, cachedResult{placements: clonePlacements(placements), err: err})
	}
	s.observe(ctx, OperationFindViable, species, err, started)
	if err != nil {
		s.logger.Info("placement request rejected",
			zap.String("species", species),
			zap.Int("quantity", quantity),
			zap.Error(err))
		return nil, err
	}
	s.logger.Info("placement request evaluated",
		zap.String("species", species),
		zap.Int("quantity", quantity),
		zap.Int("viable", len(placements)))
	return placements, nil
}

// cacheable keeps the cache bounded by species count times the largest
// enclosure capacity. Requests outside that range are cheap rejections.
func (s *Service) cacheable(species string, quantity int) bool {
	if s.cache == nil || quantity <= 0 || quantity > s.maxQuantity {
		return false
	}
	_, ok := s.catalog.FindSpecies(species)
	return ok
}

func (s *Service) findViable(species string, quantity int) ([]Placement, error) {
	candidate, err := s.validate(species, quantity)
	if err != nil {
		return nil, err
	}
	var placements []Placement
	for _, enclosure := range s.catalog.ListEnclosures() {
		candidate.Enclosure = enclosure
		verdict := s.engine.Evaluate(s.catalog, candidate)
		if !verdict.Viable {
			s.logger.Debug("enclosure rejected",
				zap.Int("enclosure", enclosure.ID),
				zap.String("rule", verdict.Violation.Rule),
				zap.String("reason", verdict.Violation.Message))
			continue
		}
		placements = append(placements, Placement{
			EnclosureID:   enclosure.ID,
			FreeSpace:     FreeSpaceAfter(s.catalog, enclosure, candidate.Species, quantity),
			TotalCapacity: enclosure.TotalCapacity,
		})
	}
	if len(placements) == 0 {
		return nil, domain.EvaluationError{Kind: domain.KindNoViableEnclosure, Species: species, Quantity: strconv.Itoa(quantity)}
	}
	sort.Slice(placements, func(i, j int) bool { return placements[i].EnclosureID < placements[j].EnclosureID })
	return placements, nil
}

// AssessEnclosures evaluates every enclosure and explains each verdict.
// Unlike FindViableEnclosures it succeeds even when nothing is viable.
func (s *Service) AssessEnclosures(ctx context.Context, species string, quantity int) ([]Assessment, error) {
	started := s.clock.Now()
	candidate, err := s.validate(species, quantity)
	if err != nil {
		s.observe(ctx, OperationAssess, species, err, started)
		return nil, err
	}
	enclosures := s.catalog.ListEnclosures()
	out := make([]Assessment, 0, len(enclosures))
	for _, enclosure := range enclosures {
		candidate.Enclosure = enclosure
		verdict := s.engine.Evaluate(s.catalog, candidate)
		out = append(out, Assessment{
			EnclosureID:   enclosure.ID,
			Biome:         enclosure.BiomeLabel,
			TotalCapacity: enclosure.TotalCapacity,
			OccupiedSpace: OccupiedSpace(s.catalog, enclosure),
			FreeSpace:     FreeSpaceAfter(s.catalog, enclosure, candidate.Species, quantity),
			Viable:        verdict.Viable,
			Violation:     verdict.Violation,
		})
	}
	s.observe(ctx, OperationAssess, species, nil, started)
	return out, nil
}

// ParseRequest validates raw user input, checking the species before the quantity.
func (s *Service) ParseRequest(species, rawQuantity string) (int, error) {
	if _, ok := s.catalog.FindSpecies(species); !ok {
		return 0, domain.EvaluationError{Kind: domain.KindInvalidSpecies, Species: species, Quantity: rawQuantity}
	}
	quantity, err := domain.ParseQuantity(rawQuantity)
	if err != nil {
		var evalErr domain.EvaluationError
		if errors.As(err, &evalErr) {
			evalErr.Species = species
			return 0, evalErr
		}
		return 0, err
	}
	return quantity, nil
}

func (s *Service) validate(species string, quantity int) (Candidate, error) {
	sp, ok := s.catalog.FindSpecies(species)
	if !ok {
		return Candidate{}, domain.EvaluationError{Kind: domain.KindInvalidSpecies, Species: species, Quantity: strconv.Itoa(quantity)}
	}
	if quantity <= 0 {
		return Candidate{}, domain.EvaluationError{Kind: domain.KindInvalidQuantity, Species: species, Quantity: strconv.Itoa(quantity)}
	}
	return Candidate{Species: sp, Quantity: quantity}, nil
}

func (s *Service) observe(ctx context.Context, operation, species string, err error, started time.Time) {
	outcome := outcomeViable
	if err != nil {
		var evalErr domain.EvaluationError
		if errors.As(err, &evalErr) {
			outcome = string(evalErr.Kind)
		} else {
			outcome = "error"
		}
	}
	// Unknown species are folded into one label to bound metric cardinality.
	if _, ok := s.catalog.FindSpecies(species); !ok {
		species = "unknown"
	}
	s.metrics.Observe(ctx, operation, species, outcome, s.clock.Now().Sub(started))
}

func clonePlacements(in []Placement) []Placement {
	if in == nil {
		return nil
	}
	out := make([]Placement, len(in))
	copy(out, in)
	return out
}

// FormatPlacements renders placements with the zoo's display template.
func FormatPlacements(placements []Placement) []string {
	out := make([]string, len(placements))
	for i, p := range placements {
		out[i] = p.String()
	}
	return out
}
