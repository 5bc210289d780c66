package core

import (
	"context"
	"errors"
	"reflect"
	"strconv"
	"sync"
	"testing"
	"time"

	"zoohousing/internal/catalog"
	"zoohousing/pkg/domain"
)

func newReferenceService(t *testing.T, opts ...ServiceOption) *Service {
	t.Helper()
	svc, err := NewService(catalog.Reference(), opts...)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestNewServiceRejectsNilCatalog(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatalf("expected error for nil catalog")
	}
}

func TestFindViableEnclosuresReferenceScenarios(t *testing.T) {
	cases := []struct {
		name     string
		species  string
		quantity int
		want     []string
	}{
		{"monkeys", "MACACO", 2, []string{
			"Recinto 1 (espaço livre: 5 total: 10)",
			"Recinto 2 (espaço livre: 3 total: 5)",
			"Recinto 3 (espaço livre: 2 total: 7)",
		}},
		{"crocodile", "CROCODILO", 1, []string{"Recinto 4 (espaço livre: 5 total: 8)"}},
		{"hippopotamus", "HIPOPOTAMO", 1, []string{"Recinto 3 (espaço livre: 0 total: 7)"}},
		{"overhead beyond capacity", "MACACO", 5, []string{
			"Recinto 1 (espaço livre: 2 total: 10)",
			"Recinto 2 (espaço livre: 0 total: 5)",
			"Recinto 3 (espaço livre: -1 total: 7)",
		}},
	}
	svc := newReferenceService(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			placements, err := svc.FindViableEnclosures(context.Background(), tc.species, tc.quantity)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := FormatPlacements(placements); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestFindViableEnclosuresErrors(t *testing.T) {
	cases := []struct {
		name     string
		species  string
		quantity int
		want     error
		message  string
	}{
		{"unknown species", "UNICORNIO", 1, domain.ErrInvalidSpecies, "Animal inválido"},
		{"unknown species wins over bad quantity", "UNICORNIO", 0, domain.ErrInvalidSpecies, "Animal inválido"},
		{"lowercase species is unknown", "macaco", 2, domain.ErrInvalidSpecies, "Animal inválido"},
		{"zero quantity", "MACACO", 0, domain.ErrInvalidQuantity, "Quantidade inválida"},
		{"negative quantity", "MACACO", -3, domain.ErrInvalidQuantity, "Quantidade inválida"},
		{"too many monkeys", "MACACO", 10, domain.ErrNoViableEnclosure, "Não há recinto viável"},
		{"lion next to lion", "LEAO", 1, domain.ErrNoViableEnclosure, "Não há recinto viável"},
	}
	svc := newReferenceService(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			placements, err := svc.FindViableEnclosures(context.Background(), tc.species, tc.quantity)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if placements != nil {
				t.Fatalf("expected no placements alongside an error, got %v", placements)
			}
			var evalErr domain.EvaluationError
			if !errors.As(err, &evalErr) || evalErr.Message() != tc.message {
				t.Fatalf("expected message %q, got %v", tc.message, err)
			}
		})
	}
}

func TestFindViableEnclosuresProperties(t *testing.T) {
	svc := newReferenceService(t)
	view := svc.Catalog()
	for _, sp := range view.ListSpecies() {
		for q := 1; q <= 12; q++ {
			placements, err := svc.FindViableEnclosures(context.Background(), sp.Name, q)
			if err != nil {
				if !errors.Is(err, domain.ErrNoViableEnclosure) {
					t.Fatalf("%s x%d: unexpected error %v", sp.Name, q, err)
				}
				continue
			}
			if len(placements) == 0 {
				t.Fatalf("%s x%d: success must carry at least one placement", sp.Name, q)
			}
			for i, p := range placements {
				if i > 0 && placements[i-1].EnclosureID >= p.EnclosureID {
					t.Fatalf("%s x%d: placements not strictly ordered: %v", sp.Name, q, placements)
				}
				enclosure, ok := view.FindEnclosure(p.EnclosureID)
				if !ok {
					t.Fatalf("%s x%d: unknown enclosure %d", sp.Name, q, p.EnclosureID)
				}
				if p.TotalCapacity != enclosure.TotalCapacity {
					t.Fatalf("%s x%d: total capacity mismatch for %d", sp.Name, q, p.EnclosureID)
				}
				if !enclosure.Biomes.Intersects(sp.Biomes) {
					t.Fatalf("%s x%d: placed in incompatible biome %s", sp.Name, q, enclosure.BiomeLabel)
				}
				if sp.Carnivore && !enclosure.IsEmpty() {
					t.Fatalf("%s x%d: carnivore placed in occupied enclosure %d", sp.Name, q, p.EnclosureID)
				}
				if sp.Name == domain.SpeciesHippopotamus && !HippopotamusBiomeOK(enclosure) {
					t.Fatalf("hippo placed in %s", enclosure.BiomeLabel)
				}
				if sp.Name == domain.SpeciesMonkey && q == 1 && enclosure.IsEmpty() {
					t.Fatalf("lone monkey placed in empty enclosure %d", p.EnclosureID)
				}
				if want := FreeSpaceAfter(view, enclosure, sp, q); p.FreeSpace != want {
					t.Fatalf("%s x%d: free space %d, want %d", sp.Name, q, p.FreeSpace, want)
				}
			}
		}
	}
}

func TestFindViableEnclosuresIsIdempotent(t *testing.T) {
	svc := newReferenceService(t)
	first, err := svc.FindViableEnclosures(context.Background(), "MACACO", 2)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := svc.FindViableEnclosures(context.Background(), "MACACO", 2)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated call diverged: %v vs %v", first, second)
	}
	enclosure, _ := svc.Catalog().FindEnclosure(1)
	if enclosure.Occupants["MACACO"] != 3 {
		t.Fatalf("catalog mutated by evaluation: %+v", enclosure.Occupants)
	}
}

func TestResultCacheMatchesUncachedService(t *testing.T) {
	plain := newReferenceService(t)
	cached := newReferenceService(t, WithResultCache(time.Minute))
	for _, sp := range []string{"MACACO", "LEAO", "HIPOPOTAMO", "UNICORNIO"} {
		for q := 0; q <= 6; q++ {
			want, wantErr := plain.FindViableEnclosures(context.Background(), sp, q)
			for round := 0; round < 2; round++ {
				got, gotErr := cached.FindViableEnclosures(context.Background(), sp, q)
				if !reflect.DeepEqual(got, want) {
					t.Fatalf("%s x%d round %d: expected %v, got %v", sp, q, round, want, got)
				}
				if !errors.Is(gotErr, wantErr) && !(gotErr == nil && wantErr == nil) {
					t.Fatalf("%s x%d round %d: expected error %v, got %v", sp, q, round, wantErr, gotErr)
				}
			}
		}
	}
}

func TestResultCacheReturnsCopies(t *testing.T) {
	svc := newReferenceService(t, WithResultCache(time.Minute))
	first, err := svc.FindViableEnclosures(context.Background(), "MACACO", 2)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	first[0].FreeSpace = 99
	second, err := svc.FindViableEnclosures(context.Background(), "MACACO", 2)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if second[0].FreeSpace != 5 {
		t.Fatalf("cached placements leaked caller mutation: %v", second)
	}
}

func TestResultCacheIsBoundedByCatalog(t *testing.T) {
	svc := newReferenceService(t, WithResultCache(5*time.Minute))
	ctx := context.Background()
	for q := -50; q <= 20000; q++ {
		_, _ = svc.FindViableEnclosures(ctx, "MACACO", q)
	}
	for i := 0; i < 100; i++ {
		_, _ = svc.FindViableEnclosures(ctx, "UNICORNIO"+strconv.Itoa(i), 1)
	}
	// largest reference enclosure holds 10 units
	if got := svc.cache.ItemCount(); got != 10 {
		t.Fatalf("expected 10 cached entries, got %d", got)
	}
	placements, err := svc.FindViableEnclosures(ctx, "MACACO", 20000)
	if !errors.Is(err, domain.ErrNoViableEnclosure) || placements != nil {
		t.Fatalf("uncached oversize request must still be rejected, got %v %v", placements, err)
	}
}

func TestFindViableEnclosuresConcurrentCallers(t *testing.T) {
	svc := newReferenceService(t, WithResultCache(time.Minute))
	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			placements, err := svc.FindViableEnclosures(context.Background(), "MACACO", 2)
			if err != nil {
				errs <- err
				return
			}
			if len(placements) != 3 {
				errs <- errors.New("unexpected placement count")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent call failed: %v", err)
	}
}

func TestAssessEnclosuresExplainsEveryEnclosure(t *testing.T) {
	svc := newReferenceService(t)
	assessments, err := svc.AssessEnclosures(context.Background(), "LEAO", 1)
	if err != nil {
		t.Fatalf("assess: %v", err)
	}
	if len(assessments) != 5 {
		t.Fatalf("expected 5 assessments, got %d", len(assessments))
	}
	wantRules := map[int]string{
		1: "carnivore_segregation",
		2: "biome",
		3: "carnivore_segregation",
		4: "biome",
		5: "carnivore_segregation",
	}
	for _, a := range assessments {
		if a.Viable || a.Violation == nil {
			t.Fatalf("enclosure %d: expected rejection, got %+v", a.EnclosureID, a)
		}
		if a.Violation.Rule != wantRules[a.EnclosureID] {
			t.Fatalf("enclosure %d: expected rule %s, got %s", a.EnclosureID, wantRules[a.EnclosureID], a.Violation.Rule)
		}
	}
	if assessments[4].OccupiedSpace != 3 {
		t.Fatalf("expected enclosure 5 to report 3 occupied units, got %d", assessments[4].OccupiedSpace)
	}
}

func TestAssessEnclosuresAgreesWithFindViable(t *testing.T) {
	svc := newReferenceService(t)
	assessments, err := svc.AssessEnclosures(context.Background(), "MACACO", 2)
	if err != nil {
		t.Fatalf("assess: %v", err)
	}
	placements, err := svc.FindViableEnclosures(context.Background(), "MACACO", 2)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	var viable []Placement
	for _, a := range assessments {
		if a.Viable {
			viable = append(viable, Placement{EnclosureID: a.EnclosureID, FreeSpace: a.FreeSpace, TotalCapacity: a.TotalCapacity})
		}
	}
	if !reflect.DeepEqual(viable, placements) {
		t.Fatalf("assessment and ranking disagree: %v vs %v", viable, placements)
	}
}

func TestAssessEnclosuresValidatesInput(t *testing.T) {
	svc := newReferenceService(t)
	if _, err := svc.AssessEnclosures(context.Background(), "UNICORNIO", 1); !errors.Is(err, domain.ErrInvalidSpecies) {
		t.Fatalf("expected invalid species, got %v", err)
	}
	if _, err := svc.AssessEnclosures(context.Background(), "GAZELA", 0); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("expected invalid quantity, got %v", err)
	}
}

func TestParseRequest(t *testing.T) {
	cases := []struct {
		species string
		raw     string
		want    int
		err     error
	}{
		{"MACACO", "2", 2, nil},
		{"MACACO", " 3 ", 3, nil},
		{"MACACO", "0", 0, domain.ErrInvalidQuantity},
		{"MACACO", "-2", 0, domain.ErrInvalidQuantity},
		{"MACACO", "1.5", 0, domain.ErrInvalidQuantity},
		{"MACACO", "abc", 0, domain.ErrInvalidQuantity},
		{"MACACO", "", 0, domain.ErrInvalidQuantity},
		{"UNICORNIO", "abc", 0, domain.ErrInvalidSpecies},
		{"", "1", 0, domain.ErrInvalidSpecies},
	}
	svc := newReferenceService(t)
	for _, tc := range cases {
		got, err := svc.ParseRequest(tc.species, tc.raw)
		if tc.err == nil {
			if err != nil || got != tc.want {
				t.Fatalf("%s/%q: expected %d, got %d (%v)", tc.species, tc.raw, tc.want, got, err)
			}
			continue
		}
		if !errors.Is(err, tc.err) {
			t.Fatalf("%s/%q: expected %v, got %v", tc.species, tc.raw, tc.err, err)
		}
	}
}

type recordedObservation struct {
	operation, species, outcome string
	duration                    time.Duration
}

type recordingMetrics struct {
	mu  sync.Mutex
	obs []recordedObservation
}

func (m *recordingMetrics) Observe(_ context.Context, operation, species, outcome string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.obs = append(m.obs, recordedObservation{operation, species, outcome, duration})
}

type steppingClock struct {
	now  time.Time
	step time.Duration
}

func (c *steppingClock) Now() time.Time {
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func TestServiceRecordsMetrics(t *testing.T) {
	rec := &recordingMetrics{}
	clock := &steppingClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), step: 250 * time.Millisecond}
	svc := newReferenceService(t, WithMetrics(rec), WithClock(clock))

	_, _ = svc.FindViableEnclosures(context.Background(), "MACACO", 2)
	_, _ = svc.FindViableEnclosures(context.Background(), "LEAO", 1)
	_, _ = svc.FindViableEnclosures(context.Background(), "DRAGAO", 1)
	_, _ = svc.AssessEnclosures(context.Background(), "GAZELA", 1)

	want := []recordedObservation{
		{OperationFindViable, "MACACO", "viable", 250 * time.Millisecond},
		{OperationFindViable, "LEAO", string(domain.KindNoViableEnclosure), 250 * time.Millisecond},
		{OperationFindViable, "unknown", string(domain.KindInvalidSpecies), 250 * time.Millisecond},
		{OperationAssess, "GAZELA", "viable", 250 * time.Millisecond},
	}
	if !reflect.DeepEqual(rec.obs, want) {
		t.Fatalf("expected observations %+v, got %+v", want, rec.obs)
	}
}

func TestWithRulesEngineOverridesDefaults(t *testing.T) {
	engine := NewRulesEngine()
	engine.Register(NewSpaceRule())
	svc := newReferenceService(t, WithRulesEngine(engine))
	placements, err := svc.FindViableEnclosures(context.Background(), "LEAO", 1)
	if err != nil {
		t.Fatalf("expected space-only engine to accept a lion, got %v", err)
	}
	if len(placements) != 5 {
		t.Fatalf("expected every enclosure to be viable, got %v", placements)
	}
}
