package ranking

import (
	"math"
	"reflect"
	"testing"

	"portal_da_fe_backend/internal/geo"
	"portal_da_fe_backend/internal/venues/domain"

	"github.com/google/uuid"
)

var saoPaulo = geo.Coordinate{Latitude: -23.5505, Longitude: -46.6333}

// venueAtKm builds an active venue roughly km kilometers north of São Paulo.
// One degree of latitude is ~111.2 km on the 6371 km sphere.
func venueAtKm(name string, km float64) domain.Venue {
	coord := geo.Coordinate{
		Latitude:  saoPaulo.Latitude + km/111.195,
		Longitude: saoPaulo.Longitude,
	}
	return domain.Venue{
		ID:         uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)),
		Name:       name,
		Category:   domain.CategoryChurch,
		Status:     domain.StatusActive,
		Coordinate: &coord,
	}
}

func ratingOf(r float64) *float64 { return &r }

func TestRank_EmptyInputYieldsEmptyOutput(t *testing.T) {
	e := NewEngine(10)
	got := e.Rank(nil, &saoPaulo, Criteria{}, 0)
	if len(got) != 0 {
		t.Fatalf("expected empty result for empty venue list, got %d", len(got))
	}
}

func TestRank_NoObserverYieldsEmptyOutput(t *testing.T) {
	e := NewEngine(10)
	venues := []domain.Venue{venueAtKm("igreja matriz", 1)}

	got := e.Rank(venues, nil, Criteria{}, 0)
	if len(got) != 0 {
		t.Fatalf("expected empty result without observer, got %d", len(got))
	}
}

func TestRank_RadiusBoundAndOrdering(t *testing.T) {
	e := NewEngine(10)
	venues := []domain.Venue{
		venueAtKm("doze", 12),
		venueAtKm("cinco", 5),
		venueAtKm("dois", 2),
	}

	got := e.Rank(venues, &saoPaulo, Criteria{}, 0)
	if len(got) != 2 {
		t.Fatalf("expected 2 venues within 10 km, got %d", len(got))
	}
	if got[0].Name != "dois" || got[1].Name != "cinco" {
		t.Fatalf("expected [dois, cinco], got [%s, %s]", got[0].Name, got[1].Name)
	}
	if math.Abs(got[0].DistanceKm-2) > 0.1 || math.Abs(got[1].DistanceKm-5) > 0.1 {
		t.Fatalf("unexpected distances: %f, %f", got[0].DistanceKm, got[1].DistanceKm)
	}
}

func TestRank_ExplicitRadiusOverridesDefault(t *testing.T) {
	e := NewEngine(10)
	venues := []domain.Venue{venueAtKm("longe", 15)}

	radius := 20.0
	c, err := NewCriteria("", &radius, nil, "")
	if err != nil {
		t.Fatalf("unexpected criteria error: %v", err)
	}

	got := e.Rank(venues, &saoPaulo, c, 0)
	if len(got) != 1 {
		t.Fatalf("expected venue inside explicit 20 km radius, got %d results", len(got))
	}
}

func TestRank_ZeroDefaultRadiusMeansUnbounded(t *testing.T) {
	e := NewEngine(0)
	venues := []domain.Venue{venueAtKm("muito longe", 500)}

	got := e.Rank(venues, &saoPaulo, Criteria{}, 0)
	if len(got) != 1 {
		t.Fatalf("expected unbounded engine to keep distant venue, got %d results", len(got))
	}
}

func TestRank_RatingBreaksDistanceTies(t *testing.T) {
	e := NewEngine(10)
	a := venueAtKm("bem avaliada", 3)
	a.Rating = ratingOf(4.5)
	b := venueAtKm("mal avaliada", 3)
	b.Rating = ratingOf(3.0)
	c := venueAtKm("sem avaliacao", 3)

	got := e.Rank([]domain.Venue{c, b, a}, &saoPaulo, Criteria{}, 0)
	if len(got) != 3 {
		t.Fatalf("expected 3 venues, got %d", len(got))
	}
	if got[0].Name != "bem avaliada" {
		t.Fatalf("expected highest rated first on distance tie, got %s", got[0].Name)
	}
	if got[2].Name != "sem avaliacao" {
		t.Fatalf("expected unrated venue last on distance tie, got %s", got[2].Name)
	}
}

func TestRank_IdentifierBreaksFullTies(t *testing.T) {
	e := NewEngine(10)
	a := venueAtKm("gemea a", 3)
	b := venueAtKm("gemea b", 3)
	a.Rating = ratingOf(4.0)
	b.Rating = ratingOf(4.0)

	first := e.Rank([]domain.Venue{a, b}, &saoPaulo, Criteria{}, 0)
	second := e.Rank([]domain.Venue{b, a}, &saoPaulo, Criteria{}, 0)

	if first[0].ID != second[0].ID || first[1].ID != second[1].ID {
		t.Fatalf("expected input-order-independent tie break, got %s/%s vs %s/%s",
			first[0].Name, first[1].Name, second[0].Name, second[1].Name)
	}
}

func TestRank_PendingVenuesNeverAppear(t *testing.T) {
	e := NewEngine(10)
	pending := venueAtKm("aguardando", 1)
	pending.Status = domain.StatusPending
	rejected := venueAtKm("recusada", 1)
	rejected.Status = domain.StatusRejected
	approved := venueAtKm("aprovada", 1)
	approved.Status = domain.StatusApproved

	got := e.Rank([]domain.Venue{pending, rejected, approved}, &saoPaulo, Criteria{}, 0)
	if len(got) != 1 || got[0].Name != "aprovada" {
		t.Fatalf("expected only the approved venue, got %d results", len(got))
	}
}

func TestRank_MalformedCoordinateIsSkippedNotFatal(t *testing.T) {
	e := NewEngine(10)
	broken := venueAtKm("quebrada", 1)
	broken.Coordinate = &geo.Coordinate{Latitude: math.NaN(), Longitude: -46.6}
	missing := venueAtKm("sem coordenada", 1)
	missing.Coordinate = nil
	ok := venueAtKm("integra", 2)

	got := e.Rank([]domain.Venue{broken, missing, ok}, &saoPaulo, Criteria{}, 0)
	if len(got) != 1 || got[0].Name != "integra" {
		t.Fatalf("expected only the valid venue, got %d results", len(got))
	}
}

func TestRank_MinRatingDropsUnratedVenues(t *testing.T) {
	e := NewEngine(10)
	rated := venueAtKm("avaliada", 2)
	rated.Rating = ratingOf(4.2)
	low := venueAtKm("fraca", 2)
	low.Rating = ratingOf(3.9)
	unrated := venueAtKm("nova", 2)

	min := 4.0
	c, err := NewCriteria("", nil, &min, "")
	if err != nil {
		t.Fatalf("unexpected criteria error: %v", err)
	}

	got := e.Rank([]domain.Venue{rated, low, unrated}, &saoPaulo, c, 0)
	if len(got) != 1 || got[0].Name != "avaliada" {
		t.Fatalf("expected only the venue rated >= 4.0, got %d results", len(got))
	}
}

func TestRank_TypeFilterIsBidirectionalSubstring(t *testing.T) {
	e := NewEngine(10)
	temple := venueAtKm("zen", 2)
	temple.Category = "Templo Budista"
	church := venueAtKm("matriz", 2)
	church.Category = "Igreja"

	c, err := NewCriteria("templo", nil, nil, "")
	if err != nil {
		t.Fatalf("unexpected criteria error: %v", err)
	}

	got := e.Rank([]domain.Venue{temple, church}, &saoPaulo, c, 0)
	if len(got) != 1 || got[0].Name != "zen" {
		t.Fatalf("expected substring type match to keep only the temple, got %d results", len(got))
	}

	// Reverse direction: a broad filter value containing the category.
	c2, err := NewCriteria("igreja evangelica", nil, nil, "")
	if err != nil {
		t.Fatalf("unexpected criteria error: %v", err)
	}
	got = e.Rank([]domain.Venue{temple, church}, &saoPaulo, c2, 0)
	if len(got) != 1 || got[0].Name != "matriz" {
		t.Fatalf("expected reverse substring match to keep only the church, got %d results", len(got))
	}
}

func TestRank_TypeFilterExcludesUncategorizedVenues(t *testing.T) {
	e := NewEngine(10)
	uncategorized := venueAtKm("sem categoria", 1)
	uncategorized.Category = ""
	church := venueAtKm("matriz", 2)

	c, err := NewCriteria("igreja", nil, nil, "")
	if err != nil {
		t.Fatalf("unexpected criteria error: %v", err)
	}

	got := e.Rank([]domain.Venue{uncategorized, church}, &saoPaulo, c, 0)
	if len(got) != 1 || got[0].Name != "matriz" {
		t.Fatalf("expected the empty category to fail the type filter, got %d results", len(got))
	}

	// Without a filter the uncategorized venue still ranks normally.
	got = e.Rank([]domain.Venue{uncategorized, church}, &saoPaulo, Criteria{}, 0)
	if len(got) != 2 {
		t.Fatalf("expected both venues without a type filter, got %d", len(got))
	}
}

func TestRank_FreeTextQueryMatchesNameCategoryAddress(t *testing.T) {
	e := NewEngine(10)
	byName := venueAtKm("Igreja de Santana", 2)
	byAddress := venueAtKm("capela", 3)
	byAddress.Address = domain.Address{Street: "Rua Santana", Number: "12", City: "São Paulo"}
	neither := venueAtKm("mosteiro", 4)

	c, err := NewCriteria("", nil, nil, "santana")
	if err != nil {
		t.Fatalf("unexpected criteria error: %v", err)
	}

	got := e.Rank([]domain.Venue{byName, byAddress, neither}, &saoPaulo, c, 0)
	if len(got) != 2 {
		t.Fatalf("expected 2 query matches, got %d", len(got))
	}
	if got[0].Name != "Igreja de Santana" || got[1].Name != "capela" {
		t.Fatalf("unexpected query match order: [%s, %s]", got[0].Name, got[1].Name)
	}
}

func TestRank_LimitTruncatesAfterSort(t *testing.T) {
	e := NewEngine(10)
	venues := []domain.Venue{
		venueAtKm("oito", 8),
		venueAtKm("um", 1),
		venueAtKm("quatro", 4),
	}

	got := e.Rank(venues, &saoPaulo, Criteria{}, 2)
	if len(got) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(got))
	}
	// Truncation happens after the sort, so the nearest two survive.
	if got[0].Name != "um" || got[1].Name != "quatro" {
		t.Fatalf("expected the two nearest venues, got [%s, %s]", got[0].Name, got[1].Name)
	}
}

func TestRank_IsIdempotentAndDoesNotMutateInputs(t *testing.T) {
	e := NewEngine(10)
	venues := []domain.Venue{
		venueAtKm("primeiro", 9),
		venueAtKm("segundo", 2),
	}
	snapshot := make([]domain.Venue, len(venues))
	copy(snapshot, venues)

	first := e.Rank(venues, &saoPaulo, Criteria{}, 0)
	second := e.Rank(venues, &saoPaulo, Criteria{}, 0)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical output for identical inputs")
	}
	if !reflect.DeepEqual(venues, snapshot) {
		t.Fatalf("expected input slice to be untouched")
	}
}

func TestRank_ReturnsFreshSlicePerCall(t *testing.T) {
	e := NewEngine(10)
	venues := []domain.Venue{venueAtKm("unica", 1)}

	first := e.Rank(venues, &saoPaulo, Criteria{}, 0)
	first[0].DistanceKm = 999

	second := e.Rank(venues, &saoPaulo, Criteria{}, 0)
	if second[0].DistanceKm == 999 {
		t.Fatalf("expected fresh result allocation per call")
	}
}
