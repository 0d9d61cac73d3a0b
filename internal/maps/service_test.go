package maps

import "testing"

func TestBuildSuggestionRequiresCity(t *testing.T) {
	_, ok := buildSuggestion(nominatimResponse{
		Lat:     "-23.55",
		Lon:     "-46.63",
		Address: nominatimAddress{Road: "Rua Direita"},
	})
	if ok {
		t.Fatal("expected suggestion without city to be dropped")
	}
}

func TestBuildSuggestionLabel(t *testing.T) {
	s, ok := buildSuggestion(nominatimResponse{
		Lat: "-23.55",
		Lon: "-46.63",
		Address: nominatimAddress{
			Road:        "Rua Direita",
			HouseNumber: "100",
			City:        "São Paulo",
			State:       "São Paulo",
		},
	})
	if !ok {
		t.Fatal("expected a suggestion")
	}
	want := "Rua Direita, 100 - São Paulo - São Paulo"
	if s.Label != want {
		t.Fatalf("label = %q, want %q", s.Label, want)
	}
}

func TestPickCityFallsBackThroughLocalityLevels(t *testing.T) {
	if got := pickCity(nominatimAddress{Town: "Aparecida"}); got != "Aparecida" {
		t.Fatalf("town fallback = %q", got)
	}
	if got := pickCity(nominatimAddress{Village: "Trindade", Hamlet: "x"}); got != "Trindade" {
		t.Fatalf("village fallback = %q", got)
	}
	if got := pickCity(nominatimAddress{}); got != "" {
		t.Fatalf("empty address should yield no city, got %q", got)
	}
}
