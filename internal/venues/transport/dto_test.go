package transport

import (
	"testing"

	"portal_da_fe_backend/internal/venues/domain"
)

func TestNormalizedImagesFoldsLegacySingleImage(t *testing.T) {
	req := CreateVenueRequest{
		Images: []string{"venues/a.jpg", "  ", "venues/b.jpg"},
		Image:  "venues/cover.jpg",
	}

	images := req.NormalizedImages()
	want := []string{"venues/a.jpg", "venues/b.jpg", "venues/cover.jpg"}
	if len(images) != len(want) {
		t.Fatalf("expected %d images, got %d: %v", len(want), len(images), images)
	}
	for i := range want {
		if images[i] != want[i] {
			t.Fatalf("image %d: expected %q, got %q", i, want[i], images[i])
		}
	}
}

func TestNormalizedImagesEmptyWhenNothingSent(t *testing.T) {
	images := CreateVenueRequest{}.NormalizedImages()
	if images == nil || len(images) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", images)
	}
}

func TestNormalizedAddressPrefersStructuredShape(t *testing.T) {
	req := CreateVenueRequest{
		Address: &AddressDTO{
			Street: "Rua das Flores",
			Number: "123",
			City:   "São Paulo",
			State:  "SP",
		},
		Location: "ignored legacy value",
	}

	addr := req.NormalizedAddress()
	if addr.City != "São Paulo" || addr.Street != "Rua das Flores" {
		t.Fatalf("structured address not preserved: %+v", addr)
	}
	if addr.Full != addr.Flatten() {
		t.Fatalf("expected Full to be derived when absent, got %q", addr.Full)
	}
}

func TestNormalizedAddressFallsBackToLegacyLocation(t *testing.T) {
	req := CreateVenueRequest{Location: "  Av. Paulista 1000, São Paulo  "}

	addr := req.NormalizedAddress()
	want := domain.Address{Full: "Av. Paulista 1000, São Paulo"}
	if addr != want {
		t.Fatalf("expected %+v, got %+v", want, addr)
	}
}
