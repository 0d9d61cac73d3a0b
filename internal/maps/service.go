// Package maps provides address search and forward geocoding backed by the
// OpenStreetMap Nominatim API, restricted to Brazil.
package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"portal_da_fe_backend/internal/geo"
	"portal_da_fe_backend/platform/logger"
)

const nominatimURL = "https://nominatim.openstreetmap.org/search"

type Service struct {
	client *http.Client
	log    *logger.Logger
}

func NewService(log *logger.Logger) *Service {
	return &Service{
		client: &http.Client{Timeout: 5 * time.Second},
		log:    log,
	}
}

func (s *Service) SearchAddress(ctx context.Context, query string) ([]AddressSuggestion, error) {
	raw, err := s.search(ctx, query, 5)
	if err != nil {
		return nil, err
	}

	suggestions := make([]AddressSuggestion, 0, len(raw))
	for _, r := range raw {
		suggestion, ok := buildSuggestion(r)
		if !ok {
			continue
		}
		suggestions = append(suggestions, suggestion)
	}

	return suggestions, nil
}

// Geocode resolves a free-form address into a coordinate. Returns nil when
// Nominatim has no match; venue submissions treat that as "no position yet".
func (s *Service) Geocode(ctx context.Context, address string) (*geo.Coordinate, error) {
	if strings.TrimSpace(address) == "" {
		return nil, nil
	}

	raw, err := s.search(ctx, address, 1)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(raw[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parse latitude %q: %w", raw[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(raw[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parse longitude %q: %w", raw[0].Lon, err)
	}

	coord := geo.Coordinate{Latitude: lat, Longitude: lon}
	if !coord.Valid() {
		return nil, nil
	}
	return &coord, nil
}

func (s *Service) search(ctx context.Context, query string, limit int) ([]nominatimResponse, error) {
	params := url.Values{}
	params.Add("q", query)
	params.Add("format", "json")
	params.Add("addressdetails", "1")
	params.Add("limit", strconv.Itoa(limit))
	params.Add("countrycodes", "br")

	reqURL := fmt.Sprintf("%s?%s", nominatimURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", "PortalDaFe/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Error("nominatim request failed", "error", err)
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		s.log.Error("nominatim upstream error", "status", resp.StatusCode)
		return nil, fmt.Errorf("upstream api error: %d", resp.StatusCode)
	}

	var rawResults []nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&rawResults); err != nil {
		s.log.Error("failed to decode nominatim payload", "error", err)
		return nil, err
	}

	return rawResults, nil
}

func buildSuggestion(raw nominatimResponse) (AddressSuggestion, bool) {
	city := pickCity(raw.Address)
	if city == "" {
		return AddressSuggestion{}, false
	}

	suggestion := AddressSuggestion{
		Street: raw.Address.Road,
		Number: raw.Address.HouseNumber,
		City:   city,
		State:  raw.Address.State,
		Lat:    raw.Lat,
		Lon:    raw.Lon,
	}

	suggestion.Label = buildLabel(suggestion)

	return suggestion, true
}

func pickCity(address nominatimAddress) string {
	if address.City != "" {
		return address.City
	}
	if address.Town != "" {
		return address.Town
	}
	if address.Village != "" {
		return address.Village
	}
	if address.Municipality != "" {
		return address.Municipality
	}
	return address.Hamlet
}

func buildLabel(suggestion AddressSuggestion) string {
	parts := make([]string, 0, 3)
	street := suggestion.Street
	if suggestion.Number != "" {
		street = strings.TrimSpace(street + ", " + suggestion.Number)
	}
	if street != "" {
		parts = append(parts, street)
	}
	parts = append(parts, suggestion.City)
	if suggestion.State != "" {
		parts = append(parts, suggestion.State)
	}
	return strings.Join(parts, " - ")
}
