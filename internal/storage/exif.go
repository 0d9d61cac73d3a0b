package storage

import (
	"context"
	"io"

	"portal_da_fe_backend/internal/geo"
	"portal_da_fe_backend/platform/apperr"

	"github.com/rwcarlsen/goexif/exif"
)

// SuggestCoordinate reads the EXIF GPS tags of an uploaded image and
// returns the embedded coordinate, so a submission form can prefill the
// venue's position from a photo taken on site. Images without usable GPS
// data yield a not-found error, not an internal one.
func (s *Service) SuggestCoordinate(ctx context.Context, fileKey string) (geo.Coordinate, error) {
	obj, err := s.Open(ctx, fileKey)
	if err != nil {
		return geo.Coordinate{}, err
	}
	defer obj.Close()

	coordinate, err := coordinateFromEXIF(obj)
	if err != nil {
		return geo.Coordinate{}, apperr.NotFound("image carries no location data")
	}
	return coordinate, nil
}

func coordinateFromEXIF(r io.Reader) (geo.Coordinate, error) {
	meta, err := exif.Decode(r)
	if err != nil {
		return geo.Coordinate{}, err
	}

	lat, lng, err := meta.LatLong()
	if err != nil {
		return geo.Coordinate{}, err
	}

	coordinate := geo.Coordinate{Latitude: lat, Longitude: lng}
	if !coordinate.Valid() {
		return geo.Coordinate{}, apperr.Validation("exif coordinate out of range")
	}
	return coordinate, nil
}
