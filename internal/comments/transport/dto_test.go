package transport

import (
	"testing"
	"time"

	"portal_da_fe_backend/internal/comments/repository"
	"portal_da_fe_backend/platform/apperr"

	"github.com/google/uuid"
)

func TestCursorRoundTrip(t *testing.T) {
	cursor := &repository.Cursor{
		CreatedAt: time.Date(2026, 3, 14, 9, 26, 53, 589793000, time.UTC),
		ID:        uuid.New(),
	}

	token := EncodeCursor(cursor)
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	decoded, err := DecodeCursor(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !decoded.CreatedAt.Equal(cursor.CreatedAt) || decoded.ID != cursor.ID {
		t.Fatalf("round trip mismatch: %+v vs %+v", decoded, cursor)
	}
}

func TestDecodeCursorEmptyMeansFirstPage(t *testing.T) {
	cursor, err := DecodeCursor("")
	if err != nil || cursor != nil {
		t.Fatalf("expected nil cursor for empty token, got %+v, %v", cursor, err)
	}
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	for _, token := range []string{"not base64 !!", "YWJj", EncodeCursor(nil) + "x"} {
		if _, err := DecodeCursor(token); !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("expected validation error for %q, got %v", token, err)
		}
	}
}
