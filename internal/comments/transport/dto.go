// Package transport defines the comments HTTP shapes, including the opaque
// page cursor used by keyset pagination.
package transport

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"portal_da_fe_backend/internal/comments/repository"
	"portal_da_fe_backend/platform/apperr"

	"github.com/google/uuid"
)

// CreateCommentRequest submits a review for moderation.
type CreateCommentRequest struct {
	Rating  int    `json:"rating" binding:"required" validate:"gte=1,lte=5"`
	Content string `json:"content" binding:"required" validate:"min=3,max=2000"`
}

// ModerateCommentRequest approves or rejects a pending comment.
type ModerateCommentRequest struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note" validate:"max=500"`
}

// CommentResponse is the public comment shape.
type CommentResponse struct {
	ID         string    `json:"id"`
	VenueID    string    `json:"venueId"`
	AuthorName string    `json:"authorName"`
	Rating     int       `json:"rating"`
	Content    string    `json:"content"`
	Status     string    `json:"status,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CommentPageResponse is one keyset page.
type CommentPageResponse struct {
	Comments   []CommentResponse `json:"comments"`
	NextCursor string            `json:"nextCursor,omitempty"`
}

// FromComment maps a stored comment to its public shape. includeStatus is
// set on moderation views only.
func FromComment(c repository.Comment, includeStatus bool) CommentResponse {
	resp := CommentResponse{
		ID:         c.ID.String(),
		VenueID:    c.VenueID.String(),
		AuthorName: c.AuthorName,
		Rating:     c.Rating,
		Content:    c.Content,
		CreatedAt:  c.CreatedAt,
	}
	if includeStatus {
		resp.Status = string(c.Status)
	}
	return resp
}

// FromComments maps a comment slice.
func FromComments(comments []repository.Comment, includeStatus bool) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, FromComment(c, includeStatus))
	}
	return out
}

// EncodeCursor renders a cursor as an opaque page token.
func EncodeCursor(c *repository.Cursor) string {
	if c == nil {
		return ""
	}
	raw := fmt.Sprintf("%s|%s", c.CreatedAt.UTC().Format(time.RFC3339Nano), c.ID)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor parses a page token. An empty token means the first page.
func DecodeCursor(token string) (*repository.Cursor, error) {
	if token == "" {
		return nil, nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, apperr.Validation("invalid page cursor")
	}

	parts := strings.SplitN(string(raw), "|", 2)
	if len(parts) != 2 {
		return nil, apperr.Validation("invalid page cursor")
	}

	createdAt, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return nil, apperr.Validation("invalid page cursor")
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return nil, apperr.Validation("invalid page cursor")
	}

	return &repository.Cursor{CreatedAt: createdAt, ID: id}, nil
}
