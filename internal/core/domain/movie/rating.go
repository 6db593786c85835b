package movie

import (
	"encoding/json"
	"fmt"
)

const (
	MinRating          = 1.0
	MaxRating          = 5.0
	RatingRangeMessage = "rating must be between 1 and 5"
)

// RatingRequest asks to rate a single movie.
type RatingRequest struct {
	MovieID int64   `json:"movie_id"`
	Rating  float64 `json:"rating"`
}

// Validate checks the rating range. Bounds are inclusive; NaN is rejected.
func (r RatingRequest) Validate() error {
	if !(r.Rating >= MinRating && r.Rating <= MaxRating) {
		return fmt.Errorf("%w: got %v", ErrInvalidRating, r.Rating)
	}
	return nil
}

// FavoriteUpdate is the upstream payload toggling a favorite.
type FavoriteUpdate struct {
	MediaType string `json:"media_type"`
	MediaID   int64  `json:"media_id"`
	Favorite  bool   `json:"favorite"`
}

// NewFavoriteUpdate builds the payload for a movie favorite toggle.
func NewFavoriteUpdate(mediaID int64, favorite bool) FavoriteUpdate {
	return FavoriteUpdate{MediaType: "movie", MediaID: mediaID, Favorite: favorite}
}

// RatingValue is the upstream payload of a rating call.
type RatingValue struct {
	Value float64 `json:"value"`
}

// UpstreamResponse is the raw outcome of a write forwarded upstream.
type UpstreamResponse struct {
	StatusCode int
	Body       json.RawMessage
}

// WriteResult is returned to callers of write operations.
type WriteResult struct {
	StatusCode int             `json:"status_code"`
	Response   json.RawMessage `json:"response"`
}

// BulkDeleteSummary is the outcome of clearing all favorites.
type BulkDeleteSummary struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
