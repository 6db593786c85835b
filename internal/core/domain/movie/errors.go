package movie

import (
	"errors"
	"net/http"
)

var (
	// ErrNoResponse is the absent result of a gateway call.
	ErrNoResponse = errors.New("no response from movie catalog")
	// ErrInvalidEnvelope is returned when an upstream list payload cannot be used.
	ErrInvalidEnvelope = errors.New("invalid movie envelope")
	// ErrMissingID is returned for a record without a numeric id.
	ErrMissingID = errors.New("movie record has no id")
	// ErrMissingReleaseDate is returned when a release date is required but absent.
	ErrMissingReleaseDate = errors.New("movie has no release date")
	// ErrInvalidRating is returned for ratings outside [MinRating, MaxRating].
	ErrInvalidRating = errors.New(RatingRangeMessage)
)

// OperationError is the (message, status) pair every catalog operation fails with.
type OperationError struct {
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *OperationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *OperationError) Unwrap() error { return e.Err }

// NewInternalError builds a 500 OperationError.
func NewInternalError(message string, err error) *OperationError {
	return &OperationError{Message: message, Status: http.StatusInternalServerError, Err: err}
}

// NewBadRequestError builds a 400 OperationError.
func NewBadRequestError(message string, err error) *OperationError {
	return &OperationError{Message: message, Status: http.StatusBadRequest, Err: err}
}
