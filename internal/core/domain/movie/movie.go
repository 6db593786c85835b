// Package movie holds the catalog records exchanged with the upstream movie API.
package movie

import (
	"encoding/json"
	"fmt"
	"time"
)

// ReleaseDateLayout is the upstream release_date format.
const ReleaseDateLayout = "2006-01-02"

// Movie is an upstream catalog record. Only ID and ReleaseDate are interpreted;
// a decoded record is re-emitted exactly as upstream sent it.
type Movie struct {
	ID          int64
	ReleaseDate *string

	raw map[string]json.RawMessage
}

// UnmarshalJSON decodes an upstream record. A record without a numeric id is rejected.
func (m *Movie) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	idRaw, ok := raw["id"]
	if !ok || string(idRaw) == "null" {
		return ErrMissingID
	}
	var id int64
	if err := json.Unmarshal(idRaw, &id); err != nil {
		return fmt.Errorf("%w: %v", ErrMissingID, err)
	}

	*m = Movie{ID: id, raw: raw}
	if rd, ok := raw["release_date"]; ok && string(rd) != "null" {
		var s string
		if err := json.Unmarshal(rd, &s); err != nil {
			// keep the malformed value so parsing fails later
			s = string(rd)
		}
		m.ReleaseDate = &s
	}
	return nil
}

// MarshalJSON emits the upstream record unchanged. Records built in code carry
// only id and release_date.
func (m Movie) MarshalJSON() ([]byte, error) {
	if m.raw != nil {
		return json.Marshal(m.raw)
	}
	out := map[string]any{"id": m.ID}
	if m.ReleaseDate != nil {
		out["release_date"] = *m.ReleaseDate
	}
	return json.Marshal(out)
}

// Title returns the upstream title, or "" when it is absent or not a string.
func (m *Movie) Title() string {
	t, ok := m.raw["title"]
	if !ok {
		return ""
	}
	var title string
	if err := json.Unmarshal(t, &title); err != nil {
		return ""
	}
	return title
}

// ReleaseTime parses ReleaseDate. Missing and malformed dates are errors.
func (m *Movie) ReleaseTime() (time.Time, error) {
	if m.ReleaseDate == nil {
		return time.Time{}, fmt.Errorf("movie %d: %w", m.ID, ErrMissingReleaseDate)
	}
	t, err := time.Parse(ReleaseDateLayout, *m.ReleaseDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("movie %d: parse release date %q: %w", m.ID, *m.ReleaseDate, err)
	}
	return t, nil
}

// Envelope is the upstream wrapper around a page of movies.
type Envelope struct {
	Page         int     `json:"page,omitempty"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages,omitempty"`
	TotalResults int     `json:"total_results,omitempty"`
}

// DecodeEnvelope decodes and validates an upstream envelope. The results array
// is required and every result must carry an id.
func DecodeEnvelope(data []byte) (*Envelope, error) {
	var aux struct {
		Page         int      `json:"page"`
		Results      *[]Movie `json:"results"`
		TotalPages   int      `json:"total_pages"`
		TotalResults int      `json:"total_results"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	if aux.Results == nil {
		return nil, fmt.Errorf("%w: missing results", ErrInvalidEnvelope)
	}
	return &Envelope{
		Page:         aux.Page,
		Results:      *aux.Results,
		TotalPages:   aux.TotalPages,
		TotalResults: aux.TotalResults,
	}, nil
}

// IDSet returns the ids of all results.
func (e *Envelope) IDSet() map[int64]struct{} {
	ids := make(map[int64]struct{}, len(e.Results))
	for _, m := range e.Results {
		ids[m.ID] = struct{}{}
	}
	return ids
}
