// Package provider fetches salary observations from independent sources.
package provider

import (
	"context"

	"github.com/sells-group/comp-cli/internal/model"
)

// Request carries the inputs a provider may draw on. The search variant
// consumes Queries; the knowledge-store variant consumes Profile facts.
type Request struct {
	Profile model.Profile
	Queries []string
}

// ObservationProvider returns zero or more raw observations for a request.
// Implementations are independent and share no state; "no results" is an
// empty slice, not an error.
type ObservationProvider interface {
	Name() string
	Observations(ctx context.Context, req Request) ([]model.Observation, error)
}
