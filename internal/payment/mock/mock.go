// Package mock provides a payment verifier that accepts every capture.
// It is the default in development, where no gateway credentials exist.
package mock

import (
	"context"
	"time"

	"github.com/SampritiSC2/react-proshop/internal/domain"
)

// Verifier trusts the client-reported capture ID without contacting any
// gateway.
type Verifier struct{}

// New creates a mock verifier.
func New() *Verifier {
	return &Verifier{}
}

// Verify returns a completed payment result for any capture ID.
func (v *Verifier) Verify(_ context.Context, captureID string) (*domain.PaymentResult, error) {
	return &domain.PaymentResult{
		ID:         captureID,
		Status:     "COMPLETED",
		UpdateTime: time.Now().UTC().Format(time.RFC3339),
	}, nil
}
