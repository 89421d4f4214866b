package payment

import (
	"context"

	"github.com/SampritiSC2/react-proshop/internal/domain"
)

// Verifier confirms a payment capture with the gateway before an order is
// marked paid. Implementations return the verified payment result or an
// error when the capture is missing or not completed.
type Verifier interface {
	Verify(ctx context.Context, captureID string) (*domain.PaymentResult, error)
}
