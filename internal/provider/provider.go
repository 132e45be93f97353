package provider

import (
	"context"

	"github.com/wakandasalud/clinic-api/internal/domain"
)

// Dispatcher is the outbound message delivery port. Implementations submit
// the message synchronously and collapse every failure mode into the failed
// outcome: the underlying provider error never crosses this boundary.
type Dispatcher interface {
	Send(ctx context.Context, destination string, content string) domain.DeliveryOutcome
}
