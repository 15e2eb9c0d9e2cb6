package audit

import (
	"context"
	"time"
)

// Repository stores and queries the gateway event audit log. Writes are
// best-effort from the webhook path; a failed audit write never blocks
// settlement.
type Repository interface {
	Record(ctx context.Context, event *GatewayEvent) error
	ListByDonation(ctx context.Context, donationID string, limit, offset int) ([]*GatewayEvent, error)
	ListByTimeRange(ctx context.Context, startTime, endTime time.Time, limit, offset int) ([]*GatewayEvent, error)
	CountByResult(ctx context.Context, result Result) (int64, error)
}
