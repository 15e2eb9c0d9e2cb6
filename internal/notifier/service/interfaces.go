package service

import (
	"context"

	"github.com/givebridge-donation-platform/internal/domain/shared"
)

// DeliveryService delivers one notification to its recipient
type DeliveryService interface {
	Deliver(ctx context.Context, notification *shared.Notification) error
}

// EmailSender sends a rendered email through the configured provider
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}
