package usecase

import "context"

// CouponIssuer turns a discount prize into a redeemable code on the commerce
// platform. Implementations must treat failures as recoverable: the spin
// outcome stands with or without a code.
type CouponIssuer interface {
	IssueCoupon(ctx context.Context, prizeValue string) (string, error)
}

// EventPublisher emits a recorded spin to downstream consumers. Best-effort;
// no error is returned to the caller.
type EventPublisher interface {
	PublishSpin(ctx context.Context, userID, prizeValue, couponCode string)
}
