package kafka

import "time"

const TopicSpinRecorded = "wheel.spin.recorded"

// SpinEvent is the payload published for every recorded spin. Consumers
// (analytics, CRM) get the outcome whether or not a coupon was attached.
type SpinEvent struct {
	SchemaVersion int       `json:"schema_version"`
	EventID       string    `json:"event_id"`
	UserID        string    `json:"user_id"`
	PrizeValue    string    `json:"prize_value"`
	CouponCode    string    `json:"coupon_code,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
