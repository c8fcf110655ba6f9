package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

var (
	ErrMissingUserID = errors.New("user id is required")
	ErrAlreadyPlayed = errors.New("user has already played today")
	ErrNoSpins       = errors.New("no spins recorded for user")
)

// NoWinValue is the sentinel prize value for a losing spin. It is always a
// valid outcome even when absent from the catalog.
const NoWinValue = "nothing"

// GiftPrefix marks physical-gift prize values. Gifts are the only prizes
// backed by finite stock.
const GiftPrefix = "CADEAU"

var discountPattern = regexp.MustCompile(`^-(\d+)%$`)

// Prize is a catalog row. Stock is nil for prizes with unlimited supply
// (discounts and the no-win sentinel).
type Prize struct {
	ID    int32
	Value string
	Name  string
	Stock *int32
}

// Spin is one recorded draw. Rows are append-only.
type Spin struct {
	ID         int64
	UserID     string
	PrizeValue string
	CreatedAt  time.Time
}

// DrawOutcome is what the caller gets back from a spin. CouponCode is empty
// unless the prize is a discount and issuance succeeded.
type DrawOutcome struct {
	PrizeValue string
	PrizeName  string
	CouponCode string
}

// IsGift reports whether a prize value denotes a physical gift.
func IsGift(value string) bool {
	return strings.HasPrefix(value, GiftPrefix)
}

// IsDiscount reports whether a prize value denotes a percentage discount,
// e.g. "-10%".
func IsDiscount(value string) bool {
	return discountPattern.MatchString(value)
}

// DiscountPercent extracts the percentage from a discount prize value.
// Returns 0 for non-discount values.
func DiscountPercent(value string) int {
	m := discountPattern.FindStringSubmatch(value)
	if m == nil {
		return 0
	}
	pct := 0
	for _, c := range m[1] {
		pct = pct*10 + int(c-'0')
	}
	return pct
}
