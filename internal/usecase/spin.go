package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/logger"

	"github.com/promokit/lucky-wheel/internal/domain"
	"github.com/promokit/lucky-wheel/internal/engine"
	"github.com/promokit/lucky-wheel/internal/repository"
)

// SpinService runs the full draw pipeline: eligibility gate, catalog
// snapshot, wheel draw, transactional recording, then coupon issuance and
// event publishing. Recording always happens before the external coupon call
// so a slow or failing commerce platform never loses a draw.
type SpinService struct {
	store     repository.Store
	wheel     *engine.Wheel
	issuer    CouponIssuer
	publisher EventPublisher
	loc       *time.Location

	now func() time.Time
	rnd func() float64
}

func NewSpinService(store repository.Store, wheel *engine.Wheel, issuer CouponIssuer, publisher EventPublisher, loc *time.Location) *SpinService {
	if loc == nil {
		loc = time.Local
	}
	return &SpinService{
		store:     store,
		wheel:     wheel,
		issuer:    issuer,
		publisher: publisher,
		loc:       loc,
		now:       time.Now,
		rnd:       rand.Float64,
	}
}

func (s *SpinService) ListPrizes(ctx context.Context) ([]domain.Prize, error) {
	return s.store.ListPrizes(ctx)
}

// Spin performs one draw for the given user.
//
// The gate is read-then-decide: two simultaneous requests from the same user
// can both observe "eligible" before either spin is persisted. That race is a
// known property of the promotional mechanic, accepted instead of a
// per-user serialization or a (user, day) uniqueness constraint.
func (s *SpinService) Spin(ctx context.Context, userID string) (*domain.DrawOutcome, error) {
	if userID == "" {
		return nil, domain.ErrMissingUserID
	}

	if err := s.checkEligibility(ctx, userID); err != nil {
		return nil, err
	}

	prizes, err := s.store.ListPrizes(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	catalog := make(map[string]domain.Prize, len(prizes))
	for _, p := range prizes {
		catalog[p.Value] = p
	}

	value := s.wheel.Draw(catalog, s.rnd)

	if err := s.record(ctx, userID, value); err != nil {
		return nil, fmt.Errorf("record spin: %w", err)
	}

	outcome := &domain.DrawOutcome{
		PrizeValue: value,
		PrizeName:  prizeName(catalog, value),
	}

	if domain.IsDiscount(value) {
		code, err := s.issuer.IssueCoupon(ctx, value)
		if err != nil {
			logger.Errorf("coupon issuance failed for user %s, prize %s: %v", userID, value, err)
		} else {
			outcome.CouponCode = code
		}
	}

	s.publisher.PublishSpin(ctx, userID, value, outcome.CouponCode)

	return outcome, nil
}

func (s *SpinService) checkEligibility(ctx context.Context, userID string) error {
	last, err := s.store.LastSpinAt(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNoSpins) {
			return nil
		}
		return fmt.Errorf("fetch last spin: %w", err)
	}
	if engine.SameCalendarDay(last, s.now(), s.loc) {
		return domain.ErrAlreadyPlayed
	}
	return nil
}

// record appends the spin event and, for gifts, decrements stock in the same
// transaction. The decrement is conditional and clamped at zero in SQL; zero
// rows affected just means the last unit went to a concurrent winner.
func (s *SpinService) record(ctx context.Context, userID, value string) error {
	return s.store.ExecTx(ctx, func(q repository.Querier) error {
		if _, err := q.InsertSpin(ctx, userID, value); err != nil {
			return err
		}
		if domain.IsGift(value) {
			if _, err := q.DecrementStock(ctx, value); err != nil {
				return err
			}
		}
		return nil
	})
}

func prizeName(catalog map[string]domain.Prize, value string) string {
	if p, ok := catalog[value]; ok {
		return p.Name
	}
	return value
}
