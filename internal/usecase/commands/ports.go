package commands

import (
	"context"

	"barberbook/internal/domain/policy"
	"barberbook/internal/domain/promotion"
	"barberbook/internal/infra"
	"barberbook/internal/pkg/config"
	"barberbook/internal/usecase/shared"

	"github.com/google/uuid"
)

// PolicyDefaults supplies rule values for locations without stored policy
// rows. Built once from configuration and injected; commands never read the
// environment.
type PolicyDefaults struct {
	Cancellation policy.Cancellation
	Promotion    promotion.Policy
}

func NewPolicyDefaults(cfg config.BookingConfig) PolicyDefaults {
	return PolicyDefaults{
		Cancellation: policy.Cancellation{
			MinAdvanceNoticeHours: cfg.DefaultMinAdvanceNoticeHours,
		},
		Promotion: promotion.Policy{},
	}
}

func loadCancellationPolicy(ctx context.Context, reads shared.CommandReads, locationID uuid.UUID, defaults PolicyDefaults) (policy.Cancellation, error) {
	snap, err := reads.CancellationPolicyByLocation(ctx, locationID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return defaults.Cancellation, nil
		}
		return policy.Cancellation{}, err
	}
	return policy.Cancellation{
		MinAdvanceNoticeHours:                 snap.MinAdvanceNoticeHours,
		LatePenaltyPercent:                    snap.LatePenaltyPercent,
		MaxUnnotifiedCancellationsBeforeBlock: snap.MaxUnnotifiedCancellationsBeforeBlock,
	}, nil
}

func loadPromotionPolicy(ctx context.Context, reads shared.CommandReads, locationID uuid.UUID, defaults PolicyDefaults) (promotion.Policy, error) {
	snap, err := reads.PromotionPolicyByLocation(ctx, locationID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return defaults.Promotion, nil
		}
		return promotion.Policy{}, err
	}
	return promotion.Policy{
		AllowCouponWithCashback:   snap.AllowCouponWithCashback,
		AllowGiftCardWithCashback: snap.AllowGiftCardWithCashback,
		UsageWindowDays:           snap.UsageWindowDays,
		UsageLimitInWindow:        snap.UsageLimitInWindow,
	}, nil
}
