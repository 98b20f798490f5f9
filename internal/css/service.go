package css

import (
	"context"
	"fmt"

	"github.com/tripeak/tripeak/internal/profile"
	"github.com/tripeak/tripeak/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=service.go -destination=service_mocks_test.go -package=css_test

type profileUpserter interface {
	Upsert(ctx context.Context, userID int, patch profile.Patch) error
}

type Service struct {
	profiles profileUpserter
}

func NewService(profiles profileUpserter) *Service {
	return &Service{
		profiles: profiles,
	}
}

// UpdateUserCSS persists a user-confirmed CSS onto the profile. Unlike
// the derived-metric caching writes, a failure here propagates: losing
// a confirmed profile update silently would be a correctness bug.
func (s *Service) UpdateUserCSS(ctx context.Context, userID int, css float64) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "css.updateUserCSS")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user_id", userID))

	if css <= 0 {
		return fmt.Errorf("%w: css must be positive", ErrInvalidInput)
	}

	if err := s.profiles.Upsert(ctx, userID, profile.Patch{CSS: &css}); err != nil {
		return fmt.Errorf("update css for user %d: %w", userID, err)
	}
	return nil
}
