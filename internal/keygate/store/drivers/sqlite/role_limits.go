package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/keygate/internal/keygate/domain"
	"github.com/aussiebroadwan/keygate/internal/keygate/store/drivers/sqlite/gen"
)

type roleLimitsRepo struct {
	q *gen.Queries
}

func (r *roleLimitsRepo) GetRoleLimits(ctx context.Context) (domain.RoleLimits, error) {
	row, err := r.q.GetRoleLimits(ctx)
	if err != nil {
		return domain.RoleLimits{}, mapErr(err)
	}
	return domain.RoleLimits{
		Admin:     int(row.AdminLimit),
		Support:   int(row.SupportLimit),
		User:      int(row.UserLimit),
		UpdatedAt: row.UpdatedAt.UTC(),
	}, nil
}

func (r *roleLimitsRepo) EnsureRoleLimits(ctx context.Context, defaults domain.RoleLimits) error {
	updated := defaults.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	return mapErr(r.q.InsertRoleLimitsIfAbsent(ctx, gen.InsertRoleLimitsIfAbsentParams{
		AdminLimit:   int64(defaults.Admin),
		SupportLimit: int64(defaults.Support),
		UserLimit:    int64(defaults.User),
		UpdatedAt:    updated.UTC(),
	}))
}

func (r *roleLimitsRepo) UpdateRoleLimits(ctx context.Context, l domain.RoleLimits) error {
	n, err := r.q.UpdateRoleLimits(ctx, gen.UpdateRoleLimitsParams{
		AdminLimit:   int64(l.Admin),
		SupportLimit: int64(l.Support),
		UserLimit:    int64(l.User),
		UpdatedAt:    l.UpdatedAt.UTC(),
	})
	return affectedOne(n, err)
}
