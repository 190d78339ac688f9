package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/keygate/internal/keygate/domain"
	"github.com/aussiebroadwan/keygate/internal/keygate/store/drivers/sqlite/gen"
)

type linkCodesRepo struct {
	q *gen.Queries
}

func (r *linkCodesRepo) CreateLinkCode(ctx context.Context, c domain.LinkCode) error {
	return mapErr(r.q.CreateLinkCode(ctx, gen.CreateLinkCodeParams{
		Code:       c.Code,
		IdentityID: c.IdentityID,
		CreatedAt:  c.CreatedAt.UTC(),
		ExpiresAt:  c.ExpiresAt.UTC(),
	}))
}

func (r *linkCodesRepo) GetLinkCode(ctx context.Context, code string) (domain.LinkCode, error) {
	row, err := r.q.GetLinkCode(ctx, code)
	if err != nil {
		return domain.LinkCode{}, mapErr(err)
	}
	return domain.LinkCode{
		Code:       row.Code,
		IdentityID: row.IdentityID,
		CreatedAt:  row.CreatedAt.UTC(),
		ExpiresAt:  row.ExpiresAt.UTC(),
		Used:       row.Used,
	}, nil
}

func (r *linkCodesRepo) MarkLinkCodeUsed(ctx context.Context, code string, now time.Time) (bool, error) {
	n, err := r.q.MarkLinkCodeUsed(ctx, gen.MarkLinkCodeUsedParams{
		Code:      code,
		ExpiresAt: now.UTC(),
	})
	if err != nil {
		return false, mapErr(err)
	}
	return n == 1, nil
}

func (r *linkCodesRepo) DeleteLinkCodesForIdentity(ctx context.Context, identityID string) error {
	return mapErr(r.q.DeleteLinkCodesForIdentity(ctx, identityID))
}

func (r *linkCodesRepo) DeleteStaleLinkCodes(ctx context.Context, now time.Time) (int64, error) {
	n, err := r.q.DeleteStaleLinkCodes(ctx, now.UTC())
	return n, mapErr(err)
}
