package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/keygate/internal/keygate/domain"
	"github.com/aussiebroadwan/keygate/internal/keygate/store/drivers/sqlite/gen"
)

type invitesRepo struct {
	q *gen.Queries
}

func (r *invitesRepo) CreateInvite(ctx context.Context, inv domain.Invite) error {
	return mapErr(r.q.CreateInvite(ctx, gen.CreateInviteParams{
		ID:        inv.ID,
		Code:      inv.Code,
		CreatedBy: inv.CreatedBy,
		CreatedAt: inv.CreatedAt.UTC(),
		ExpiresAt: inv.ExpiresAt.UTC(),
	}))
}

func (r *invitesRepo) GetInviteByID(ctx context.Context, id string) (domain.Invite, error) {
	row, err := r.q.GetInviteByID(ctx, id)
	if err != nil {
		return domain.Invite{}, mapErr(err)
	}
	return mapInvite(row), nil
}

func (r *invitesRepo) GetInviteByCode(ctx context.Context, code string) (domain.Invite, error) {
	row, err := r.q.GetInviteByCode(ctx, code)
	if err != nil {
		return domain.Invite{}, mapErr(err)
	}
	return mapInvite(row), nil
}

func (r *invitesRepo) ConsumeInvite(ctx context.Context, id, consumerID string, now time.Time) (bool, error) {
	n, err := r.q.ConsumeInvite(ctx, gen.ConsumeInviteParams{
		UsedBy:    mapStringNull(consumerID),
		ID:        id,
		ExpiresAt: now.UTC(),
	})
	if err != nil {
		return false, mapErr(err)
	}
	return n == 1, nil
}

func (r *invitesRepo) CountInvitesCreatedSince(ctx context.Context, creatorID string, since time.Time) (int, error) {
	n, err := r.q.CountInvitesCreatedSince(ctx, gen.CountInvitesCreatedSinceParams{
		CreatedBy: creatorID,
		CreatedAt: since.UTC(),
	})
	if err != nil {
		return 0, mapErr(err)
	}
	return int(n), nil
}

func (r *invitesRepo) ListInvites(ctx context.Context) ([]domain.Invite, error) {
	rows, err := r.q.ListInvites(ctx)
	if err != nil {
		return nil, mapErr(err)
	}
	return mapInvites(rows), nil
}

func (r *invitesRepo) ListInvitesByCreator(ctx context.Context, creatorID string) ([]domain.Invite, error) {
	rows, err := r.q.ListInvitesByCreator(ctx, creatorID)
	if err != nil {
		return nil, mapErr(err)
	}
	return mapInvites(rows), nil
}

func (r *invitesRepo) DeleteInvite(ctx context.Context, id string) (int64, error) {
	n, err := r.q.DeleteInvite(ctx, id)
	return n, mapErr(err)
}

func mapInvites(rows []gen.Invite) []domain.Invite {
	out := make([]domain.Invite, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapInvite(row))
	}
	return out
}

func mapInvite(row gen.Invite) domain.Invite {
	return domain.Invite{
		ID:        row.ID,
		Code:      row.Code,
		CreatedBy: row.CreatedBy,
		CreatedAt: row.CreatedAt.UTC(),
		ExpiresAt: row.ExpiresAt.UTC(),
		Used:      row.Used,
		UsedBy:    mapNullString(row.UsedBy),
	}
}
