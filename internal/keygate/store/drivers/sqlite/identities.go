package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/keygate/internal/keygate/domain"
	"github.com/aussiebroadwan/keygate/internal/keygate/store"
	"github.com/aussiebroadwan/keygate/internal/keygate/store/drivers/sqlite/gen"
)

type identitiesRepo struct {
	q *gen.Queries
}

func (r *identitiesRepo) CreateIdentity(ctx context.Context, id domain.Identity) error {
	return mapErr(r.q.CreateIdentity(ctx, gen.CreateIdentityParams{
		ID:             id.ID,
		Handle:         id.Handle,
		PasswordHash:   id.PasswordHash,
		Role:           string(id.Role),
		Banned:         id.Banned,
		ExternalID:     mapStringNull(id.ExternalID),
		ExternalHandle: mapStringNull(id.ExternalHandle),
		InvitedBy:      mapStringNull(id.InvitedBy),
		CreatedAt:      id.CreatedAt.UTC(),
		UpdatedAt:      id.UpdatedAt.UTC(),
	}))
}

func (r *identitiesRepo) GetIdentityByID(ctx context.Context, id string) (domain.Identity, error) {
	row, err := r.q.GetIdentityByID(ctx, id)
	if err != nil {
		return domain.Identity{}, mapErr(err)
	}
	return mapIdentity(row), nil
}

func (r *identitiesRepo) GetIdentityByHandle(ctx context.Context, handle string) (domain.Identity, error) {
	row, err := r.q.GetIdentityByHandle(ctx, handle)
	if err != nil {
		return domain.Identity{}, mapErr(err)
	}
	return mapIdentity(row), nil
}

func (r *identitiesRepo) GetIdentityByExternalID(ctx context.Context, externalID string) (domain.Identity, error) {
	if externalID == "" {
		return domain.Identity{}, store.ErrNotFound
	}
	row, err := r.q.GetIdentityByExternalID(ctx, mapStringNull(externalID))
	if err != nil {
		return domain.Identity{}, mapErr(err)
	}
	return mapIdentity(row), nil
}

func (r *identitiesRepo) UpdateRole(ctx context.Context, id string, role domain.Role, now time.Time) error {
	n, err := r.q.UpdateIdentityRole(ctx, gen.UpdateIdentityRoleParams{
		Role:      string(role),
		UpdatedAt: now.UTC(),
		ID:        id,
	})
	return affectedOne(n, err)
}

func (r *identitiesRepo) SetBanned(ctx context.Context, id string, banned bool, now time.Time) error {
	n, err := r.q.SetIdentityBanned(ctx, gen.SetIdentityBannedParams{
		Banned:    banned,
		UpdatedAt: now.UTC(),
		ID:        id,
	})
	return affectedOne(n, err)
}

func (r *identitiesRepo) LinkExternal(
	ctx context.Context,
	id, externalID, externalHandle string,
	now time.Time,
) error {
	n, err := r.q.LinkIdentityExternal(ctx, gen.LinkIdentityExternalParams{
		ExternalID:     mapStringNull(externalID),
		ExternalHandle: mapStringNull(externalHandle),
		UpdatedAt:      now.UTC(),
		ID:             id,
	})
	return affectedOne(n, err)
}

func (r *identitiesRepo) List(ctx context.Context) ([]domain.Identity, error) {
	rows, err := r.q.ListIdentities(ctx)
	if err != nil {
		return nil, mapErr(err)
	}
	out := make([]domain.Identity, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapIdentity(row))
	}
	return out, nil
}

func (r *identitiesRepo) ListLinked(ctx context.Context) ([]domain.Identity, error) {
	rows, err := r.q.ListLinkedIdentities(ctx)
	if err != nil {
		return nil, mapErr(err)
	}
	out := make([]domain.Identity, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapIdentity(row))
	}
	return out, nil
}

func (r *identitiesRepo) IsEmpty(ctx context.Context) (bool, error) {
	n, err := r.q.CountIdentities(ctx)
	if err != nil {
		return false, mapErr(err)
	}
	return n == 0, nil
}

func affectedOne(n int64, err error) error {
	if err != nil {
		return mapErr(err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func mapIdentity(row gen.Identity) domain.Identity {
	return domain.Identity{
		ID:             row.ID,
		Handle:         row.Handle,
		PasswordHash:   row.PasswordHash,
		Role:           domain.Role(row.Role),
		Banned:         row.Banned,
		ExternalID:     mapNullString(row.ExternalID),
		ExternalHandle: mapNullString(row.ExternalHandle),
		InvitedBy:      mapNullString(row.InvitedBy),
		CreatedAt:      row.CreatedAt.UTC(),
		UpdatedAt:      row.UpdatedAt.UTC(),
	}
}
