package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/keygate/internal/keygate/domain"
	"github.com/aussiebroadwan/keygate/internal/keygate/store/drivers/sqlite/gen"
)

type keysRepo struct {
	q *gen.Queries
}

func (r *keysRepo) CreateKey(ctx context.Context, k domain.Key) error {
	return mapErr(r.q.CreateLicenseKey(ctx, gen.CreateLicenseKeyParams{
		ID:              k.ID,
		Token:           k.Token,
		OwnerID:         mapStringNull(k.OwnerID),
		DurationSeconds: int64(k.Duration / time.Second),
		IsActive:        k.Active,
		CreatedAt:       k.CreatedAt.UTC(),
		ActivatedAt:     mapOptionalTime(k.ActivatedAt),
		ExpiresAt:       mapOptionalTime(k.ExpiresAt),
		UpdatedAt:       k.UpdatedAt.UTC(),
	}))
}

func (r *keysRepo) GetKeyByID(ctx context.Context, id string) (domain.Key, error) {
	row, err := r.q.GetLicenseKeyByID(ctx, id)
	if err != nil {
		return domain.Key{}, mapErr(err)
	}
	return mapKey(row), nil
}

func (r *keysRepo) GetKeyByToken(ctx context.Context, token string) (domain.Key, error) {
	row, err := r.q.GetLicenseKeyByToken(ctx, token)
	if err != nil {
		return domain.Key{}, mapErr(err)
	}
	return mapKey(row), nil
}

// ClaimKey is a compare-and-set on owner_id IS NULL.
func (r *keysRepo) ClaimKey(
	ctx context.Context,
	id, ownerID string,
	activatedAt, expiresAt time.Time,
) (bool, error) {
	n, err := r.q.ClaimLicenseKey(ctx, gen.ClaimLicenseKeyParams{
		OwnerID:     mapStringNull(ownerID),
		ActivatedAt: nullTime(activatedAt),
		ExpiresAt:   nullTime(expiresAt),
		UpdatedAt:   activatedAt.UTC(),
		ID:          id,
	})
	if err != nil {
		return false, mapErr(err)
	}
	return n == 1, nil
}

func (r *keysRepo) SetKeyActive(ctx context.Context, id string, active bool, now time.Time) (int64, error) {
	n, err := r.q.SetLicenseKeyActive(ctx, gen.SetLicenseKeyActiveParams{
		IsActive:  active,
		UpdatedAt: now.UTC(),
		ID:        id,
	})
	return n, mapErr(err)
}

func (r *keysRepo) DeleteKey(ctx context.Context, id string) (int64, error) {
	n, err := r.q.DeleteLicenseKey(ctx, id)
	return n, mapErr(err)
}

func (r *keysRepo) ListKeysByOwner(ctx context.Context, ownerID string) ([]domain.Key, error) {
	rows, err := r.q.ListLicenseKeysByOwner(ctx, mapStringNull(ownerID))
	if err != nil {
		return nil, mapErr(err)
	}
	out := make([]domain.Key, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapKey(row))
	}
	return out, nil
}

func (r *keysRepo) ListKeys(ctx context.Context) ([]domain.Key, error) {
	rows, err := r.q.ListLicenseKeys(ctx)
	if err != nil {
		return nil, mapErr(err)
	}
	out := make([]domain.Key, 0, len(rows))
	for _, row := range rows {
		k := mapKey(gen.LicenseKey{
			ID:              row.ID,
			Token:           row.Token,
			OwnerID:         row.OwnerID,
			DurationSeconds: row.DurationSeconds,
			IsActive:        row.IsActive,
			CreatedAt:       row.CreatedAt,
			ActivatedAt:     row.ActivatedAt,
			ExpiresAt:       row.ExpiresAt,
			UpdatedAt:       row.UpdatedAt,
		})
		k.OwnerHandle = mapNullString(row.OwnerHandle)
		out = append(out, k)
	}
	return out, nil
}

func (r *keysRepo) HasValidKey(ctx context.Context, ownerID string, now time.Time) (bool, error) {
	n, err := r.q.CountValidLicenseKeys(ctx, gen.CountValidLicenseKeysParams{
		OwnerID: mapStringNull(ownerID),
		Now:     nullTime(now),
	})
	if err != nil {
		return false, mapErr(err)
	}
	return n > 0, nil
}

func (r *keysRepo) DeleteKeysForCleanup(ctx context.Context, f domain.CleanupFilter, now time.Time) (int64, error) {
	n, err := r.q.DeleteLicenseKeysForCleanup(ctx, gen.DeleteLicenseKeysForCleanupParams{
		Cutoff:         f.Cutoff.UTC(),
		IncludeExpired: f.IncludeExpired,
		Now:            nullTime(now),
		IncludeRevoked: f.IncludeRevoked,
	})
	return n, mapErr(err)
}

func (r *keysRepo) KeyStats(ctx context.Context, now time.Time) (domain.KeyStats, error) {
	now = now.UTC()
	day := 24 * time.Hour
	row, err := r.q.LicenseKeyStats(ctx, gen.LicenseKeyStatsParams{
		Now:        nullTime(now),
		Cutoff30d:  now.Add(-30 * day),
		Cutoff90d:  now.Add(-90 * day),
		Cutoff180d: now.Add(-180 * day),
	})
	if err != nil {
		return domain.KeyStats{}, mapErr(err)
	}
	return domain.KeyStats{
		Total:         int(row.Total),
		Expired:       int(row.Expired),
		Revoked:       int(row.Revoked),
		OlderThan30d:  int(row.OlderThan30d),
		OlderThan90d:  int(row.OlderThan90d),
		OlderThan180d: int(row.OlderThan180d),
		GeneratedAt:   now,
	}, nil
}

func mapKey(row gen.LicenseKey) domain.Key {
	return domain.Key{
		ID:          row.ID,
		Token:       row.Token,
		OwnerID:     mapNullString(row.OwnerID),
		Duration:    time.Duration(row.DurationSeconds) * time.Second,
		Active:      row.IsActive,
		CreatedAt:   row.CreatedAt.UTC(),
		ActivatedAt: mapNullTimePtr(row.ActivatedAt),
		ExpiresAt:   mapNullTimePtr(row.ExpiresAt),
		UpdatedAt:   row.UpdatedAt.UTC(),
	}
}
