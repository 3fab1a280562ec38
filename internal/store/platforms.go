package store

import (
	"context"

	"ludotheque/internal/metadata"
)

// PlatformRepository persists platforms and their logos.
type PlatformRepository struct {
	store *Store
}

// Save writes the logo if absent, then upserts the platform row.
func (r *PlatformRepository) Save(ctx context.Context, platform *metadata.Platform) error {
	if platform == nil {
		return nil
	}
	ctx = ensureContext(ctx)
	return r.store.InTx(ctx, func(q Querier) error {
		if err := newLookups(q).PlatformLogos.Save(ctx, platform.Logo); err != nil {
			return err
		}
		return NewRepository(q, platformDescriptor).Upsert(ctx, platform)
	})
}

// Load returns the platform with its logo, or nil when absent.
func (r *PlatformRepository) Load(ctx context.Context, id uint64, translated bool) (*metadata.Platform, error) {
	ctx = ensureContext(ctx)
	platform, err := loadOne(ctx, NewRepository(r.store.db, platformDescriptor), id, translated)
	if err != nil || platform == nil {
		return platform, err
	}
	if platform.Logo != nil {
		if platform.Logo, err = newLookups(r.store.db).PlatformLogos.Load(ctx, platform.Logo.ID); err != nil {
			return nil, err
		}
	}
	return platform, nil
}

// All lists every stored platform.
func (r *PlatformRepository) All(ctx context.Context) ([]metadata.Platform, error) {
	return NewRepository(r.store.db, platformDescriptor).All(ensureContext(ctx))
}

// Translate writes the platform's translated name and summary.
func (r *PlatformRepository) Translate(ctx context.Context, platform *metadata.Platform) error {
	return NewRepository(r.store.db, platformDescriptor).Translate(ensureContext(ctx), platform)
}

// Delete removes the platform row. Game edges hold bare ids and are kept.
func (r *PlatformRepository) Delete(ctx context.Context, id uint64) error {
	return NewRepository(r.store.db, platformDescriptor).Delete(ensureContext(ctx), id)
}
