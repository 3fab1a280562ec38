package store

import (
	"context"
	"strconv"

	"ludotheque/internal/metadata"
	"ludotheque/internal/services"
)

// CompanyRepository persists companies and their game_companies edges.
type CompanyRepository struct {
	store *Store
}

// Save writes the logo if absent, upserts the company row, and replaces its
// edges. A game listed as both published and developed ends up with both flags.
func (r *CompanyRepository) Save(ctx context.Context, company *metadata.Company) error {
	if company == nil {
		return nil
	}
	ctx = ensureContext(ctx)
	return r.store.InTx(ctx, func(q Querier) error {
		if err := newLookups(q).CompanyLogos.Save(ctx, company.Logo); err != nil {
			return err
		}
		if err := NewRepository(q, companyDescriptor).Upsert(ctx, company); err != nil {
			return err
		}
		if err := deleteCompanyEdges(ctx, q, company.ID); err != nil {
			return err
		}
		const insert = `INSERT INTO game_companies (game_id, company_id, developed, published)
VALUES (?, ?, ?, ?)
ON CONFLICT(game_id, company_id) DO UPDATE SET
    developed = developed OR excluded.developed,
    published = published OR excluded.published`
		passes := []struct {
			ids       []uint64
			developed bool
			published bool
		}{
			{company.Published, false, true},
			{company.Developed, true, false},
		}
		for _, pass := range passes {
			for _, gameID := range pass.ids {
				if err := retryOnBusy(ctx, func() error {
					_, err := q.ExecContext(ctx, insert, gameID, company.ID, pass.developed, pass.published)
					return err
				}); err != nil {
					return services.Wrap(services.ErrStoreWrite, "game_companies", "insert edge", strconv.FormatUint(company.ID, 10), err)
				}
			}
		}
		return nil
	})
}

// Load returns the company with Developed and Published derived from its edges.
func (r *CompanyRepository) Load(ctx context.Context, id uint64) (*metadata.Company, error) {
	return r.load(ensureContext(ctx), id, false)
}

// LoadTranslated is Load with the translated overlay applied.
func (r *CompanyRepository) LoadTranslated(ctx context.Context, id uint64) (*metadata.Company, error) {
	return r.load(ensureContext(ctx), id, true)
}

func (r *CompanyRepository) load(ctx context.Context, id uint64, translated bool) (*metadata.Company, error) {
	q := r.store.db
	company, err := loadOne(ctx, NewRepository(q, companyDescriptor), id, translated)
	if err != nil || company == nil {
		return company, err
	}
	if company.Logo != nil {
		if company.Logo, err = newLookups(q).CompanyLogos.Load(ctx, company.Logo.ID); err != nil {
			return nil, err
		}
	}

	rows, err := q.QueryContext(ctx, `SELECT game_id, developed, published FROM game_companies WHERE company_id = ? ORDER BY rowid`, id)
	if err != nil {
		return nil, services.Wrap(services.ErrStoreRead, "game_companies", "load edges", strconv.FormatUint(id, 10), err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			gameID               uint64
			developed, published bool
		)
		if err := rows.Scan(&gameID, &developed, &published); err != nil {
			return nil, services.Wrap(services.ErrStoreRead, "game_companies", "load edges", "scan", err)
		}
		if developed {
			company.Developed = append(company.Developed, gameID)
		}
		if published {
			company.Published = append(company.Published, gameID)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrStoreRead, "game_companies", "load edges", "", err)
	}
	return company, nil
}

// ForGame returns the companies linked to a game, in edge order.
func (r *CompanyRepository) ForGame(ctx context.Context, gameID uint64, translated bool) ([]metadata.Company, error) {
	ctx = ensureContext(ctx)
	rows, err := r.store.db.QueryContext(ctx, `SELECT company_id FROM game_companies WHERE game_id = ? ORDER BY rowid`, gameID)
	if err != nil {
		return nil, services.Wrap(services.ErrStoreRead, "game_companies", "load by game", strconv.FormatUint(gameID, 10), err)
	}
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, services.Wrap(services.ErrStoreRead, "game_companies", "load by game", "scan", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrStoreRead, "game_companies", "load by game", "", err)
	}

	out := make([]metadata.Company, 0, len(ids))
	for _, id := range ids {
		company, err := r.load(ctx, id, translated)
		if err != nil {
			return nil, err
		}
		if company != nil {
			out = append(out, *company)
		}
	}
	return out, nil
}

// Translate writes the company's translated name and description.
func (r *CompanyRepository) Translate(ctx context.Context, company *metadata.Company) error {
	return NewRepository(r.store.db, companyDescriptor).Translate(ensureContext(ctx), company)
}

// Delete removes the company's edges and then the company row.
func (r *CompanyRepository) Delete(ctx context.Context, id uint64) error {
	ctx = ensureContext(ctx)
	return r.store.InTx(ctx, func(q Querier) error {
		if err := deleteCompanyEdges(ctx, q, id); err != nil {
			return err
		}
		return NewRepository(q, companyDescriptor).Delete(ctx, id)
	})
}

func deleteCompanyEdges(ctx context.Context, q Querier, id uint64) error {
	if err := retryOnBusy(ctx, func() error {
		_, err := q.ExecContext(ctx, `DELETE FROM game_companies WHERE company_id = ?`, id)
		return err
	}); err != nil {
		return services.Wrap(services.ErrStoreWrite, "game_companies", "clear edges", strconv.FormatUint(id, 10), err)
	}
	return nil
}
