package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"gradglow/internal/common"
	"gradglow/internal/domain/listing"
)

const listingColumns = `id, recruiter_id, title, company, location, category, description, requirements, salary, duration, website, logo_url, deadline, is_remote, company_description, created_at`

type ListingRepository struct {
	db *sql.DB
}

func NewListingRepository(db *sql.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

func (r *ListingRepository) List(ctx context.Context) ([]listing.Listing, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+listingColumns+` FROM internship_listings ORDER BY created_at DESC`)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list internships", err)
	}
	defer rows.Close()
	return scanListings(rows)
}

func (r *ListingRepository) ListByRecruiter(ctx context.Context, recruiterID common.UUID) ([]listing.Listing, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+listingColumns+` FROM internship_listings WHERE recruiter_id = $1 ORDER BY created_at DESC`, recruiterID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list recruiter internships", err)
	}
	defer rows.Close()
	return scanListings(rows)
}

func (r *ListingRepository) Create(ctx context.Context, l listing.Listing, recruiterID common.UUID) (*listing.Listing, error) {
	l.ID = common.NewUUID()
	// The owner always comes from the authenticated caller.
	l.RecruiterID = recruiterID
	l.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `INSERT INTO internship_listings (id, recruiter_id, title, company, location, category, description, requirements, salary, duration, website, logo_url, deadline, is_remote, company_description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		l.ID, l.RecruiterID, l.Title, l.Company, l.Location, l.Category, l.Description, pq.Array(l.Requirements),
		nullable(l.Salary), l.Duration, nullable(l.Website), nullable(l.LogoURL), l.Deadline, l.IsRemote, nullable(l.CompanyDescription), l.CreatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create internship", err)
	}
	return &l, nil
}

func (r *ListingRepository) Delete(ctx context.Context, id, recruiterID common.UUID) error {
	// Scoped by owner; zero rows affected is not an error.
	_, err := r.db.ExecContext(ctx, `DELETE FROM internship_listings WHERE id = $1 AND recruiter_id = $2`, id, recruiterID)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to delete internship", err)
	}
	return nil
}

func scanListings(rows *sql.Rows) ([]listing.Listing, error) {
	var items []listing.Listing
	for rows.Next() {
		var lr listingRow
		if err := rows.Scan(&lr.ID, &lr.RecruiterID, &lr.Title, &lr.Company, &lr.Location, &lr.Category, &lr.Description,
			pq.Array(&lr.Requirements), &lr.Salary, &lr.Duration, &lr.Website, &lr.LogoURL, &lr.Deadline, &lr.IsRemote, &lr.CompanyDescription, &lr.CreatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan internship", err)
		}
		items = append(items, lr.toListing())
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to read internships", err)
	}
	return items, nil
}
