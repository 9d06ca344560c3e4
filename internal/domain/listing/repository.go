package listing

import (
	"context"

	"gradglow/internal/common"
)

type Repository interface {
	// List returns every listing, newest first.
	List(ctx context.Context) ([]Listing, error)
	// ListByRecruiter returns the listings owned by one recruiter, newest first.
	ListByRecruiter(ctx context.Context, recruiterID common.UUID) ([]Listing, error)
	// Create persists l with a server-assigned id and created_at. RecruiterID
	// is always taken from the argument, never from l.
	Create(ctx context.Context, l Listing, recruiterID common.UUID) (*Listing, error)
	// Delete removes the listing only when it is owned by recruiterID. A
	// non-existent or non-owned id is a silent no-op.
	Delete(ctx context.Context, id, recruiterID common.UUID) error
}
