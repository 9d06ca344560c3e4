package application

import (
	"context"

	"gradglow/internal/common"
	"gradglow/internal/domain/listing"
)

type SubmissionInput struct {
	ResumeURL           string
	CoverLetter         string
	AdditionalQuestions map[string]string
}

type Repository interface {
	// ListByStudent returns a student's applications, newest first.
	ListByStudent(ctx context.Context, studentID common.UUID) ([]Application, error)
	// ListByListings returns the applications against any of the given
	// listings. An empty id set returns nil without a query.
	ListByListings(ctx context.Context, listingIDs []common.UUID) ([]Application, error)
	// Create inserts a pending application, denormalizing the listing's title
	// and company into the row.
	Create(ctx context.Context, l listing.Listing, studentID common.UUID, studentName string, input SubmissionInput) (*Application, error)
	// UpdateStatus sets the status unconditionally; transitions are not
	// policed at this layer.
	UpdateStatus(ctx context.Context, id common.UUID, status Status) error
}
