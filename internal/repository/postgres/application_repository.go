package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"gradglow/internal/common"
	"gradglow/internal/domain/application"
	"gradglow/internal/domain/listing"
)

const applicationColumns = `id, internship_id, student_id, student_name, status, resume_url, cover_letter, linkedin_url, portfolio_url, why_interested, relevant_experience, internship_title, internship_company, created_at`

type ApplicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) ListByStudent(ctx context.Context, studentID common.UUID) ([]application.Application, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE student_id = $1 ORDER BY created_at DESC`, studentID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list student applications", err)
	}
	defer rows.Close()
	return scanApplications(rows)
}

func (r *ApplicationRepository) ListByListings(ctx context.Context, listingIDs []common.UUID) ([]application.Application, error) {
	if len(listingIDs) == 0 {
		return nil, nil
	}
	ids := make([]string, len(listingIDs))
	for i, id := range listingIDs {
		ids[i] = id.String()
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE internship_id = ANY($1) ORDER BY created_at DESC`, pq.Array(ids))
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list listing applications", err)
	}
	defer rows.Close()
	return scanApplications(rows)
}

func (r *ApplicationRepository) Create(ctx context.Context, l listing.Listing, studentID common.UUID, studentName string, input application.SubmissionInput) (*application.Application, error) {
	// The returned entity carries the same denormalized display keys a later
	// read would produce, so callers never see two shapes.
	questions := map[string]string{
		application.QuestionInternshipTitle: l.Title,
		application.QuestionCompany:         l.Company,
	}
	for key, value := range input.AdditionalQuestions {
		if value != "" {
			questions[key] = value
		}
	}
	app := application.Application{
		ID:                  common.NewUUID(),
		InternshipID:        l.ID,
		StudentID:           studentID,
		StudentName:         studentName,
		Status:              application.StatusPending,
		ResumeURL:           input.ResumeURL,
		CoverLetter:         input.CoverLetter,
		AdditionalQuestions: questions,
		CreatedAt:           time.Now().UTC(),
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO applications (id, internship_id, student_id, student_name, status, resume_url, cover_letter, linkedin_url, portfolio_url, why_interested, relevant_experience, internship_title, internship_company, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		app.ID, app.InternshipID, app.StudentID, nullable(studentName), app.Status,
		nullable(input.ResumeURL), nullable(input.CoverLetter),
		nullable(input.AdditionalQuestions[application.QuestionLinkedIn]),
		nullable(input.AdditionalQuestions[application.QuestionPortfolio]),
		nullable(input.AdditionalQuestions[application.QuestionWhyInterested]),
		nullable(input.AdditionalQuestions[application.QuestionRelevantExperience]),
		l.Title, l.Company, app.CreatedAt)
	if err != nil {
		// The unique (student_id, internship_id) index is the backstop for
		// submissions that race past the in-memory check.
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "already applied for this internship", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create application", err)
	}
	return &app, nil
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id common.UUID, status application.Status) error {
	result, err := r.db.ExecContext(ctx, `UPDATE applications SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to update application status", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return common.NewError(common.CodeNotFound, "application not found", sql.ErrNoRows)
	}
	return nil
}

func scanApplications(rows *sql.Rows) ([]application.Application, error) {
	var items []application.Application
	for rows.Next() {
		var ar applicationRow
		if err := rows.Scan(&ar.ID, &ar.InternshipID, &ar.StudentID, &ar.StudentName, &ar.Status, &ar.ResumeURL, &ar.CoverLetter,
			&ar.LinkedinURL, &ar.PortfolioURL, &ar.WhyInterested, &ar.RelevantExperience, &ar.InternshipTitle, &ar.InternshipCompany, &ar.CreatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan application", err)
		}
		items = append(items, ar.toApplication())
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to read applications", err)
	}
	return items, nil
}
