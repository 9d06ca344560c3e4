package postgres

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"gradglow/internal/common"
	"gradglow/internal/domain/application"
	"gradglow/internal/domain/listing"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// Row types isolate the column layout from the domain shapes. Optional
// columns are nullable here and become "" on the domain side; the domain
// never sees sql.Null values.

type listingRow struct {
	ID                 string
	RecruiterID        string
	Title              string
	Company            string
	Location           string
	Category           string
	Description        string
	Requirements       []string
	Salary             sql.NullString
	Duration           string
	Website            sql.NullString
	LogoURL            sql.NullString
	Deadline           time.Time
	IsRemote           bool
	CompanyDescription sql.NullString
	CreatedAt          time.Time
}

func (r listingRow) toListing() listing.Listing {
	return listing.Listing{
		ID:           common.UUID(r.ID),
		RecruiterID:  common.UUID(r.RecruiterID),
		Title:        r.Title,
		Company:      r.Company,
		Location:     r.Location,
		// Cast without validation: unrecognized categories pass through.
		Category:           listing.Category(r.Category),
		Description:        r.Description,
		Requirements:       r.Requirements,
		Salary:             r.Salary.String,
		Duration:           r.Duration,
		Website:            r.Website.String,
		LogoURL:            r.LogoURL.String,
		Deadline:           r.Deadline,
		IsRemote:           r.IsRemote,
		CompanyDescription: r.CompanyDescription.String,
		CreatedAt:          r.CreatedAt,
	}
}

type applicationRow struct {
	ID                 string
	InternshipID       string
	StudentID          string
	StudentName        sql.NullString
	Status             string
	ResumeURL          sql.NullString
	CoverLetter        sql.NullString
	LinkedinURL        sql.NullString
	PortfolioURL       sql.NullString
	WhyInterested      sql.NullString
	RelevantExperience sql.NullString
	InternshipTitle    string
	InternshipCompany  string
	CreatedAt          time.Time
}

func (r applicationRow) toApplication() application.Application {
	questions := map[string]string{
		application.QuestionInternshipTitle: r.InternshipTitle,
		application.QuestionCompany:         r.InternshipCompany,
	}
	putQuestion(questions, application.QuestionLinkedIn, r.LinkedinURL)
	putQuestion(questions, application.QuestionPortfolio, r.PortfolioURL)
	putQuestion(questions, application.QuestionWhyInterested, r.WhyInterested)
	putQuestion(questions, application.QuestionRelevantExperience, r.RelevantExperience)
	return application.Application{
		ID:                  common.UUID(r.ID),
		InternshipID:        common.UUID(r.InternshipID),
		StudentID:           common.UUID(r.StudentID),
		StudentName:         r.StudentName.String,
		Status:              application.Status(r.Status),
		ResumeURL:           r.ResumeURL.String,
		CoverLetter:         r.CoverLetter.String,
		AdditionalQuestions: questions,
		CreatedAt:           r.CreatedAt,
	}
}

func putQuestion(questions map[string]string, key string, value sql.NullString) {
	if value.Valid && value.String != "" {
		questions[key] = value.String
	}
}

// nullable converts "" back to NULL so the two absence representations do not
// mix inside the database.
func nullable(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}
