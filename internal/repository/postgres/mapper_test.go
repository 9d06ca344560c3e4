package postgres

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradglow/internal/domain/application"
	"gradglow/internal/domain/listing"
)

func TestListingRowToListing(t *testing.T) {
	deadline := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	row := listingRow{
		ID:           "L1",
		RecruiterID:  "r1",
		Title:        "Backend Intern",
		Company:      "Acme",
		Location:     "Berlin",
		Category:     "Technology",
		Description:  "desc",
		Requirements: []string{"Go", "SQL"},
		Salary:       sql.NullString{String: "1000 EUR", Valid: true},
		Duration:     "3 months",
		Deadline:     deadline,
		IsRemote:     true,
	}

	got := row.toListing()
	assert.Equal(t, listing.CategoryTech, got.Category)
	assert.Equal(t, "1000 EUR", got.Salary)
	assert.Equal(t, []string{"Go", "SQL"}, got.Requirements)
	assert.Equal(t, deadline, got.Deadline)
	assert.True(t, got.IsRemote)
	// NULL optionals become empty strings, never a sentinel.
	assert.Empty(t, got.Website)
	assert.Empty(t, got.LogoURL)
	assert.Empty(t, got.CompanyDescription)
}

func TestListingRowToListing_UnknownCategoryPassesThrough(t *testing.T) {
	row := listingRow{Category: "Quantum Basket Weaving"}
	assert.Equal(t, listing.Category("Quantum Basket Weaving"), row.toListing().Category)
}

func TestApplicationRowToApplication(t *testing.T) {
	row := applicationRow{
		ID:                "A1",
		InternshipID:      "L1",
		StudentID:         "s1",
		StudentName:       sql.NullString{String: "Jane Doe", Valid: true},
		Status:            "reviewing",
		ResumeURL:         sql.NullString{String: "https://r.example/cv", Valid: true},
		LinkedinURL:       sql.NullString{String: "https://linkedin.example/jane", Valid: true},
		WhyInterested:     sql.NullString{String: "I like Go", Valid: true},
		InternshipTitle:   "Backend Intern",
		InternshipCompany: "Acme",
	}

	got := row.toApplication()
	require.NotNil(t, got.AdditionalQuestions)
	assert.Equal(t, application.StatusReviewing, got.Status)
	assert.Equal(t, "Backend Intern", got.AdditionalQuestions[application.QuestionInternshipTitle])
	assert.Equal(t, "Acme", got.AdditionalQuestions[application.QuestionCompany])
	assert.Equal(t, "https://linkedin.example/jane", got.AdditionalQuestions[application.QuestionLinkedIn])
	assert.Equal(t, "I like Go", got.AdditionalQuestions[application.QuestionWhyInterested])
	// Empty optionals must not appear as keys at all.
	assert.NotContains(t, got.AdditionalQuestions, application.QuestionPortfolio)
	assert.NotContains(t, got.AdditionalQuestions, application.QuestionRelevantExperience)
}

func TestApplicationRowToApplication_DenormalizedFieldsAlwaysPresent(t *testing.T) {
	got := applicationRow{InternshipTitle: "X", InternshipCompany: "Y"}.toApplication()
	assert.Len(t, got.AdditionalQuestions, 2)
	assert.Equal(t, "X", got.AdditionalQuestions[application.QuestionInternshipTitle])
	assert.Equal(t, "Y", got.AdditionalQuestions[application.QuestionCompany])
}

func TestNullable(t *testing.T) {
	assert.Equal(t, sql.NullString{}, nullable(""))
	assert.Equal(t, sql.NullString{String: "x", Valid: true}, nullable("x"))
}
