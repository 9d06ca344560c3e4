package application

import (
	"time"

	"gradglow/internal/common"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusReviewing Status = "reviewing"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
)

func IsKnownStatus(status Status) bool {
	switch status {
	case StatusPending, StatusReviewing, StatusAccepted, StatusRejected:
		return true
	default:
		return false
	}
}

// Application is a student's submission against one listing. InternshipID is
// the join key; Title and Company are a denormalized display copy written at
// insert time.
type Application struct {
	ID                  common.UUID       `json:"id"`
	InternshipID        common.UUID       `json:"internship_id"`
	StudentID           common.UUID       `json:"student_id"`
	StudentName         string            `json:"student_name,omitempty"`
	Status              Status            `json:"status"`
	ResumeURL           string            `json:"resume_url,omitempty"`
	CoverLetter         string            `json:"cover_letter,omitempty"`
	AdditionalQuestions map[string]string `json:"additional_questions,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
}

// Keys of AdditionalQuestions that are stored in dedicated columns.
const (
	QuestionLinkedIn           = "linkedIn"
	QuestionPortfolio          = "portfolio"
	QuestionWhyInterested      = "whyInterested"
	QuestionRelevantExperience = "relevantExperience"
	QuestionInternshipTitle    = "internshipTitle"
	QuestionCompany            = "company"
)
