package listing

import (
	"time"

	"gradglow/internal/common"
)

// Category is free text at the persistence boundary; these constants cover
// the values the posting form offers. Unrecognized values are passed through
// unchanged rather than rejected.
type Category string

const (
	CategoryTech              Category = "Technology"
	CategoryDesign            Category = "Design"
	CategoryMarketing         Category = "Marketing"
	CategoryBusiness          Category = "Business"
	CategoryFinance           Category = "Finance"
	CategoryEngineering       Category = "Engineering"
	CategoryHealthcare        Category = "Healthcare"
	CategoryEducation         Category = "Education"
	CategorySoftwareDev       Category = "Software Development"
	CategoryDataScience       Category = "Data Science"
	CategoryProductManagement Category = "Product Management"
	CategoryOther             Category = "Other"
)

// Listing is a recruiter-posted internship opportunity. Listings are created
// and deleted, never edited in place.
type Listing struct {
	ID                 common.UUID `json:"id"`
	RecruiterID        common.UUID `json:"recruiter_id"`
	Title              string      `json:"title"`
	Company            string      `json:"company"`
	Location           string      `json:"location"`
	Category           Category    `json:"category"`
	Description        string      `json:"description"`
	Requirements       []string    `json:"requirements"`
	Salary             string      `json:"salary,omitempty"`
	Duration           string      `json:"duration"`
	Website            string      `json:"website,omitempty"`
	LogoURL            string      `json:"logo_url,omitempty"`
	Deadline           time.Time   `json:"deadline"`
	IsRemote           bool        `json:"is_remote"`
	CompanyDescription string      `json:"company_description,omitempty"`
	CreatedAt          time.Time   `json:"created_at"`
}
