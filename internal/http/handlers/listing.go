package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"gradglow/internal/common"
	"gradglow/internal/domain/listing"
	"gradglow/internal/http/middleware"
	"gradglow/internal/http/response"
	"gradglow/internal/store"
)

type Logger interface {
	Info(msg string)
	Error(msg string)
}

type ListingHandler struct {
	stores   *store.Manager
	listings listing.Repository
	logger   Logger
}

func NewListingHandler(stores *store.Manager, listings listing.Repository, logger Logger) *ListingHandler {
	return &ListingHandler{stores: stores, listings: listings, logger: logger}
}

// List is the public browse endpoint. A fetch failure degrades to an empty
// collection instead of erroring out.
func (h *ListingHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.listings.List(r.Context())
	if err != nil {
		if h.logger != nil {
			h.logger.Error(fmt.Sprintf("failed to list internships: %v", err))
		}
		items = nil
	}
	if items == nil {
		items = []listing.Listing{}
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	id, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	st := h.stores.GetOrCreate(r.Context(), sess)
	item := st.GetByID(id)
	if item == nil {
		// The public list reads the repository directly, so a listing posted
		// after this store loaded can be browsed but would miss here. Reload
		// once before declaring it gone.
		st.Load(r.Context())
		item = st.GetByID(id)
	}
	if item == nil {
		response.Error(w, common.NewError(common.CodeNotFound, "internship not found", nil))
		return
	}
	response.JSON(w, http.StatusOK, item)
}

// Mine returns the signed-in recruiter's own listings.
func (h *ListingHandler) Mine(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	items := h.stores.GetOrCreate(r.Context(), sess).RecruiterInternships()
	if items == nil {
		items = []listing.Listing{}
	}
	response.JSON(w, http.StatusOK, items)
}

type createListingRequest struct {
	Title              string `json:"title"`
	Company            string `json:"company"`
	Location           string `json:"location"`
	Category           string `json:"category"`
	Description        string `json:"description"`
	Requirements       string `json:"requirements"`
	Salary             string `json:"salary"`
	Duration           string `json:"duration"`
	Website            string `json:"website"`
	LogoURL            string `json:"logo_url"`
	Deadline           string `json:"deadline"`
	IsRemote           bool   `json:"is_remote"`
	CompanyDescription string `json:"company_description"`
}

func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req createListingRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	fields := map[string]string{}
	if req.Title == "" {
		fields["title"] = "title is required"
	}
	if req.Company == "" {
		fields["company"] = "company is required"
	}
	if req.Location == "" {
		fields["location"] = "location is required"
	}
	if req.Description == "" {
		fields["description"] = "description is required"
	}
	if req.Duration == "" {
		fields["duration"] = "duration is required"
	}
	deadline, err := time.Parse(time.RFC3339, req.Deadline)
	if err != nil {
		fields["deadline"] = "deadline must be an RFC3339 timestamp"
	}
	requirements := splitRequirements(req.Requirements)
	if len(requirements) == 0 {
		fields["requirements"] = "at least one requirement is required"
	}
	if len(fields) > 0 {
		response.Error(w, common.NewValidationError("invalid internship", fields))
		return
	}
	created, err := h.stores.GetOrCreate(r.Context(), sess).CreateInternship(r.Context(), listing.Listing{
		Title:              req.Title,
		Company:            req.Company,
		Location:           req.Location,
		Category:           listing.Category(req.Category),
		Description:        req.Description,
		Requirements:       requirements,
		Salary:             req.Salary,
		Duration:           req.Duration,
		Website:            req.Website,
		LogoURL:            req.LogoURL,
		Deadline:           deadline,
		IsRemote:           req.IsRemote,
		CompanyDescription: req.CompanyDescription,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	id, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := h.stores.GetOrCreate(r.Context(), sess).DeleteInternship(r.Context(), id); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusNoContent, nil)
}

// splitRequirements turns the posting form's free text into the ordered list
// of non-empty trimmed lines the repository expects.
func splitRequirements(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
