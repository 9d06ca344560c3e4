package handlers

import (
	"net/http"
	"time"

	"gradglow/internal/common"
	"gradglow/internal/domain/application"
	"gradglow/internal/domain/session"
	"gradglow/internal/http/middleware"
	"gradglow/internal/http/response"
	"gradglow/internal/store"
)

type ApplicationHandler struct {
	stores      *store.Manager
	limiter     middleware.Limiter
	applyLimit  int
	applyWindow time.Duration
}

func NewApplicationHandler(stores *store.Manager, limiter middleware.Limiter, applyLimit int, applyWindow time.Duration) *ApplicationHandler {
	return &ApplicationHandler{stores: stores, limiter: limiter, applyLimit: applyLimit, applyWindow: applyWindow}
}

type applyRequest struct {
	InternshipID        string            `json:"internship_id"`
	ResumeURL           string            `json:"resume_url"`
	CoverLetter         string            `json:"cover_letter"`
	AdditionalQuestions map[string]string `json:"additional_questions"`
}

func (h *ApplicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req applyRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	internshipID, err := common.ParseUUID(req.InternshipID)
	if err != nil {
		response.Error(w, common.NewError(common.CodeValidation, "invalid internship_id", err))
		return
	}
	if h.limiter != nil && !h.limiter.Allow("apply:"+session.UserID(sess).String(), h.applyLimit, h.applyWindow) {
		response.Error(w, common.NewError(common.CodeRateLimited, "too many applications, slow down", nil))
		return
	}
	created, err := h.stores.GetOrCreate(r.Context(), sess).ApplyForInternship(r.Context(), internshipID, application.SubmissionInput{
		ResumeURL:           req.ResumeURL,
		CoverLetter:         req.CoverLetter,
		AdditionalQuestions: req.AdditionalQuestions,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

// List returns the role-scoped view: a student sees their own applications,
// a recruiter sees the applications against their listings.
func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	st := h.stores.GetOrCreate(r.Context(), sess)
	var items []application.Application
	switch sess.(type) {
	case session.Student:
		items = st.StudentApplications()
	case session.Recruiter:
		items = st.RecruiterApplications()
	}
	if items == nil {
		items = []application.Application{}
	}
	response.JSON(w, http.StatusOK, items)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *ApplicationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	applicationID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if err := h.stores.GetOrCreate(r.Context(), sess).UpdateApplicationStatus(r.Context(), applicationID, application.Status(req.Status)); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusNoContent, nil)
}
