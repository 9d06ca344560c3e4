package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"gradglow/internal/common"
	"gradglow/internal/domain/application"
	"gradglow/internal/domain/listing"
	"gradglow/internal/domain/session"
	"gradglow/internal/domain/user"
	"gradglow/internal/http/middleware"
	"gradglow/internal/store"
)

type fakeListingRepo struct {
	mu    sync.Mutex
	items []listing.Listing
}

func (r *fakeListingRepo) List(ctx context.Context) ([]listing.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]listing.Listing(nil), r.items...), nil
}

func (r *fakeListingRepo) ListByRecruiter(ctx context.Context, recruiterID common.UUID) ([]listing.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []listing.Listing
	for _, l := range r.items {
		if l.RecruiterID == recruiterID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeListingRepo) Create(ctx context.Context, l listing.Listing, recruiterID common.UUID) (*listing.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l.ID = common.NewUUID()
	l.RecruiterID = recruiterID
	l.CreatedAt = time.Now().UTC()
	r.items = append([]listing.Listing{l}, r.items...)
	return &l, nil
}

func (r *fakeListingRepo) Delete(ctx context.Context, id, recruiterID common.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []listing.Listing
	for _, l := range r.items {
		if l.ID == id && l.RecruiterID == recruiterID {
			continue
		}
		kept = append(kept, l)
	}
	r.items = kept
	return nil
}

type fakeApplicationRepo struct{}

func (r *fakeApplicationRepo) ListByStudent(ctx context.Context, studentID common.UUID) ([]application.Application, error) {
	return nil, nil
}

func (r *fakeApplicationRepo) ListByListings(ctx context.Context, listingIDs []common.UUID) ([]application.Application, error) {
	return nil, nil
}

func (r *fakeApplicationRepo) Create(ctx context.Context, l listing.Listing, studentID common.UUID, studentName string, input application.SubmissionInput) (*application.Application, error) {
	return nil, common.NewError(common.CodeInternal, "not implemented", nil)
}

func (r *fakeApplicationRepo) UpdateStatus(ctx context.Context, id common.UUID, status application.Status) error {
	return common.NewError(common.CodeInternal, "not implemented", nil)
}

func getListing(t *testing.T, h *ListingHandler, sess session.Session, id common.UUID) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/internships/"+id.String(), nil)
	req = req.WithContext(middleware.ContextWithSession(req.Context(), sess))
	rec := httptest.NewRecorder()
	h.Get(rec, req)
	return rec
}

func TestListingGet_FindsListingPostedAfterStoreLoaded(t *testing.T) {
	listings := &fakeListingRepo{}
	stores := store.NewManager(listings, &fakeApplicationRepo{}, nil)
	h := NewListingHandler(stores, listings, nil)
	sess := session.Student{User: user.User{ID: common.NewUUID(), Role: user.RoleStudent}}

	// Build and load the student's store while the board is still empty.
	stores.GetOrCreate(context.Background(), sess)

	created, err := listings.Create(context.Background(), listing.Listing{
		Title:    "Backend Intern",
		Company:  "Acme",
		Category: listing.CategoryTech,
	}, common.NewUUID())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	rec := getListing(t, h, sess, created.ID)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for a listing posted after the store loaded, got %d", rec.Code)
	}
	var got listing.Listing
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got.ID != created.ID || got.Title != "Backend Intern" {
		t.Fatalf("unexpected listing: %+v", got)
	}
}

func TestListingGet_UnknownIDIs404(t *testing.T) {
	listings := &fakeListingRepo{}
	stores := store.NewManager(listings, &fakeApplicationRepo{}, nil)
	h := NewListingHandler(stores, listings, nil)
	sess := session.Student{User: user.User{ID: common.NewUUID(), Role: user.RoleStudent}}

	rec := getListing(t, h, sess, common.NewUUID())
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
