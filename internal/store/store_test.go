package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"gradglow/internal/common"
	"gradglow/internal/domain/application"
	"gradglow/internal/domain/listing"
	"gradglow/internal/domain/session"
	"gradglow/internal/domain/user"
)

type fakeListingRepo struct {
	mu      sync.Mutex
	items   []listing.Listing
	listErr error
}

func (r *fakeListingRepo) List(ctx context.Context) ([]listing.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
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

type fakeApplicationRepo struct {
	mu          sync.Mutex
	items       []application.Application
	createCalls int
	statusErr   error
}

func (r *fakeApplicationRepo) ListByStudent(ctx context.Context, studentID common.UUID) ([]application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []application.Application
	for _, a := range r.items {
		if a.StudentID == studentID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) ListByListings(ctx context.Context, listingIDs []common.UUID) ([]application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make(map[common.UUID]struct{}, len(listingIDs))
	for _, id := range listingIDs {
		ids[id] = struct{}{}
	}
	var out []application.Application
	for _, a := range r.items {
		if _, ok := ids[a.InternshipID]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) Create(ctx context.Context, l listing.Listing, studentID common.UUID, studentName string, input application.SubmissionInput) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	for _, a := range r.items {
		if a.StudentID == studentID && a.InternshipID == l.ID {
			return nil, common.NewError(common.CodeConflict, "already applied for this internship", nil)
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
		AdditionalQuestions: input.AdditionalQuestions,
		CreatedAt:           time.Now().UTC(),
	}
	r.items = append([]application.Application{app}, r.items...)
	return &app, nil
}

func (r *fakeApplicationRepo) UpdateStatus(ctx context.Context, id common.UUID, status application.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.statusErr != nil {
		return r.statusErr
	}
	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i].Status = status
			return nil
		}
	}
	return common.NewError(common.CodeNotFound, "application not found", nil)
}

func studentSession(id common.UUID, name string) session.Session {
	return session.Student{User: user.User{ID: id, Email: string(id) + "@example.com", Role: user.RoleStudent, Name: name}}
}

func recruiterSession(id common.UUID) session.Session {
	return session.Recruiter{User: user.User{ID: id, Email: string(id) + "@example.com", Role: user.RoleRecruiter}}
}

func seedListing(repo *fakeListingRepo, recruiterID common.UUID, title, company string) listing.Listing {
	created, _ := repo.Create(context.Background(), listing.Listing{
		Title:        title,
		Company:      company,
		Location:     "Remote",
		Category:     listing.CategoryTech,
		Description:  "desc",
		Requirements: []string{"Go"},
		Duration:     "3 months",
		Deadline:     time.Now().Add(30 * 24 * time.Hour),
	}, recruiterID)
	return *created
}

func loadedStore(t *testing.T, sess session.Session, listings *fakeListingRepo, apps *fakeApplicationRepo) *Store {
	t.Helper()
	s := New(sess, listings, apps, nil)
	s.Load(context.Background())
	return s
}

func TestApplyForInternship_Succeeds(t *testing.T) {
	listings := &fakeListingRepo{}
	apps := &fakeApplicationRepo{}
	l1 := seedListing(listings, "r1", "Frontend Intern", "Acme")
	s := loadedStore(t, studentSession("s1", "John Student"), listings, apps)

	created, err := s.ApplyForInternship(context.Background(), l1.ID, application.SubmissionInput{ResumeURL: "https://r.example/cv"})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if created.Status != application.StatusPending {
		t.Fatalf("expected status pending, got %s", created.Status)
	}
	if created.InternshipID != l1.ID || created.StudentID != "s1" {
		t.Fatalf("unexpected ids: %s %s", created.InternshipID, created.StudentID)
	}
	if created.ResumeURL != "https://r.example/cv" {
		t.Fatalf("expected resume url to pass through, got %q", created.ResumeURL)
	}
	if !s.HasApplied(l1.ID) {
		t.Fatal("expected HasApplied to be true after a successful apply")
	}
	if got := s.StudentApplications(); len(got) != 1 || got[0].ID != created.ID {
		t.Fatalf("expected the new application in the student view, got %v", got)
	}
}

func TestApplyForInternship_DuplicateFailsWithoutNetworkCall(t *testing.T) {
	listings := &fakeListingRepo{}
	apps := &fakeApplicationRepo{}
	l1 := seedListing(listings, "r1", "Frontend Intern", "Acme")
	s := loadedStore(t, studentSession("s1", "John Student"), listings, apps)

	if _, err := s.ApplyForInternship(context.Background(), l1.ID, application.SubmissionInput{}); err != nil {
		t.Fatalf("first apply failed: %v", err)
	}
	callsBefore := apps.createCalls

	_, err := s.ApplyForInternship(context.Background(), l1.ID, application.SubmissionInput{})
	if !common.Is(err, common.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if apps.createCalls != callsBefore {
		t.Fatal("duplicate apply must not reach the repository")
	}
	if got := s.StudentApplications(); len(got) != 1 {
		t.Fatalf("expected exactly one application, got %d", len(got))
	}
}

func TestApplyForInternship_UnknownListing(t *testing.T) {
	listings := &fakeListingRepo{}
	apps := &fakeApplicationRepo{}
	s := loadedStore(t, studentSession("s1", "John Student"), listings, apps)

	_, err := s.ApplyForInternship(context.Background(), "missing", application.SubmissionInput{})
	if !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if apps.createCalls != 0 {
		t.Fatal("precondition failure must not reach the repository")
	}
}

func TestApplyForInternship_RequiresStudent(t *testing.T) {
	listings := &fakeListingRepo{}
	apps := &fakeApplicationRepo{}
	l1 := seedListing(listings, "r1", "Frontend Intern", "Acme")
	s := loadedStore(t, recruiterSession("r1"), listings, apps)

	_, err := s.ApplyForInternship(context.Background(), l1.ID, application.SubmissionInput{})
	if !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestCreateInternship_GrowsRecruiterView(t *testing.T) {
	listings := &fakeListingRepo{}
	apps := &fakeApplicationRepo{}
	s := loadedStore(t, recruiterSession("r1"), listings, apps)

	created, err := s.CreateInternship(context.Background(), listing.Listing{
		Title:        "Backend Intern",
		Company:      "Acme",
		Category:     listing.CategoryTech,
		Location:     "Remote",
		Description:  "desc",
		Requirements: []string{"Go"},
		Duration:     "3 months",
		Deadline:     time.Now().Add(30 * 24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if created.RecruiterID != "r1" {
		t.Fatalf("expected owner r1, got %s", created.RecruiterID)
	}
	mine := s.RecruiterInternships()
	if len(mine) != 1 || mine[0].ID != created.ID {
		t.Fatalf("expected exactly the new listing in the recruiter view, got %v", mine)
	}
	if got := s.GetByID(created.ID); got == nil {
		t.Fatal("expected the new listing to be resolvable by id")
	}
}

func TestCreateInternship_AnonymousIsForbidden(t *testing.T) {
	listings := &fakeListingRepo{}
	apps := &fakeApplicationRepo{}
	s := loadedStore(t, session.Anonymous{}, listings, apps)

	_, err := s.CreateInternship(context.Background(), listing.Listing{Title: "Backend Intern"})
	if !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if len(s.Internships()) != 0 {
		t.Fatal("collection must be unchanged after a rejected create")
	}
}

func TestDeleteInternship_NonOwnedIsSilentNoop(t *testing.T) {
	listings := &fakeListingRepo{}
	apps := &fakeApplicationRepo{}
	theirs := seedListing(listings, "r2", "Design Intern", "Croc")
	mine := seedListing(listings, "r1", "Backend Intern", "Acme")
	s := loadedStore(t, recruiterSession("r1"), listings, apps)

	if err := s.DeleteInternship(context.Background(), theirs.ID); err != nil {
		t.Fatalf("expected silent no-op, got %v", err)
	}
	if len(s.Internships()) != 2 {
		t.Fatal("non-owned delete must not remove anything locally")
	}
	if got := s.RecruiterInternships(); len(got) != 1 || got[0].ID != mine.ID {
		t.Fatalf("recruiter view changed: %v", got)
	}
}

func TestDeleteInternship_OwnedRemovesEverywhere(t *testing.T) {
	listings := &fakeListingRepo{}
	apps := &fakeApplicationRepo{}
	mine := seedListing(listings, "r1", "Backend Intern", "Acme")
	s := loadedStore(t, recruiterSession("r1"), listings, apps)

	if err := s.DeleteInternship(context.Background(), mine.ID); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(s.Internships()) != 0 || len(s.RecruiterInternships()) != 0 {
		t.Fatal("expected the listing gone from both views")
	}
	if s.GetByID(mine.ID) != nil {
		t.Fatal("expected the id lookup to miss after delete")
	}
}

func TestUpdateApplicationStatus_ReplacesEntry(t *testing.T) {
	listings := &fakeListingRepo{}
	apps := &fakeApplicationRepo{}
	l1 := seedListing(listings, "r1", "Frontend Intern", "Acme")

	student := loadedStore(t, studentSession("s1", "John Student"), listings, apps)
	created, err := student.ApplyForInternship(context.Background(), l1.ID, application.SubmissionInput{CoverLetter: "hello"})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	s := loadedStore(t, recruiterSession("r1"), listings, apps)
	before := s.RecruiterApplications()
	if len(before) != 1 || before[0].Status != application.StatusPending {
		t.Fatalf("unexpected initial view: %v", before)
	}

	if err := s.UpdateApplicationStatus(context.Background(), created.ID, application.StatusReviewing); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	after := s.RecruiterApplications()
	if len(after) != 1 || after[0].Status != application.StatusReviewing {
		t.Fatalf("expected reviewing, got %v", after)
	}
	if after[0].ID != created.ID || after[0].CoverLetter != "hello" || after[0].InternshipID != l1.ID {
		t.Fatal("status update must leave every other field unchanged")
	}
	// The snapshot taken before the update must not change under the reader.
	if before[0].Status != application.StatusPending {
		t.Fatal("prior snapshot was mutated in place")
	}
}

func TestUpdateApplicationStatus_RequiresRecruiter(t *testing.T) {
	listings := &fakeListingRepo{}
	apps := &fakeApplicationRepo{}
	s := loadedStore(t, studentSession("s1", "John Student"), listings, apps)

	err := s.UpdateApplicationStatus(context.Background(), "A1", application.StatusReviewing)
	if !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestUpdateApplicationStatus_UnknownStatus(t *testing.T) {
	listings := &fakeListingRepo{}
	apps := &fakeApplicationRepo{}
	s := loadedStore(t, recruiterSession("r1"), listings, apps)

	err := s.UpdateApplicationStatus(context.Background(), "A1", application.Status("archived"))
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoad_FetchFailureDegradesToEmpty(t *testing.T) {
	listings := &fakeListingRepo{listErr: common.NewError(common.CodeUnavailable, "db down", nil)}
	apps := &fakeApplicationRepo{}
	s := loadedStore(t, studentSession("s1", "John Student"), listings, apps)

	if got := s.Internships(); len(got) != 0 {
		t.Fatalf("expected empty collection on fetch failure, got %v", got)
	}
}

func TestLoad_IsIdempotent(t *testing.T) {
	listings := &fakeListingRepo{}
	apps := &fakeApplicationRepo{}
	seedListing(listings, "r1", "A", "Acme")
	seedListing(listings, "r1", "B", "Acme")
	s := loadedStore(t, studentSession("s1", "John Student"), listings, apps)

	first := s.Internships()
	s.Load(context.Background())
	second := s.Internships()
	if len(first) != len(second) {
		t.Fatalf("expected same membership, got %d then %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("expected same order, diverged at %d", i)
		}
	}
}

func TestRecruiterApplications_OnlyOwnListings(t *testing.T) {
	listings := &fakeListingRepo{}
	apps := &fakeApplicationRepo{}
	mine := seedListing(listings, "r1", "Backend Intern", "Acme")
	theirs := seedListing(listings, "r2", "Design Intern", "Croc")

	s1 := loadedStore(t, studentSession("s1", "John Student"), listings, apps)
	if _, err := s1.ApplyForInternship(context.Background(), mine.ID, application.SubmissionInput{}); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if _, err := s1.ApplyForInternship(context.Background(), theirs.ID, application.SubmissionInput{}); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	s := loadedStore(t, recruiterSession("r1"), listings, apps)
	got := s.RecruiterApplications()
	if len(got) != 1 || got[0].InternshipID != mine.ID {
		t.Fatalf("expected only applications against owned listings, got %v", got)
	}
}

func TestLoading_ClearsAfterFailure(t *testing.T) {
	listings := &fakeListingRepo{}
	apps := &fakeApplicationRepo{statusErr: common.NewError(common.CodeUnavailable, "db down", nil)}
	s := loadedStore(t, recruiterSession("r1"), listings, apps)

	if err := s.UpdateApplicationStatus(context.Background(), "A1", application.StatusReviewing); err == nil {
		t.Fatal("expected the repository error to surface")
	}
	if s.Loading() {
		t.Fatal("loading flag must clear even when the mutation fails")
	}
}

func TestManager_SessionLifecycle(t *testing.T) {
	listings := &fakeListingRepo{}
	apps := &fakeApplicationRepo{}
	seedListing(listings, "r1", "Backend Intern", "Acme")
	m := NewManager(listings, apps, nil)

	m.OnSessionChange("s1", studentSession("s1", "John Student"))
	st := m.GetOrCreate(context.Background(), studentSession("s1", "John Student"))
	if len(st.Internships()) != 1 {
		t.Fatal("expected the store to be loaded on session start")
	}

	m.OnSessionChange("s1", session.Anonymous{})
	if len(st.Internships()) != 0 {
		t.Fatal("expected collections cleared on sign-out")
	}
}
