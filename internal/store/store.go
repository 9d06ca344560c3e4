// Package store holds the in-memory aggregate behind each signed-in session:
// the fetched collections, the role-scoped views derived from them, and the
// mutation paths that keep them in sync with the repositories.
package store

import (
	"context"
	"fmt"
	"sync"

	"gradglow/internal/common"
	"gradglow/internal/domain/application"
	"gradglow/internal/domain/listing"
	"gradglow/internal/domain/session"
)

type Logger interface {
	Info(msg string)
	Error(msg string)
}

// Store is the single source of truth for what one session renders. Every
// derived view is a pure function of {internships, applications, session};
// callers get snapshot copies and never mutate the collections directly.
type Store struct {
	sess         session.Session
	listings     listing.Repository
	applications application.Repository
	logger       Logger

	mu          sync.RWMutex
	internships []listing.Listing
	byID        map[common.UUID]listing.Listing
	apps        []application.Application
	loading     bool
}

func New(sess session.Session, listings listing.Repository, applications application.Repository, logger Logger) *Store {
	return &Store{
		sess:         sess,
		listings:     listings,
		applications: applications,
		logger:       logger,
		byID:         make(map[common.UUID]listing.Listing),
	}
}

// Load populates the collections for the store's session. Fetch failures
// degrade to empty collections and are logged; they never propagate, so a
// transient read error cannot take the consuming surface down.
func (s *Store) Load(ctx context.Context) {
	internships, err := s.listings.List(ctx)
	if err != nil {
		s.logError(fmt.Sprintf("failed to load internships: %v", err))
		internships = nil
	}

	var apps []application.Application
	switch v := s.sess.(type) {
	case session.Student:
		apps, err = s.applications.ListByStudent(ctx, v.User.ID)
		if err != nil {
			s.logError(fmt.Sprintf("failed to load student applications: %v", err))
			apps = nil
		}
	case session.Recruiter:
		owned, err := s.listings.ListByRecruiter(ctx, v.User.ID)
		if err != nil {
			s.logError(fmt.Sprintf("failed to load recruiter internships: %v", err))
			break
		}
		ids := make([]common.UUID, len(owned))
		for i, l := range owned {
			ids[i] = l.ID
		}
		apps, err = s.applications.ListByListings(ctx, ids)
		if err != nil {
			s.logError(fmt.Sprintf("failed to load recruiter applications: %v", err))
			apps = nil
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.internships = internships
	s.apps = apps
	s.byID = make(map[common.UUID]listing.Listing, len(internships))
	for _, l := range internships {
		s.byID[l.ID] = l
	}
}

// Session returns the identity this store was built for.
func (s *Store) Session() session.Session {
	return s.sess
}

// Loading reports whether a mutation is currently in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Internships returns the full fetched collection, role-independent.
func (s *Store) Internships() []listing.Listing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]listing.Listing(nil), s.internships...)
}

// StudentApplications returns the signed-in student's own applications.
func (s *Store) StudentApplications() []application.Application {
	s.mu.RLock()
	defer s.mu.RUnlock()
	student, ok := s.sess.(session.Student)
	if !ok {
		return nil
	}
	var out []application.Application
	for _, a := range s.apps {
		if a.StudentID == student.User.ID {
			out = append(out, a)
		}
	}
	return out
}

// RecruiterInternships returns the listings owned by the signed-in recruiter.
func (s *Store) RecruiterInternships() []listing.Listing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recruiterInternshipsLocked()
}

func (s *Store) recruiterInternshipsLocked() []listing.Listing {
	recruiter, ok := s.sess.(session.Recruiter)
	if !ok {
		return nil
	}
	var out []listing.Listing
	for _, l := range s.internships {
		if l.RecruiterID == recruiter.User.ID {
			out = append(out, l)
		}
	}
	return out
}

// RecruiterApplications returns the applications against the recruiter's own
// listings.
func (s *Store) RecruiterApplications() []application.Application {
	s.mu.RLock()
	defer s.mu.RUnlock()
	owned := s.recruiterInternshipsLocked()
	if len(owned) == 0 {
		return nil
	}
	ownedIDs := make(map[common.UUID]struct{}, len(owned))
	for _, l := range owned {
		ownedIDs[l.ID] = struct{}{}
	}
	var out []application.Application
	for _, a := range s.apps {
		if _, ok := ownedIDs[a.InternshipID]; ok {
			out = append(out, a)
		}
	}
	return out
}

// GetByID looks a listing up in the local collection. It never fetches; the
// collection is populated by Load.
func (s *Store) GetByID(id common.UUID) *listing.Listing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if l, ok := s.byID[id]; ok {
		return &l
	}
	return nil
}

// HasApplied reports whether the signed-in student already applied to the
// listing. This is the advisory half of the uniqueness invariant; the unique
// index in the database is the authoritative half.
func (s *Store) HasApplied(internshipID common.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasAppliedLocked(internshipID)
}

func (s *Store) hasAppliedLocked(internshipID common.UUID) bool {
	student, ok := s.sess.(session.Student)
	if !ok {
		return false
	}
	for _, a := range s.apps {
		if a.InternshipID == internshipID && a.StudentID == student.User.ID {
			return true
		}
	}
	return false
}

// ApplyForInternship submits an application. Preconditions are checked before
// any network call and fail without touching local state; on success the
// created application is prepended locally, no refetch.
func (s *Store) ApplyForInternship(ctx context.Context, internshipID common.UUID, input application.SubmissionInput) (*application.Application, error) {
	defer s.setLoading(true)()

	s.mu.RLock()
	student, ok := s.sess.(session.Student)
	if !ok {
		s.mu.RUnlock()
		return nil, common.NewError(common.CodeForbidden, "you must be signed in as a student to apply", nil)
	}
	target, exists := s.byID[internshipID]
	if !exists {
		s.mu.RUnlock()
		return nil, common.NewError(common.CodeNotFound, "internship not found", nil)
	}
	if s.hasAppliedLocked(internshipID) {
		s.mu.RUnlock()
		return nil, common.NewError(common.CodeConflict, "you have already applied for this internship", nil)
	}
	s.mu.RUnlock()

	created, err := s.applications.Create(ctx, target, student.User.ID, student.User.Name, input)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.apps = append([]application.Application{*created}, s.apps...)
	s.mu.Unlock()
	return created, nil
}

// CreateInternship posts a new listing owned by the signed-in recruiter and
// prepends it to the local collection.
func (s *Store) CreateInternship(ctx context.Context, input listing.Listing) (*listing.Listing, error) {
	defer s.setLoading(true)()

	recruiter, ok := s.sess.(session.Recruiter)
	if !ok {
		return nil, common.NewError(common.CodeForbidden, "you must be signed in as a recruiter to post internships", nil)
	}

	created, err := s.listings.Create(ctx, input, recruiter.User.ID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.internships = append([]listing.Listing{*created}, s.internships...)
	s.byID[created.ID] = *created
	s.mu.Unlock()
	return created, nil
}

// DeleteInternship removes one of the recruiter's own listings. A non-owned
// or unknown id deletes nothing anywhere and is not an error.
func (s *Store) DeleteInternship(ctx context.Context, id common.UUID) error {
	defer s.setLoading(true)()

	recruiter, ok := s.sess.(session.Recruiter)
	if !ok {
		return common.NewError(common.CodeForbidden, "you must be signed in as a recruiter to delete internships", nil)
	}

	if err := s.listings.Delete(ctx, id, recruiter.User.ID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	target, exists := s.byID[id]
	if !exists || target.RecruiterID != recruiter.User.ID {
		// The repository deleted nothing, so neither do we.
		return nil
	}
	delete(s.byID, id)
	next := make([]listing.Listing, 0, len(s.internships)-1)
	for _, l := range s.internships {
		if l.ID != id {
			next = append(next, l)
		}
	}
	s.internships = next
	return nil
}

// UpdateApplicationStatus sets an application's status. The local entry is
// replaced, not mutated in place, so snapshot holders keep what they read.
func (s *Store) UpdateApplicationStatus(ctx context.Context, applicationID common.UUID, status application.Status) error {
	defer s.setLoading(true)()

	if _, ok := s.sess.(session.Recruiter); !ok {
		return common.NewError(common.CodeForbidden, "you must be signed in as a recruiter to update application status", nil)
	}
	if !application.IsKnownStatus(status) {
		return common.NewValidationError("invalid status", map[string]string{"status": "status must be pending, reviewing, accepted, or rejected"})
	}

	if err := s.applications.UpdateStatus(ctx, applicationID, status); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]application.Application, len(s.apps))
	copy(next, s.apps)
	for i := range next {
		if next[i].ID == applicationID {
			next[i].Status = status
			break
		}
	}
	s.apps = next
	return nil
}

// clear empties every collection; called when the session ends.
func (s *Store) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.internships = nil
	s.apps = nil
	s.byID = make(map[common.UUID]listing.Listing)
}

// setLoading flips the in-flight flag and returns the release func, so every
// mutation can guarantee the flag clears no matter how it exits.
func (s *Store) setLoading(v bool) func() {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}
}

func (s *Store) logError(msg string) {
	if s.logger == nil {
		return
	}
	s.logger.Error(msg)
}
