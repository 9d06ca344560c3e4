// Package session models the current identity as a closed set of variants so
// role checks are type switches instead of string comparisons.
package session

import (
	"gradglow/internal/common"
	"gradglow/internal/domain/user"
)

type Session interface {
	isSession()
}

// Anonymous is the session before sign-in and after sign-out.
type Anonymous struct{}

type Student struct {
	User user.User
}

type Recruiter struct {
	User user.User
}

func (Anonymous) isSession() {}
func (Student) isSession()   {}
func (Recruiter) isSession() {}

// ForUser wraps a profile in the variant matching its role. An unknown role
// yields Anonymous; no code path creates one, but a corrupted row must not
// grant access.
func ForUser(u *user.User) Session {
	if u == nil {
		return Anonymous{}
	}
	switch u.Role {
	case user.RoleStudent:
		return Student{User: *u}
	case user.RoleRecruiter:
		return Recruiter{User: *u}
	default:
		return Anonymous{}
	}
}

// UserID returns the signed-in user's id, or "" for Anonymous.
func UserID(s Session) common.UUID {
	switch v := s.(type) {
	case Student:
		return v.User.ID
	case Recruiter:
		return v.User.ID
	default:
		return ""
	}
}
