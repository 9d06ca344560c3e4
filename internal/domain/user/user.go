package user

import (
	"time"

	"gradglow/internal/common"
)

type Role string

const (
	RoleStudent   Role = "student"
	RoleRecruiter Role = "recruiter"
)

// User is the profile record the repositories scope their queries by. The
// role is fixed at sign-up and never changes afterwards.
type User struct {
	ID        common.UUID `json:"id"`
	Email     string      `json:"email"`
	Role      Role        `json:"role"`
	Name      string      `json:"name,omitempty"`
	AvatarURL string      `json:"avatar_url,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}
