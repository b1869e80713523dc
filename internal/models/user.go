package models

import (
	"fmt"
	"strings"
	"time"

	"realestatecrm/internal/common"
)

// Role is the position of a user inside the agency.
type Role string

const (
	RoleWorker Role = "Worker"
	RoleAdmin  Role = "Admin"
	RoleCEO    Role = "CEO"
)

var roleLabels = map[string]Role{
	"worker":        RoleWorker,
	"admin":         RoleAdmin,
	"ceo":           RoleCEO,
	"працівник":     RoleWorker,
	"адміністратор": RoleAdmin,
	"керівник":      RoleCEO,
}

// ParseRole converts an external label into a Role.
func ParseRole(s string) (Role, error) {
	role, ok := roleLabels[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", common.NewValidationError("role", fmt.Sprintf("unknown role %q", s))
	}
	return role, nil
}

func (r Role) Valid() bool {
	switch r {
	case RoleWorker, RoleAdmin, RoleCEO:
		return true
	}
	return false
}

func (r *Role) UnmarshalText(text []byte) error {
	if len(strings.TrimSpace(string(text))) == 0 {
		*r = ""
		return nil
	}
	role, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = role
	return nil
}

// User is a worker account. PasswordHash never leaves the service.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email        string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null" validate:"required,email,max=255"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null" validate:"required"`
	FullName     string    `json:"fullName" gorm:"type:varchar(200)" validate:"max=200"`
	Role         Role      `json:"role" gorm:"type:varchar(20);not null" validate:"required,user_role"`
	AvatarURL    string    `json:"avatarUrl,omitempty" gorm:"type:varchar(500)"`
	CreatedAt    time.Time `json:"createdAt" gorm:"<-:create;not null"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) ApplyCreateDefaults(now time.Time) {
	u.Email = NormalizeEmail(u.Email)
	if u.Role == "" {
		u.Role = RoleWorker
	}
	u.CreatedAt = now
	u.UpdatedAt = now
}

func (u *User) Validate() error {
	return ValidateStruct(u)
}

// NormalizeEmail is applied to every login identifier before lookup or insert.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterInput is the typed payload for registering a user.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	FullName string `json:"fullName" validate:"max=200"`
	Role     Role   `json:"role" validate:"omitempty,user_role"`
}
