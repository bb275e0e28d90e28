// Package access holds the session identity and the role policy that gates
// operations and scopes appointment queries.
package access

import (
	"github.com/hackgods/clinic-scheduling/internal/apperr"
)

type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

// ParseRole accepts only the three known roles.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RolePatient, RoleDoctor, RoleAdmin:
		return r, nil
	}
	return "", apperr.Validation(apperr.ReasonUnknownRole, "unknown role %q", s)
}

// Session is the ambient identity a caller acts as. It is passed explicitly
// into every policy and workflow call.
type Session struct {
	Role        Role   `json:"role"`
	DisplayName string `json:"name"`
	ID          int    `json:"id"`
}

func NewSession(role, displayName string, id int) (Session, error) {
	r, err := ParseRole(role)
	if err != nil {
		return Session{}, err
	}
	return Session{Role: r, DisplayName: displayName, ID: id}, nil
}

// Switch returns a copy of s acting under role, keeping name and id.
func Switch(s Session, role string) (Session, error) {
	r, err := ParseRole(role)
	if err != nil {
		return s, err
	}
	s.Role = r
	return s, nil
}
