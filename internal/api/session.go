package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/hackgods/clinic-scheduling/internal/access"
	"github.com/hackgods/clinic-scheduling/internal/apperr"
)

const (
	headerRole   = "X-Role"
	headerName   = "X-User-Name"
	headerUserID = "X-User-ID"
)

// sessionFromRequest builds the caller's session from the login-as headers.
// There is no authentication; switching roles is sending another X-Role.
func sessionFromRequest(r *http.Request, defaultName string) (access.Session, error) {
	// The role must be one of the enumerated values exactly as written.
	role := r.Header.Get(headerRole)
	if role == "" {
		role = string(access.RolePatient)
	}
	name := strings.TrimSpace(r.Header.Get(headerName))
	if name == "" {
		name = defaultName
	}

	id := 0
	if raw := r.Header.Get(headerUserID); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return access.Session{}, apperr.Validation(apperr.ReasonInvalidRecord, "%s must be an integer", headerUserID)
		}
		id = n
	}
	return access.NewSession(role, name, id)
}
