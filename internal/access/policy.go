package access

import (
	"slices"

	"github.com/hackgods/clinic-scheduling/internal/appointment"
	"github.com/hackgods/clinic-scheduling/internal/apperr"
)

type Operation string

const (
	OpBookAppointment    Operation = "book-appointment"
	OpViewDirectory      Operation = "view-directory"
	OpViewAdminAnalytics Operation = "view-admin-analytics"
	OpViewOwnSchedule    Operation = "view-own-schedule"
	OpViewPatientRecords Operation = "view-patient-records"
	OpViewAppointments   Operation = "view-appointments"
	OpManageAppointments Operation = "manage-appointments"
	OpCancelAppointment  Operation = "cancel-appointment"
)

var permitted = map[Operation][]Role{
	OpBookAppointment:    {RolePatient},
	OpViewDirectory:      {RolePatient, RoleAdmin},
	OpViewAdminAnalytics: {RoleAdmin},
	OpViewOwnSchedule:    {RoleDoctor},
	OpViewPatientRecords: {RoleDoctor},
	OpViewAppointments:   {RolePatient, RoleDoctor, RoleAdmin},
	OpManageAppointments: {RoleDoctor, RoleAdmin},
	OpCancelAppointment:  {RolePatient, RoleDoctor, RoleAdmin},
}

// IsPermitted looks role up in the static operation table. Unknown operations
// are never permitted.
func IsPermitted(role Role, op Operation) bool {
	return slices.Contains(permitted[op], role)
}

// Require is IsPermitted reported as an authorization error.
func Require(s Session, op Operation) error {
	if !IsPermitted(s.Role, op) {
		return apperr.Authorization("role %s may not %s", s.Role, op)
	}
	return nil
}

// InScope reports whether a is visible to role acting as identity.
func InScope(role Role, identity string, a appointment.Appointment) bool {
	switch role {
	case RolePatient:
		return a.PatientName == identity
	case RoleDoctor:
		return a.DoctorName == identity
	case RoleAdmin:
		return true
	}
	return false
}

// ScopeAppointments filters all down to what role acting as identity may see,
// preserving order. Admins see everything.
func ScopeAppointments(role Role, identity string, all []appointment.Appointment) []appointment.Appointment {
	scoped := make([]appointment.Appointment, 0, len(all))
	for _, a := range all {
		if InScope(role, identity, a) {
			scoped = append(scoped, a)
		}
	}
	return scoped
}

// Operations lists what role may do, in a stable order.
func Operations(role Role) []Operation {
	var ops []Operation
	for op, roles := range permitted {
		if slices.Contains(roles, role) {
			ops = append(ops, op)
		}
	}
	slices.Sort(ops)
	return ops
}
