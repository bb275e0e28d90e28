package api

import (
	"time"

	"github.com/hackgods/clinic-scheduling/internal/access"
	"github.com/hackgods/clinic-scheduling/internal/directory"
	"github.com/hackgods/clinic-scheduling/internal/notification"
)

type BookAppointmentRequest struct {
	DoctorID int    `json:"doctorId"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Notes    string `json:"notes"`
}

type ChangeStatusRequest struct {
	Status string `json:"status"`
}

type SessionResponse struct {
	access.Session
	Operations []access.Operation `json:"operations"`
}

type SpecialtiesResponse struct {
	Specialties []directory.Specialty `json:"specialties"`
}

type NotificationResponse struct {
	ID        int               `json:"id"`
	Message   string            `json:"message"`
	Kind      notification.Kind `json:"type"`
	CreatedAt time.Time         `json:"createdAt"`
	Time      string            `json:"time"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
