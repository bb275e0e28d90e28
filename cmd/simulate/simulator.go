package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/hackgods/clinic-scheduling/internal/appointment"
	"github.com/hackgods/clinic-scheduling/internal/directory"
)

var visitNotes = []string{"Checkup", "Follow-up", "Consultation", "Prescription renewal", ""}

type booked struct {
	ID      int
	Patient string
}

type DataPool struct {
	Doctors  []directory.Doctor
	Patients []string

	mu           sync.RWMutex
	appointments []booked
}

func (dp *DataPool) AddAppointment(b booked) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.appointments = append(dp.appointments, b)
}

func (dp *DataPool) RandomAppointment(f *gofakeit.Faker) (booked, bool) {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	if len(dp.appointments) == 0 {
		return booked{}, false
	}
	return dp.appointments[f.IntN(len(dp.appointments))], true
}

type Metrics struct {
	Booking       OperationMetrics
	StatusChange  OperationMetrics
	SearchDoctors OperationMetrics
	ListScoped    OperationMetrics
	Dashboard     OperationMetrics
}

type Simulator struct {
	config  SimConfig
	pool    *DataPool
	client  *http.Client
	metrics Metrics
}

func NewSimulator(cfg SimConfig) *Simulator {
	faker := gofakeit.New(cfg.Seed)
	patients := make([]string, cfg.Patients)
	for i := range patients {
		patients[i] = faker.Name()
	}
	return &Simulator{
		config: cfg,
		pool:   &DataPool{Patients: patients},
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// LoadDoctors fetches the directory once so bookings target real slots.
func (s *Simulator) LoadDoctors(ctx context.Context) error {
	resp, err := s.do(ctx, http.MethodGet, "/doctors", "admin", "Simulator", nil)
	if err != nil {
		return fmt.Errorf("load doctors: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("load doctors: unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&s.pool.Doctors); err != nil {
		return fmt.Errorf("decode doctors: %w", err)
	}
	if len(s.pool.Doctors) == 0 {
		return fmt.Errorf("no doctors loaded")
	}
	return nil
}

func (s *Simulator) worker(ctx context.Context, f *gofakeit.Faker) {
	for ctx.Err() == nil {
		r := f.Float64()
		switch {
		case r < s.config.BookingRatio:
			s.doBooking(ctx, f)
		case r < s.config.BookingRatio+s.config.StatusRatio:
			s.doStatusChange(ctx, f)
		default:
			switch f.IntN(3) {
			case 0:
				s.doSearch(ctx, f)
			case 1:
				s.doListScoped(ctx, f)
			default:
				s.doDashboard(ctx, f)
			}
		}
	}
}

func (s *Simulator) doBooking(ctx context.Context, f *gofakeit.Faker) {
	doc := s.pool.Doctors[f.IntN(len(s.pool.Doctors))]
	patient := s.pool.Patients[f.IntN(len(s.pool.Patients))]

	// Mostly valid requests, with some unavailable slots mixed in.
	slot := "6:00 PM"
	if len(doc.Availability) > 0 && f.IntN(10) > 0 {
		slot = doc.Availability[f.IntN(len(doc.Availability))]
	}
	date := time.Now().AddDate(0, 0, f.IntRange(0, 60)).Format(appointment.DateLayout)

	body := map[string]any{"doctorId": doc.ID, "date": date, "time": slot, "notes": f.RandomString(visitNotes)}

	start := time.Now()
	resp, err := s.do(ctx, http.MethodPost, "/appointments", "patient", patient, body)
	latency := time.Since(start)

	success, rejected := false, false
	if err == nil {
		defer resp.Body.Close()
		switch resp.StatusCode {
		case http.StatusCreated:
			success = true
			var appt appointment.Appointment
			if json.NewDecoder(resp.Body).Decode(&appt) == nil {
				s.pool.AddAppointment(booked{ID: appt.ID, Patient: patient})
			}
		case http.StatusBadRequest:
			rejected = true
		}
	}
	s.metrics.Booking.Record(latency, success, rejected)
}

func (s *Simulator) doStatusChange(ctx context.Context, f *gofakeit.Faker) {
	b, ok := s.pool.RandomAppointment(f)
	if !ok {
		return
	}

	role, name, status := "admin", "Simulator", "confirmed"
	switch f.IntN(3) {
	case 0:
		role, name, status = "patient", b.Patient, "cancelled"
	case 1:
		status = "completed"
	}

	start := time.Now()
	resp, err := s.do(ctx, http.MethodPost, fmt.Sprintf("/appointments/%d/status", b.ID), role, name,
		map[string]string{"status": status})
	latency := time.Since(start)

	success, rejected := false, false
	if err == nil {
		defer resp.Body.Close()
		success = resp.StatusCode == http.StatusOK
		rejected = resp.StatusCode == http.StatusConflict
	}
	s.metrics.StatusChange.Record(latency, success, rejected)
}

func (s *Simulator) doSearch(ctx context.Context, f *gofakeit.Faker) {
	specialties := directory.Specialties()
	q := url.Values{}
	q.Set("specialty", string(specialties[f.IntN(len(specialties))]))

	s.read(ctx, &s.metrics.SearchDoctors, "/doctors?"+q.Encode(), "patient", s.pool.Patients[f.IntN(len(s.pool.Patients))])
}

func (s *Simulator) doListScoped(ctx context.Context, f *gofakeit.Faker) {
	doc := s.pool.Doctors[f.IntN(len(s.pool.Doctors))]
	s.read(ctx, &s.metrics.ListScoped, "/appointments", "doctor", doc.Name)
}

func (s *Simulator) doDashboard(ctx context.Context, f *gofakeit.Faker) {
	s.read(ctx, &s.metrics.Dashboard, "/dashboard", "patient", s.pool.Patients[f.IntN(len(s.pool.Patients))])
}

func (s *Simulator) read(ctx context.Context, om *OperationMetrics, path, role, name string) {
	start := time.Now()
	resp, err := s.do(ctx, http.MethodGet, path, role, name, nil)
	latency := time.Since(start)

	success := false
	if err == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		success = resp.StatusCode == http.StatusOK
	}
	om.Record(latency, success, false)
}

func (s *Simulator) do(ctx context.Context, method, path, role, name string, body any) (*http.Response, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, s.config.APIBaseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Role", role)
	req.Header.Set("X-User-Name", name)
	return s.client.Do(req)
}
