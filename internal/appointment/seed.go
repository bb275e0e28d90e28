package appointment

// SeedRecords returns the clinic's starting appointments.
func SeedRecords() []Appointment {
	return []Appointment{
		{
			ID:          1,
			PatientName: "Sneha Gardiner",
			DoctorName:  "Dr. Sarah Wilson",
			Specialty:   "Cardiologist",
			Date:        "2025-06-18",
			Time:        "10:00 AM",
			Status:      StatusConfirmed,
			Notes:       "Regular checkup",
		},
		{
			ID:          2,
			PatientName: "Jane Smith",
			DoctorName:  "Dr. Michael Chen",
			Specialty:   "Dentist",
			Date:        "2025-06-20",
			Time:        "2:00 PM",
			Status:      StatusPending,
			Notes:       "Dental cleaning",
		},
	}
}
