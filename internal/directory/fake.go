package directory

import (
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
)

var clinicHours = []string{
	"8:00 AM", "9:00 AM", "10:00 AM", "11:00 AM",
	"1:00 PM", "2:00 PM", "3:00 PM", "4:00 PM", "5:00 PM",
}

// FakeDoctors generates n valid doctors with ids starting at firstID.
// Names are unique within the batch.
func FakeDoctors(f *gofakeit.Faker, firstID, n int) []Doctor {
	doctors := make([]Doctor, 0, n)
	seen := make(map[string]struct{}, n)

	for len(doctors) < n {
		first, last := f.FirstName(), f.LastName()
		name := fmt.Sprintf("Dr. %s %s", first, last)
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		slots := make([]string, 0, 5)
		for _, h := range clinicHours {
			if f.Bool() {
				slots = append(slots, h)
			}
		}
		if len(slots) == 0 {
			slots = append(slots, clinicHours[f.IntRange(0, len(clinicHours)-1)])
		}

		languages := []string{"English"}
		if f.Bool() {
			languages = append(languages, f.Language())
		}

		doctors = append(doctors, Doctor{
			ID:         firstID + len(doctors),
			Name:       name,
			Specialty:  specialties[f.IntRange(0, len(specialties)-1)],
			Rating:     float64(f.IntRange(30, 50)) / 10,
			Experience: fmt.Sprintf("%d years", f.IntRange(1, 35)),
			Location:   f.City() + " Medical Center",
			Languages:  languages,
			Fee:        f.IntRange(5, 40) * 10,
			Contact: Contact{
				Phone: f.Phone(),
				Email: mailbox(first) + "." + mailbox(last) + "@clinic.example.com",
			},
			Availability: slots,
		})
	}

	return doctors
}

func mailbox(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' {
			return r
		}
		return -1
	}, strings.ToLower(s))
}
