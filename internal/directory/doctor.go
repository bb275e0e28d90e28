// Package directory holds the doctor catalog and answers directory searches.
package directory

import (
	"slices"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type Specialty string

const (
	Cardiologist  Specialty = "Cardiologist"
	Dentist       Specialty = "Dentist"
	Dermatologist Specialty = "Dermatologist"
	Neurologist   Specialty = "Neurologist"
	Orthopedic    Specialty = "Orthopedic"
	Pediatrician  Specialty = "Pediatrician"
)

var specialties = []Specialty{Cardiologist, Dentist, Dermatologist, Neurologist, Orthopedic, Pediatrician}

// Specialties returns the enumerated specialty set in display order.
func Specialties() []Specialty {
	return slices.Clone(specialties)
}

// ParseSpecialty reports whether s names a known specialty.
func ParseSpecialty(s string) (Specialty, bool) {
	for _, sp := range specialties {
		if string(sp) == s {
			return sp, true
		}
	}
	return "", false
}

// SlotLayout is the clock format of availability labels, e.g. "9:00 AM".
const SlotLayout = "3:04 PM"

type Contact struct {
	Phone string `yaml:"phone" json:"phone"`
	Email string `yaml:"email" json:"email"`
}

func (c Contact) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Phone, validation.Required),
		validation.Field(&c.Email, validation.Required, is.EmailFormat),
	)
}

type Doctor struct {
	ID           int       `yaml:"id" json:"id"`
	Name         string    `yaml:"name" json:"name"`
	Specialty    Specialty `yaml:"specialty" json:"specialty"`
	Rating       float64   `yaml:"rating" json:"rating"`
	Experience   string    `yaml:"experience" json:"experience"`
	Location     string    `yaml:"location" json:"location"`
	Languages    []string  `yaml:"languages" json:"languages"`
	Fee          int       `yaml:"fee" json:"fee"`
	Contact      Contact   `yaml:"contact" json:"contact"`
	Availability []string  `yaml:"availability" json:"availability"`
}

// Validate checks the field constraints of a catalog entry.
func (d Doctor) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.ID, validation.Required, validation.Min(1)),
		validation.Field(&d.Name, validation.Required),
		validation.Field(&d.Specialty, validation.Required, validation.By(knownSpecialty)),
		validation.Field(&d.Rating, validation.Min(0.0), validation.Max(5.0)),
		validation.Field(&d.Languages, validation.Each(validation.Required)),
		validation.Field(&d.Fee, validation.Min(0)),
		validation.Field(&d.Contact),
		validation.Field(&d.Availability, validation.Required, validation.Each(validation.By(slotLabel))),
	)
}

// HasSlot reports whether label is one of the doctor's bookable slots.
func (d Doctor) HasSlot(label string) bool {
	return slices.Contains(d.Availability, label)
}

func (d Doctor) clone() Doctor {
	d.Languages = slices.Clone(d.Languages)
	d.Availability = slices.Clone(d.Availability)
	return d
}

func knownSpecialty(v any) error {
	sp, _ := v.(Specialty)
	if _, ok := ParseSpecialty(string(sp)); !ok {
		return validation.NewError("validation_specialty", "must be a known specialty")
	}
	return nil
}

func slotLabel(v any) error {
	s, _ := v.(string)
	if _, err := time.Parse(SlotLayout, s); err != nil {
		return validation.NewError("validation_slot_label", "must be a clock label like 9:00 AM")
	}
	return nil
}
