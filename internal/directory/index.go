package directory

import (
	"fmt"
	"strings"

	"github.com/hackgods/clinic-scheduling/internal/apperr"
)

// Index is the read-only doctor directory. It is safe for concurrent use
// because nothing mutates it after NewIndex returns.
type Index struct {
	doctors []Doctor
	byID    map[int]int
	byName  map[string]int
}

// NewIndex validates every doctor and builds the directory in catalog order.
func NewIndex(doctors []Doctor) (*Index, error) {
	idx := &Index{
		doctors: make([]Doctor, 0, len(doctors)),
		byID:    make(map[int]int, len(doctors)),
		byName:  make(map[string]int, len(doctors)),
	}

	for _, d := range doctors {
		if err := d.Validate(); err != nil {
			return nil, apperr.Validation(apperr.ReasonInvalidRecord, "doctor %d: %v", d.ID, err)
		}
		if _, dup := idx.byID[d.ID]; dup {
			return nil, apperr.Validation(apperr.ReasonInvalidRecord, "duplicate doctor id %d", d.ID)
		}
		// Appointments reference doctors by name.
		if _, dup := idx.byName[d.Name]; dup {
			return nil, apperr.Validation(apperr.ReasonInvalidRecord, "duplicate doctor name %q", d.Name)
		}
		idx.byID[d.ID] = len(idx.doctors)
		idx.byName[d.Name] = len(idx.doctors)
		idx.doctors = append(idx.doctors, d.clone())
	}

	return idx, nil
}

// Load builds an index from the catalog at path, or the built-in catalog if path is empty.
func Load(path string) (*Index, error) {
	doctors, err := LoadCatalog(path)
	if err != nil {
		return nil, err
	}
	idx, err := NewIndex(doctors)
	if err != nil {
		return nil, fmt.Errorf("build directory: %w", err)
	}
	return idx, nil
}

// Search returns doctors whose name or specialty contains query (case-insensitive),
// restricted to specialty when it is non-empty. Catalog order is preserved.
func (x *Index) Search(query, specialty string) []Doctor {
	q := strings.ToLower(query)

	result := make([]Doctor, 0, len(x.doctors))
	for _, d := range x.doctors {
		matches := strings.Contains(strings.ToLower(d.Name), q) ||
			strings.Contains(strings.ToLower(string(d.Specialty)), q)
		if !matches {
			continue
		}
		if specialty != "" && string(d.Specialty) != specialty {
			continue
		}
		result = append(result, d.clone())
	}
	return result
}

func (x *Index) Get(id int) (Doctor, bool) {
	i, ok := x.byID[id]
	if !ok {
		return Doctor{}, false
	}
	return x.doctors[i].clone(), true
}

func (x *Index) ByName(name string) (Doctor, bool) {
	i, ok := x.byName[name]
	if !ok {
		return Doctor{}, false
	}
	return x.doctors[i].clone(), true
}

// HasSlot reports whether the named doctor publishes the slot label.
func (x *Index) HasSlot(doctorName, label string) bool {
	d, ok := x.ByName(doctorName)
	return ok && d.HasSlot(label)
}

func (x *Index) Len() int {
	return len(x.doctors)
}
