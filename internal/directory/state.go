package directory

import (
	"errors"
	"fmt"

	"github.com/Jishaan-07/Employee-managment/internal/contacts"
)

var (
	// ErrUnknownField is returned when a field change names no draft field.
	ErrUnknownField = errors.New("directory: unknown draft field")
	// ErrIDLocked is returned when the draft id is changed while editing a record.
	ErrIDLocked = errors.New("directory: id cannot change while editing")
	// ErrStopped is returned by operations on a stopped controller.
	ErrStopped = errors.New("directory: controller stopped")
)

// Field names a draft input.
type Field string

const (
	FieldID     Field = "id"
	FieldName   Field = "name"
	FieldEmail  Field = "email"
	FieldStatus Field = "status"
)

// Fields lists the draft inputs in form order.
var Fields = []Field{FieldID, FieldName, FieldEmail, FieldStatus}

// Mode tells whether a submit creates a new record or updates an existing one.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// EmptyDraft returns the default form values.
func EmptyDraft() contacts.Employee {
	return contacts.Employee{Status: contacts.StatusActive}
}

// Snapshot is a read-only copy of the controller state.
type Snapshot struct {
	Employees  []contacts.Employee `json:"employees"`
	Draft      contacts.Employee   `json:"draft"`
	EditTarget string              `json:"edit_target,omitempty"`
	Mode       Mode                `json:"mode"`
	Open       bool                `json:"open"`
	Loaded     bool                `json:"loaded"`
}

// Editing reports whether a record is being edited.
func (s Snapshot) Editing() bool {
	return s.Mode == ModeEdit
}

// Find returns the first collection entry with the given id.
func (s Snapshot) Find(id string) (contacts.Employee, bool) {
	for _, emp := range s.Employees {
		if emp.ID == id {
			return emp, true
		}
	}
	return contacts.Employee{}, false
}

// state is owned by the controller loop goroutine.
type state struct {
	employees []contacts.Employee
	draft     contacts.Employee
	target    string
	hasTarget bool
	open      bool
	loaded    bool
}

func newState() state {
	return state{employees: []contacts.Employee{}, draft: EmptyDraft()}
}

func (s *state) snapshot() Snapshot {
	employees := make([]contacts.Employee, len(s.employees))
	copy(employees, s.employees)
	snap := Snapshot{
		Employees: employees,
		Draft:     s.draft,
		Mode:      ModeCreate,
		Open:      s.open,
		Loaded:    s.loaded,
	}
	if s.hasTarget {
		snap.Mode = ModeEdit
		snap.EditTarget = s.target
	}
	return snap
}

func (s *state) clearTarget() {
	s.target = ""
	s.hasTarget = false
}

func (s *state) setField(field Field, value string) error {
	switch field {
	case FieldID:
		if s.hasTarget {
			return ErrIDLocked
		}
		s.draft.ID = value
	case FieldName:
		s.draft.Name = value
	case FieldEmail:
		s.draft.Email = value
	case FieldStatus:
		s.draft.Status = contacts.Status(value)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// replace overwrites every entry keyed by id with rec.
func (s *state) replace(id string, rec contacts.Employee) {
	for i := range s.employees {
		if s.employees[i].ID == id {
			s.employees[i] = rec
		}
	}
}

// remove drops every entry keyed by id.
func (s *state) remove(id string) {
	kept := s.employees[:0]
	for _, emp := range s.employees {
		if emp.ID != id {
			kept = append(kept, emp)
		}
	}
	s.employees = kept
}
