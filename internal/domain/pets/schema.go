package pets

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// FieldError describe una regla violada sobre un campo concreto.
type FieldError struct {
	Field    string `json:"field"`
	Message  string `json:"message"`
	Location string `json:"location,omitempty"` // body, params, query
}

// ConstraintError es el rechazo de una escritura por parte del store:
// reglas del schema o restricciones propias del motor (unique, check...).
type ConstraintError struct {
	Fields []FieldError
	// Message, si viene, es el mensaje crudo del motor.
	Message string
}

func (e *ConstraintError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "Pet validation failed: " + strings.Join(parts, ", ")
}

// NewRecord construye un registro nuevo aplicando defaults
// (breed vacío, isAdopted=false) y validando contra el schema.
func NewRecord(id string, f Fields, now time.Time) (Pet, error) {
	p := Pet{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
	}
	assign(&p, f)
	if err := validateRecord(p, f.Age != nil); err != nil {
		return Pet{}, err
	}
	return p, nil
}

// ApplyUpdate aplica f sobre current según mode.
// ID y CreatedAt nunca cambian; UpdatedAt se sella con now.
func ApplyUpdate(current Pet, f Fields, mode UpdateMode, now time.Time) (Pet, error) {
	next := current
	ageSet := true
	if mode == UpdateReplace {
		next = Pet{
			ID:        current.ID,
			CreatedAt: current.CreatedAt,
		}
		ageSet = f.Age != nil
	}
	assign(&next, f)
	next.UpdatedAt = now

	if err := validateRecord(next, ageSet); err != nil {
		return Pet{}, err
	}
	return next, nil
}

func assign(p *Pet, f Fields) {
	if f.Name != nil {
		p.Name = strings.TrimSpace(*f.Name)
	}
	if f.Type != nil {
		p.Type = *f.Type
	}
	if f.Breed != nil {
		p.Breed = *f.Breed
	}
	if f.Age != nil {
		p.Age = *f.Age
	}
	if f.IsAdopted != nil {
		p.IsAdopted = *f.IsAdopted
	}
	if f.Location != nil {
		p.Location = *f.Location
	}
}

func validateRecord(p Pet, ageSet bool) error {
	var errs []FieldError

	switch {
	case p.Name == "":
		errs = append(errs, FieldError{Field: "name", Message: "Please add a name"})
	case utf8.RuneCountInString(p.Name) > MaxNameLength:
		errs = append(errs, FieldError{Field: "name", Message: fmt.Sprintf("Name can not be more than %d characters", MaxNameLength)})
	}

	switch {
	case p.Type == "":
		errs = append(errs, FieldError{Field: "type", Message: "Path `type` is required."})
	case !p.Type.Valid():
		errs = append(errs, FieldError{Field: "type", Message: fmt.Sprintf("`%s` is not a valid enum value for path `type`.", p.Type)})
	}

	switch {
	case !ageSet:
		errs = append(errs, FieldError{Field: "age", Message: "Please add an age"})
	case p.Age < 0:
		errs = append(errs, FieldError{Field: "age", Message: "Age must be 0 or greater"})
	}

	if strings.TrimSpace(p.Location) == "" {
		errs = append(errs, FieldError{Field: "location", Message: "Please add the pet location"})
	}

	if len(errs) > 0 {
		return &ConstraintError{Fields: errs}
	}
	return nil
}
