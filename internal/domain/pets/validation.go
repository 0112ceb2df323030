package pets

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Mensajes del validador de requests (capa HTTP, antes de tocar el store).
const (
	MsgNameRequired     = "Name is required"
	MsgNameTooLong      = "Name cannot exceed 50 characters"
	MsgInvalidType      = "Invalid pet type"
	MsgInvalidAge       = "Age must be a non-negative integer"
	MsgLocationRequired = "Location is required"
	MsgInvalidBreed     = "Breed must be a string"
	MsgInvalidAdopted   = "isAdopted must be a boolean"
	MsgInvalidID        = "Invalid Pet ID format"
	MsgInvalidQuery     = "Search query must be a string"
)

const (
	LocationBody   = "body"
	LocationParams = "params"
	LocationQuery  = "query"
)

// ValidationMode indica si el body debe traer todos los campos obligatorios
// (create, PUT) o solo se validan los presentes (PATCH).
type ValidationMode int

const (
	ValidateFull ValidationMode = iota
	ValidatePartial
)

var validate = validator.New()

type valueKind int

const (
	kindString valueKind = iota
	kindInteger
	kindBool
)

type check struct {
	tag     string // tag de go-playground/validator evaluado con Var
	message string
}

type fieldRule struct {
	field    string
	required bool
	nullable bool // null = volver al valor por defecto
	kind     valueKind
	kindMsg  string
	checks   []check
}

var petRules = []fieldRule{
	{
		field: "name", required: true, kind: kindString, kindMsg: MsgNameRequired,
		checks: []check{{"required", MsgNameRequired}, {"max=50", MsgNameTooLong}},
	},
	{
		field: "type", required: true, kind: kindString, kindMsg: MsgInvalidType,
		checks: []check{{"oneof=" + typesList(), MsgInvalidType}},
	},
	{
		field: "age", required: true, kind: kindInteger, kindMsg: MsgInvalidAge,
		checks: []check{{"min=0", MsgInvalidAge}},
	},
	{
		field: "location", required: true, kind: kindString, kindMsg: MsgLocationRequired,
		checks: []check{{"required", MsgLocationRequired}},
	},
	{field: "breed", nullable: true, kind: kindString, kindMsg: MsgInvalidBreed},
	{field: "isAdopted", kind: kindBool, kindMsg: MsgInvalidAdopted},
}

func typesList() string {
	parts := make([]string, 0, 4)
	for _, t := range Types() {
		parts = append(parts, string(t))
	}
	return strings.Join(parts, " ")
}

// ValidatePetBody evalúa la tabla de reglas sobre un body JSON ya decodificado
// y devuelve los Fields tipados. Reporta todas las violaciones, no solo la primera.
func ValidatePetBody(body map[string]any, mode ValidationMode) (Fields, []FieldError) {
	var (
		f    Fields
		errs []FieldError
	)

	for _, rule := range petRules {
		raw, present := body[rule.field]
		if !present {
			if rule.required && mode == ValidateFull {
				errs = append(errs, bodyError(rule.field, rule.checks[0].message))
			}
			continue
		}

		if raw == nil && rule.nullable {
			assignZero(&f, rule.field)
			continue
		}

		v, ok := coerce(raw, rule.kind)
		if !ok {
			errs = append(errs, bodyError(rule.field, rule.kindMsg))
			continue
		}

		failed := false
		for _, c := range rule.checks {
			if err := validate.Var(v, c.tag); err != nil {
				errs = append(errs, bodyError(rule.field, c.message))
				failed = true
			}
		}
		if !failed {
			assignValue(&f, rule.field, v)
		}
	}

	return f, errs
}

// ValidateID comprueba que id tenga el formato de identificador del store (UUID).
func ValidateID(id string) []FieldError {
	if err := validate.Var(id, "required,uuid"); err != nil {
		return []FieldError{{Field: "id", Message: MsgInvalidID, Location: LocationParams}}
	}
	return nil
}

// ValidateSearch exige que q venga exactamente una vez en la query.
func ValidateSearch(values []string) (string, []FieldError) {
	if len(values) != 1 {
		return "", []FieldError{{Field: "q", Message: MsgInvalidQuery, Location: LocationQuery}}
	}
	return values[0], nil
}

func bodyError(field, msg string) FieldError {
	return FieldError{Field: field, Message: msg, Location: LocationBody}
}

func coerce(raw any, kind valueKind) (any, bool) {
	switch kind {
	case kindString:
		s, ok := raw.(string)
		if !ok {
			return nil, false
		}
		return strings.TrimSpace(s), true
	case kindBool:
		b, ok := raw.(bool)
		return b, ok
	case kindInteger:
		return toInt(raw)
	}
	return nil, false
}

func toInt(raw any) (any, bool) {
	var f float64
	switch n := raw.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			if i > math.MaxInt32 || i < math.MinInt32 {
				return nil, false
			}
			return int(i), true
		}
		v, err := n.Float64()
		if err != nil {
			return nil, false
		}
		f = v
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return nil, false
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return nil, false
	}
	return int(f), true
}

func assignValue(f *Fields, field string, v any) {
	switch field {
	case "name":
		s := v.(string)
		f.Name = &s
	case "type":
		t := Type(v.(string))
		f.Type = &t
	case "age":
		n := v.(int)
		f.Age = &n
	case "location":
		s := v.(string)
		f.Location = &s
	case "breed":
		s := v.(string)
		f.Breed = &s
	case "isAdopted":
		b := v.(bool)
		f.IsAdopted = &b
	}
}

func assignZero(f *Fields, field string) {
	if field == "breed" {
		empty := ""
		f.Breed = &empty
	}
}
