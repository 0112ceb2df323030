package pets

import (
	"strings"
	"time"
)

// Type define los tipos de mascota admitidos.
// @Enum Dog, Cat, Rabbit, Other
type Type string

const (
	TypeDog    Type = "Dog"
	TypeCat    Type = "Cat"
	TypeRabbit Type = "Rabbit"
	TypeOther  Type = "Other"
)

// Types devuelve el conjunto cerrado de tipos, en orden estable.
func Types() []Type {
	return []Type{TypeDog, TypeCat, TypeRabbit, TypeOther}
}

func (t Type) Valid() bool {
	switch t {
	case TypeDog, TypeCat, TypeRabbit, TypeOther:
		return true
	default:
		return false
	}
}

const MaxNameLength = 50

// Pet representa una mascota publicada para adopción.
type Pet struct {
	ID string

	Name      string
	Type      Type
	Breed     string
	Age       int
	IsAdopted bool
	Location  string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Fields son los campos mutables que llegan en una escritura.
// Punteros: nil = campo no enviado.
type Fields struct {
	Name      *string
	Type      *Type
	Breed     *string
	Age       *int
	IsAdopted *bool
	Location  *string
}

// UpdateMode indica cómo se aplican los Fields sobre un registro existente.
type UpdateMode int

const (
	// UpdateReplace: los campos no enviados vuelven a su valor por defecto (PUT).
	UpdateReplace UpdateMode = iota
	// UpdateMerge: los campos no enviados conservan su valor (PATCH).
	UpdateMerge
)

func (m UpdateMode) String() string {
	if m == UpdateMerge {
		return "merge"
	}
	return "replace"
}

// Filter selecciona registros cuyo nombre o tipo contienen Text,
// sin distinguir mayúsculas. Text vacío = todos.
type Filter struct {
	Text string
}

func (f Filter) Matches(p Pet) bool {
	q := strings.ToLower(f.Text)
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(string(p.Type)), q)
}

// Sort define el orden por fecha de creación.
type Sort int

const (
	SortNewestFirst Sort = iota
	SortOldestFirst
)
