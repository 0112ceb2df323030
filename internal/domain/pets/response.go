package pets

import (
	"encoding/json"
	"net/http"
	"time"
)

// envelope es la forma común de todas las respuestas de la API.
type envelope struct {
	Success bool         `json:"success"`
	Count   *int         `json:"count,omitempty"`
	Data    any          `json:"data,omitempty"`
	Message string       `json:"message,omitempty"`
	Error   string       `json:"error,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// response es la salida de cada etapa del pipeline; se escribe tal cual.
type response struct {
	Status int
	Body   envelope
}

// petResponse representa una mascota devuelta por la API.
type petResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      Type      `json:"type" enums:"Dog,Cat,Rabbit,Other"`
	Breed     string    `json:"breed"`
	Age       int       `json:"age"`
	IsAdopted bool      `json:"isAdopted"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toPetResponse(p Pet) petResponse {
	return petResponse{
		ID:        p.ID,
		Name:      p.Name,
		Type:      p.Type,
		Breed:     p.Breed,
		Age:       p.Age,
		IsAdopted: p.IsAdopted,
		Location:  p.Location,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toPetResponses(items []Pet) []petResponse {
	out := make([]petResponse, 0, len(items))
	for _, p := range items {
		out = append(out, toPetResponse(p))
	}
	return out
}

func ok(status int, data any) response {
	return response{Status: status, Body: envelope{Success: true, Data: data}}
}

func okList(items []Pet) response {
	n := len(items)
	return response{Status: http.StatusOK, Body: envelope{Success: true, Count: &n, Data: toPetResponses(items)}}
}

func fail(status int, message string, err error) response {
	body := envelope{Success: false, Message: message}
	if err != nil {
		body.Error = err.Error()
	}
	return response{Status: status, Body: body}
}

func invalid(errs []FieldError) response {
	return response{
		Status: http.StatusBadRequest,
		Body:   envelope{Success: false, Message: "Validation failed", Errors: errs},
	}
}

// writeJSON está duplicado en router y middleware; por ahora cada paquete tiene el suyo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Tipos solo para la documentación (swag).

// petRequest es el body de create, PUT y PATCH.
type petRequest struct {
	Name      string `json:"name" maxLength:"50" example:"Dogwood"`
	Type      Type   `json:"type" enums:"Dog,Cat,Rabbit,Other" example:"Dog"`
	Breed     string `json:"breed" example:"Beagle"`
	Age       int    `json:"age" minimum:"0" example:"3"`
	IsAdopted bool   `json:"isAdopted" example:"false"`
	Location  string `json:"location" example:"Shelter A"`
}

type petEnvelope struct {
	Success bool        `json:"success"`
	Data    petResponse `json:"data"`
}

type petListEnvelope struct {
	Success bool          `json:"success"`
	Count   int           `json:"count"`
	Data    []petResponse `json:"data"`
}

type deleteEnvelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    struct{} `json:"data"`
}

type errorEnvelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Error   string       `json:"error,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}
