package pets

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"pet-adoption-api/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

const maxBodyBytes = 1 << 20

var errTrailingData = errors.New("unexpected data after JSON body")

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	p := pipeline{svc: svc, log: log}

	r.Route("/pets", func(pr chi.Router) {
		// /search va antes de /{id} para que "search" no se tome como ID.
		pr.Get("/search", p.run(validateSearchRequest, searchPets))

		pr.Post("/", p.run(validateCreateRequest, createPet))
		pr.Get("/", p.run(nil, listPets))

		pr.Get("/{id}", p.run(validateIDRequest, getPet))
		pr.Put("/{id}", p.run(validateReplaceRequest, replacePet))
		pr.Patch("/{id}", p.run(validatePatchRequest, patchPet))
		pr.Delete("/{id}", p.run(validateIDRequest, deletePet))
	})
}

// request es la entrada explícita del pipeline decode -> validate -> handle.
type request struct {
	ID    string
	Query url.Values
	Body  map[string]any

	// Completados por el validador.
	Fields Fields
	Text   string
}

type validateFunc func(req request) (request, []FieldError)

type handleFunc func(ctx context.Context, svc *Service, req request) response

type pipeline struct {
	svc *Service
	log logger.Logger
}

func (p pipeline) run(validate validateFunc, handle handleFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeRequest(w, r)
		if err != nil {
			res := fail(http.StatusBadRequest, "Invalid JSON body", err)
			writeJSON(w, res.Status, res.Body)
			return
		}

		if validate != nil {
			var errs []FieldError
			req, errs = validate(req)
			if len(errs) > 0 {
				res := invalid(errs)
				writeJSON(w, res.Status, res.Body)
				return
			}
		}

		res := handle(r.Context(), p.svc, req)
		if res.Status >= http.StatusInternalServerError {
			p.log.Error("pets request failed", map[string]any{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     res.Status,
				"error":      res.Body.Error,
				"request_id": chimw.GetReqID(r.Context()),
			})
		}
		writeJSON(w, res.Status, res.Body)
	}
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (request, error) {
	req := request{
		ID:    chi.URLParam(r, "id"),
		Query: r.URL.Query(),
	}

	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		return req, nil
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()

	var body map[string]any
	if err := dec.Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		return req, err
	}
	// Un solo valor JSON por body.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return req, errTrailingData
	}
	if body == nil {
		body = map[string]any{}
	}
	req.Body = body
	return req, nil
}

// -------------------------
// Validación
// -------------------------

func validateCreateRequest(req request) (request, []FieldError) {
	f, errs := ValidatePetBody(req.Body, ValidateFull)
	req.Fields = f
	return req, errs
}

func validateIDRequest(req request) (request, []FieldError) {
	return req, ValidateID(req.ID)
}

func validateReplaceRequest(req request) (request, []FieldError) {
	errs := ValidateID(req.ID)
	f, bodyErrs := ValidatePetBody(req.Body, ValidateFull)
	req.Fields = f
	return req, append(errs, bodyErrs...)
}

// validatePatchRequest aplica las mismas reglas que PUT pero solo a los campos presentes.
func validatePatchRequest(req request) (request, []FieldError) {
	errs := ValidateID(req.ID)
	f, bodyErrs := ValidatePetBody(req.Body, ValidatePartial)
	req.Fields = f
	return req, append(errs, bodyErrs...)
}

func validateSearchRequest(req request) (request, []FieldError) {
	q, errs := ValidateSearch(req.Query["q"])
	req.Text = q
	return req, errs
}

// -------------------------
// Operaciones
// -------------------------

// createPet godoc
// @Summary Crear mascota
// @Description Registra una mascota para adopción. isAdopted es false por defecto.
// @Tags pets
// @Accept json
// @Produce json
// @Param payload body petRequest true "Datos de la mascota"
// @Success 201 {object} petEnvelope
// @Failure 400 {object} errorEnvelope "validación o rechazo del store"
// @Failure 500 {object} errorEnvelope
// @Router /pets [post]
func createPet(ctx context.Context, svc *Service, req request) response {
	p, err := svc.Create(ctx, req.Fields)
	if err != nil {
		return writeFailure(err, "Could not create pet")
	}
	return ok(http.StatusCreated, toPetResponse(p))
}

// listPets godoc
// @Summary Listar mascotas
// @Description Devuelve todas las mascotas, más recientes primero. Sin paginación.
// @Tags pets
// @Produce json
// @Success 200 {object} petListEnvelope
// @Failure 500 {object} errorEnvelope
// @Router /pets [get]
func listPets(ctx context.Context, svc *Service, _ request) response {
	items, err := svc.List(ctx)
	if err != nil {
		return serverError(err)
	}
	return okList(items)
}

// getPet godoc
// @Summary Obtener mascota
// @Tags pets
// @Produce json
// @Param id path string true "ID de la mascota (UUID)"
// @Success 200 {object} petEnvelope
// @Failure 400 {object} errorEnvelope "ID inválido"
// @Failure 404 {object} errorEnvelope "Pet not found"
// @Failure 500 {object} errorEnvelope
// @Router /pets/{id} [get]
func getPet(ctx context.Context, svc *Service, req request) response {
	p, err := svc.GetByID(ctx, req.ID)
	switch {
	case errors.Is(err, ErrNotFound):
		return notFound()
	case err != nil:
		return serverError(err)
	}
	return ok(http.StatusOK, toPetResponse(p))
}

// replacePet godoc
// @Summary Reemplazar mascota
// @Description Reemplazo completo: los campos opcionales no enviados vuelven a su valor por defecto.
// @Tags pets
// @Accept json
// @Produce json
// @Param id path string true "ID de la mascota (UUID)"
// @Param payload body petRequest true "Datos completos de la mascota"
// @Success 200 {object} petEnvelope
// @Failure 400 {object} errorEnvelope
// @Failure 404 {object} errorEnvelope "Pet not found"
// @Failure 500 {object} errorEnvelope
// @Router /pets/{id} [put]
func replacePet(ctx context.Context, svc *Service, req request) response {
	p, err := svc.Replace(ctx, req.ID, req.Fields)
	if err != nil {
		return writeFailure(err, "Update failed")
	}
	return ok(http.StatusOK, toPetResponse(p))
}

// patchPet godoc
// @Summary Actualizar mascota parcialmente
// @Description Solo cambian los campos presentes en el body (ej: marcar como adoptada).
// @Tags pets
// @Accept json
// @Produce json
// @Param id path string true "ID de la mascota (UUID)"
// @Param payload body petRequest true "Campos a cambiar"
// @Success 200 {object} petEnvelope
// @Failure 400 {object} errorEnvelope
// @Failure 404 {object} errorEnvelope "Pet not found"
// @Failure 500 {object} errorEnvelope
// @Router /pets/{id} [patch]
func patchPet(ctx context.Context, svc *Service, req request) response {
	p, err := svc.Patch(ctx, req.ID, req.Fields)
	if err != nil {
		return writeFailure(err, "Patch failed")
	}
	return ok(http.StatusOK, toPetResponse(p))
}

// deletePet godoc
// @Summary Eliminar mascota
// @Tags pets
// @Produce json
// @Param id path string true "ID de la mascota (UUID)"
// @Success 200 {object} deleteEnvelope
// @Failure 400 {object} errorEnvelope "ID inválido"
// @Failure 404 {object} errorEnvelope "Pet not found"
// @Failure 500 {object} errorEnvelope
// @Router /pets/{id} [delete]
func deletePet(ctx context.Context, svc *Service, req request) response {
	_, err := svc.Delete(ctx, req.ID)
	switch {
	case errors.Is(err, ErrNotFound):
		return notFound()
	case err != nil:
		return serverError(err)
	}
	res := ok(http.StatusOK, struct{}{})
	res.Body.Message = "Pet deleted successfully"
	return res
}

// searchPets godoc
// @Summary Buscar mascotas
// @Description Substring sin distinguir mayúsculas sobre nombre o tipo. Sin ranking ni paginación.
// @Tags pets
// @Produce json
// @Param q query string true "Texto a buscar"
// @Success 200 {object} petListEnvelope
// @Failure 400 {object} errorEnvelope "q ausente o repetido"
// @Failure 500 {object} errorEnvelope
// @Router /pets/search [get]
func searchPets(ctx context.Context, svc *Service, req request) response {
	items, err := svc.Search(ctx, req.Text)
	if err != nil {
		return serverError(err)
	}
	return okList(items)
}

// writeFailure mapea errores de escritura: 404, 400 (rechazo del store) o 500.
func writeFailure(err error, message string) response {
	var ce *ConstraintError
	switch {
	case errors.Is(err, ErrNotFound):
		return notFound()
	case errors.As(err, &ce):
		res := fail(http.StatusBadRequest, message, ce)
		res.Body.Errors = ce.Fields
		return res
	default:
		return serverError(err)
	}
}

func notFound() response {
	return fail(http.StatusNotFound, "Pet not found", nil)
}

func serverError(err error) response {
	return fail(http.StatusInternalServerError, "Server Error", err)
}
