package middleware

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestIDHeader es el header donde se devuelve el id del request.
const RequestIDHeader = "X-Request-Id"

// ExposeRequestID copia el id generado por chimw.RequestID a la respuesta.
// Debe ir después de chimw.RequestID.
func ExposeRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimw.GetReqID(r.Context()); id != "" {
			w.Header().Set(RequestIDHeader, id)
		}
		next.ServeHTTP(w, r)
	})
}
