package router

import (
	"encoding/json"
	"net/http"

	"pet-adoption-api/internal/adapters/storage/memory"
	_ "pet-adoption-api/internal/docs"
	"pet-adoption-api/internal/domain/pets"
	"pet-adoption-api/internal/metrics"
	"pet-adoption-api/internal/middleware"
	"pet-adoption-api/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

const welcomeMessage = "Welcome to the Pet Adoption API! Access documentation at /api-docs"

type Options struct {
	// Opcional: si es nil se usa el store en memoria.
	Repo pets.Repository

	Logger logger.Logger

	// Registry recibe las métricas y se expone en /metrics. Nil: uno nuevo.
	Registry *prometheus.Registry

	// APIPrefix ya normalizado ("/api/v1" o "").
	APIPrefix string

	CORSOrigins []string
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	repo := opts.Repo
	if repo == nil {
		repo = memory.NewPetRepo()
	}

	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := metrics.New(reg)

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.ExposeRequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	// Metrics va por fuera de Recover para contar también los panics como 500.
	r.Use(middleware.Metrics(m))
	r.Use(middleware.Recover(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(origins))

	// Deben definirse antes de montar subrouters para que los hereden.
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"success": false,
			"message": "Resource Not Found",
		})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{
			"success": false,
			"message": "Method Not Allowed",
		})
	})

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(welcomeMessage))
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	// Swagger UI. El BasePath del doc lo fija main.
	r.Get("/api-docs", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/api-docs/index.html", http.StatusMovedPermanently)
	})
	r.Get("/api-docs/*", httpSwagger.Handler(httpSwagger.URL("/api-docs/doc.json")))

	svc := pets.NewService(repo, pets.WithRecorder(m))

	if opts.APIPrefix == "" {
		pets.RegisterRoutes(r, svc, log)
	} else {
		r.Route(opts.APIPrefix, func(api chi.Router) {
			pets.RegisterRoutes(api, svc, log)
		})
	}

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
