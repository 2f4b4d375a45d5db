// Package router wires the chi router with middleware and handlers.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/leca/fw-gallery/internal/api"
	"github.com/leca/fw-gallery/internal/config"
	"github.com/leca/fw-gallery/internal/database"
	"github.com/leca/fw-gallery/internal/gallery"
	"github.com/leca/fw-gallery/internal/handler"
	"github.com/leca/fw-gallery/internal/storage"
)

// Server holds the application dependencies and HTTP router.
type Server struct {
	DB      database.Database
	Store   storage.Storage
	Gallery *gallery.Service
	Config  *config.Config
	Router  chi.Router
}

// New creates a Server with a fully configured chi router.
func New(db database.Database, store storage.Storage, cfg *config.Config) *Server {
	svc := gallery.NewService(db, store, cfg.ThumbnailMaxWidth)
	s := &Server{DB: db, Store: store, Gallery: svc, Config: cfg}

	h := &handler.Handler{Gallery: svc, Config: cfg}

	r := chi.NewRouter()

	// CORS first so preflight OPTIONS never hits auth.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Length", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Use(api.RequestLogger)
	r.Use(api.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.NotFound(w)
	})

	r.Get("/health", health)

	// Public read-only listing.
	r.Get("/images", h.ListImages)

	// Manager endpoints, gated by basic auth against the stored account.
	r.Route("/manager/images", func(r chi.Router) {
		r.Use(api.BasicAuth(db))
		r.Get("/", h.ManagerListImages)
		r.Post("/", h.UploadImage)
		r.Put("/{image_id}", h.UpdateImage)
		r.Delete("/{image_id}", h.DeleteImage)
	})

	// Stored originals and thumbnails.
	fileServer := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticRoot)))
	r.Get("/static/*", fileServer.ServeHTTP)

	s.Router = r
	return s
}

func health(w http.ResponseWriter, _ *http.Request) {
	api.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
