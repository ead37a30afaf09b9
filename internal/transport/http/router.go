package http

import (
	"net/http"

	"github.com/fileshare-api/internal/application/identity"
	"github.com/fileshare-api/internal/application/registry"
	"github.com/fileshare-api/internal/application/transfer"
	"github.com/fileshare-api/internal/config"
	"github.com/fileshare-api/internal/transport/http/handler"
	appmiddleware "github.com/fileshare-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router. Paths match the
// original service exactly.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second with a burst of 10, applied to signup and login.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	identitySvc := identity.NewService(deps.UserRepo, deps.Mailer, deps.JWTProvider, cfg.AppBaseURL)
	registrySvc := registry.NewService(deps.FileRepo)
	transferSvc := transfer.NewService(deps.Blobs, registrySvc, cfg.AllowedExtensions)

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(identitySvc)
	fileH := handler.NewFileHandler(transferSvc, registrySvc, cfg.AppBaseURL, cfg.MaxUploadSize)

	r.Get("/", healthH.Index)

	r.Route("/auth", func(r chi.Router) {
		r.With(sensitiveRL.Limit).Post("/signup", authH.Signup)
		r.Get("/verify/{token}", authH.Verify)
		r.With(sensitiveRL.Limit).Post("/login", authH.Login)
	})

	r.Route("/file", func(r chi.Router) {
		r.Use(appmiddleware.Auth(deps.JWTProvider))

		r.Post("/upload", fileH.Upload)
		r.Get("/list", fileH.List)
		r.Get("/download/{fileId}", fileH.DownloadLink)
		r.Get("/download-file/{token}", fileH.DownloadFile)
	})

	return r
}
