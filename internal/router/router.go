package router

import (
	"net/http"

	"star-admin-api/internal/handler"
	"star-admin-api/internal/middleware"
	"star-admin-api/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Config holds the configuration for creating a router.
type Config struct {
	Handler               *handler.Handler
	AuthHandler           *handler.AuthHandler
	UserHandler           *handler.UserHandler
	SupportManagerHandler *handler.ManagerHandler
	StarManagerHandler    *handler.ManagerHandler
	VersionHandler        *handler.VersionHandler
	PolicyHandler         *handler.PolicyHandler
	AuthMiddleware        func(http.Handler) http.Handler

	UploadDir      string
	AllowedOrigins []string
	Logger         *zap.Logger
}

// PublicRoutes are reachable without a bearer token.
var PublicRoutes = []middleware.PublicRoute{
	{Method: http.MethodGet, Path: "/"},
	{Method: http.MethodGet, Path: "/api/health"},
	{Method: http.MethodGet, Path: storage.PublicPrefix},
	{Method: http.MethodPost, Path: "/api/admin/signup"},
	{Method: http.MethodPost, Path: "/api/admin/login"},
	{Method: http.MethodPost, Path: "/api/admin/forgot-password"},
	{Method: http.MethodPost, Path: "/api/admin/verify-otp"},
	{Method: http.MethodGet, Path: "/api/policyDocument/all"},
	{Method: http.MethodGet, Path: "/api/version/check"},
}

// New creates and configures the HTTP router.
func New(cfg Config) *chi.Mux {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if cfg.AuthMiddleware != nil {
		r.Use(cfg.AuthMiddleware)
	}

	if cfg.Handler != nil {
		r.Get("/", cfg.Handler.Root)
		r.Get("/api/health", cfg.Handler.Health)
	}

	if cfg.UploadDir != "" {
		fileServer := http.FileServer(storage.FilesOnly(http.Dir(cfg.UploadDir)))
		r.Handle(storage.PublicPrefix+"*", http.StripPrefix(storage.PublicPrefix, fileServer))
	}

	r.Route("/api", func(r chi.Router) {
		if cfg.AuthHandler != nil {
			r.Route("/admin", func(r chi.Router) {
				r.Post("/signup", cfg.AuthHandler.Signup)
				r.Post("/login", cfg.AuthHandler.Login)
				r.Post("/logout", cfg.AuthHandler.Logout)
				r.Post("/changePassword", cfg.AuthHandler.ChangePassword)
				r.Post("/forgot-password", cfg.AuthHandler.ForgotPassword)
				r.Post("/verify-otp", cfg.AuthHandler.VerifyOTP)
				r.Post("/reset-password", cfg.AuthHandler.ResetPassword)
			})
		}

		if cfg.UserHandler != nil {
			r.Route("/user", func(r chi.Router) {
				r.Get("/allUsers", cfg.UserHandler.ListUsers)
				r.Get("/allStars", cfg.UserHandler.ListStars)
				r.Get("/count", cfg.UserHandler.Count)
				r.Get("/byYear", cfg.UserHandler.ByYear)
				r.Put("/{id}", cfg.UserHandler.ToggleStatus)
			})
		}

		if cfg.SupportManagerHandler != nil {
			r.Route("/SupportManager", managerRoutes(cfg.SupportManagerHandler))
		}
		if cfg.StarManagerHandler != nil {
			r.Route("/starManager", managerRoutes(cfg.StarManagerHandler))
		}

		if cfg.VersionHandler != nil {
			r.Route("/version", func(r chi.Router) {
				r.Post("/add", cfg.VersionHandler.Add)
				r.Get("/android", cfg.VersionHandler.ListAndroid)
				r.Get("/ios", cfg.VersionHandler.ListIOS)
				r.Put("/update", cfg.VersionHandler.UpdateStatus)
				r.Get("/check", cfg.VersionHandler.Check)
			})
		}

		if cfg.PolicyHandler != nil {
			r.Route("/policyDocument", func(r chi.Router) {
				r.Post("/upload", cfg.PolicyHandler.Upload)
				r.Post("/add", cfg.PolicyHandler.Add)
				r.Put("/update", cfg.PolicyHandler.Update)
				r.Get("/all", cfg.PolicyHandler.List)
			})
		}
	})

	return r
}

func managerRoutes(h *handler.ManagerHandler) func(chi.Router) {
	return func(r chi.Router) {
		r.Post("/image", h.UploadImage)
		r.Post("/addnew", h.Create)
		r.Get("/all", h.List)
		r.Get("/count", h.Count)
		r.Put("/update", h.Update)
		r.Delete("/delete/{id}", h.Delete)
	}
}
