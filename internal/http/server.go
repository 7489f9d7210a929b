package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/hussain2580/school-mangment/internal/auth"
	"github.com/hussain2580/school-mangment/internal/chat"
	"github.com/hussain2580/school-mangment/internal/config"
	"github.com/hussain2580/school-mangment/internal/model"
	"github.com/hussain2580/school-mangment/internal/store"
)

type Server struct {
	cfg      config.Config
	logger   zerolog.Logger
	store    store.Store
	chat     chat.Registry
	issuer   auth.Issuer
	validate *validator.Validate
}

func NewServer(cfg config.Config, logger zerolog.Logger, st store.Store, registry chat.Registry, issuer auth.Issuer) *Server {
	return &Server{
		cfg:      cfg,
		logger:   logger,
		store:    st,
		chat:     registry,
		issuer:   issuer,
		validate: validator.New(),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		MaxAge:         300,
	}))
	r.Use(httprate.LimitByIP(1000, 15*time.Minute))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", s.handleLogin)
			r.Post("/{role}/login", s.handleRoleLogin)
			r.With(s.authMiddleware).Get("/me", s.handleMe)

			r.Route("/admin", func(r chi.Router) {
				r.Post("/login", s.handleAdminLogin)

				r.Group(func(r chi.Router) {
					r.Use(s.authMiddleware, s.requireRole(model.RoleAdmin))
					r.Post("/create-teacher", s.handleCreateTeacher)
					r.Post("/create-student", s.handleCreateStudent)
					r.Get("/teachers", s.handleListTeachers)
					r.Get("/students", s.handleListStudents)
					r.Get("/dashboard", s.handleDashboard)
					r.Put("/reset-password/{id}", s.handleResetPassword)
					r.Put("/users/{id}", s.handleUpdateUser)
					r.Delete("/users/{id}", s.handleDeleteUser)
				})
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.authMiddleware, s.requireRole(model.RoleAdmin))
			r.Post("/create-teacher", s.handleCreateTeacher)
			r.Post("/create-student", s.handleCreateStudent)
			r.Get("/teachers", s.handleListTeachers)
			r.Get("/students", s.handleListStudents)
		})

		r.Route("/chat", func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Post("/send", s.handleChatSend)
			r.Get("/messages/{chatId}", s.handleChatMessages)
			r.Get("/list/{userRole}", s.handleChatList)
		})

		if s.cfg.Development() {
			r.Post("/test/create-admin", s.handleTestCreateAdmin)
			r.Post("/test/create-sample-users", s.handleTestCreateSampleUsers)
		}
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"status":  "ok",
	})
}

// Auth

type identityKey struct{}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "No token provided")
			return
		}

		identity, err := s.issuer.Validate(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey{}, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireRole(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := identityFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "No token provided")
				return
			}
			for _, role := range roles {
				if identity.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, http.StatusForbidden, "Forbidden: insufficient role")
		})
	}
}

func identityFromContext(ctx context.Context) (auth.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(auth.Identity)
	return identity, ok
}

// resolveUser maps the request's identity back to a user record. Role-tag
// tokens carry no user id, so they resolve to the oldest active user of
// their role.
func (s *Server) resolveUser(ctx context.Context) (model.User, error) {
	identity, ok := identityFromContext(ctx)
	if !ok {
		return model.User{}, auth.ErrInvalidToken
	}
	if identity.UserID != "" {
		user, err := s.store.FindByID(ctx, identity.UserID)
		if err != nil {
			return model.User{}, err
		}
		if !user.IsActive {
			return model.User{}, store.ErrNotFound
		}
		return user, nil
	}
	return s.store.FindFirstByRole(ctx, identity.Role)
}

// Helpers

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}

func (s *Server) writeServerError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	message := "Internal Server Error"
	if s.cfg.Development() {
		message = "Internal Server Error: " + err.Error()
	}
	writeError(w, http.StatusInternalServerError, message)
}

func (s *Server) checkValid(w http.ResponseWriter, req interface{}) bool {
	err := s.validate.Struct(req)
	if err == nil {
		return true
	}
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		writeError(w, http.StatusBadRequest, validationMessage(fieldErrors[0]))
		return false
	}
	writeError(w, http.StatusBadRequest, "Validation error")
	return false
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "email":
		return "Please enter a valid email"
	case "len", "numeric":
		return "Please enter a valid 10-digit phone number"
	case "oneof":
		return "Class must be between 1 and 12"
	case "min":
		if e.Field() == "Password" || e.Field() == "NewPassword" {
			return "Password must be at least 6 characters"
		}
		return "Invalid value for " + e.Field()
	case "max":
		return e.Field() + " is too long"
	default:
		return "Invalid value for " + e.Field()
	}
}

func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			event := logger.Info()
			if ww.Status() >= 500 {
				event = logger.Error()
			} else if ww.Status() >= 400 {
				event = logger.Warn()
			}
			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("latency", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("http request")
		})
	}
}
