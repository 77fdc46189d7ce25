package app

import (
	"fmt"
	"net/http"
	"passreset/internal/app/deps"
	"passreset/internal/app/services"
	checkreseturl "passreset/internal/http/handlers/password_edit/check_reset_url"
	sendpassword "passreset/internal/http/handlers/password_edit/send_password"
	updatepassword "passreset/internal/http/handlers/password_edit/update_password"
	"passreset/internal/http/handlers/request"
	"passreset/internal/http/handlers/response"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Options struct {
	AllowedOrigins []string
	IsTestMode     bool
	Gatherer       prometheus.Gatherer
}

func InitHttpServer(deps *deps.Deps, s *services.Services) *http.Server {
	router := NewRouter(s, Options{
		AllowedOrigins: deps.Config.AllowedOrigins,
		IsTestMode:     deps.Config.IsTestMode,
		Gatherer:       deps.Registry,
	})

	address := fmt.Sprintf("0.0.0.0:%d", deps.Config.Port)

	return &http.Server{
		Handler: router,
		Addr:    address,
	}
}

func NewRouter(s *services.Services, opts Options) http.Handler {
	passwordEditRouter := chi.NewRouter()
	passwordEditRouter.Method(
		http.MethodPost,
		"/send_password",
		sendpassword.New(s.RequestPasswordReset, opts.IsTestMode),
	)
	passwordEditRouter.Method(
		http.MethodGet,
		"/check_reset_url",
		checkreseturl.New(s.ValidatePasswordResetToken),
	)
	passwordEditRouter.Method(
		http.MethodPut,
		"/update_password",
		updatepassword.New(s.UpdatePassword),
	)

	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{request.REQUEST_ID_HEADER},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))
	router.Use(request.SetRequestToContext)
	router.Mount("/password_edit", passwordEditRouter)
	router.Get("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		response.RenderMessage(rw, "ok", http.StatusOK)
	})
	if opts.Gatherer != nil {
		router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	return router
}
