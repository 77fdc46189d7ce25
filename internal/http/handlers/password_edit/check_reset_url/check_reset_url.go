package checkreseturl

import (
	"net/http"
	c "passreset/internal/core/domain/common"
	e "passreset/internal/core/domain/errors"
	passwordreset "passreset/internal/core/domain/password_reset"
	"passreset/internal/core/services"
	service "passreset/internal/core/services/validate_password_reset_token"
	passwordedit "passreset/internal/http/handlers/password_edit"
	"passreset/internal/http/handlers/response"
	"time"
)

const MaxTokenLength = 1024

type Handler struct {
	service services.Service[service.Input, service.Result]
}

func New(service services.Service[service.Input, service.Result]) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Result struct {
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	token := c.NewOptional(
		passwordreset.RawToken(query.Get(passwordreset.TokenQueryParam)),
		query.Has(passwordreset.TokenQueryParam),
	)
	if len(token.Value) > MaxTokenLength {
		response.RenderError(rw, passwordedit.MsgLinkInvalid, http.StatusUnprocessableEntity)
		return
	}

	result, err := h.service.Run(r.Context(), service.Input{Token: token})
	if err != nil {
		passwordedit.RenderFlowError(rw, err, "")
		return
	}

	response.Render(rw, Result{Email: string(result.Email), ExpiresAt: result.ExpiresAt}, http.StatusOK)
}
