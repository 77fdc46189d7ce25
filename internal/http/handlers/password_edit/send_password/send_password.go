package sendpassword

import (
	"encoding/json"
	"io"
	"net/http"
	c "passreset/internal/core/domain/common"
	e "passreset/internal/core/domain/errors"
	"passreset/internal/core/services"
	service "passreset/internal/core/services/request_password_reset"
	passwordedit "passreset/internal/http/handlers/password_edit"
	"passreset/internal/http/handlers/response"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type Handler struct {
	service    services.Service[service.Input, service.Result]
	isTestMode bool
}

func New(
	service services.Service[service.Input, service.Result],
	isTestMode bool,
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service, isTestMode: isTestMode}
}

type Input struct {
	Email string `json:"email"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	email := string(c.NewEmail(i.Email))
	return validation.Validate(email, is.Email, validation.Length(0, 512))
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	input := Input{}
	if err := input.FromJSON(r.Body); err != nil {
		response.RenderError(rw, passwordedit.MsgInvalidRequest, http.StatusBadRequest)
		return
	}
	if err := input.Validate(); err != nil {
		response.RenderError(rw, passwordedit.MsgInvalidEmail, http.StatusBadRequest)
		return
	}

	result, err := h.service.Run(r.Context(), service.Input{Email: input.Email})
	if h.isTestMode && result.Token != "" {
		rw.Header().Set(passwordedit.TestTokenHeader, string(result.Token))
	}
	if err != nil {
		passwordedit.RenderFlowError(rw, err, c.NewEmail(input.Email))
		return
	}

	response.RenderMessage(rw, passwordedit.MsgLinkSent, http.StatusOK)
}
