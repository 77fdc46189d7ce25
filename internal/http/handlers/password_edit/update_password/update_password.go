package updatepassword

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	c "passreset/internal/core/domain/common"
	e "passreset/internal/core/domain/errors"
	passwordreset "passreset/internal/core/domain/password_reset"
	"passreset/internal/core/domain/user"
	"passreset/internal/core/services"
	service "passreset/internal/core/services/update_password"
	passwordedit "passreset/internal/http/handlers/password_edit"
	"passreset/internal/http/handlers/response"

	validation "github.com/go-ozzo/ozzo-validation"
)

type Handler struct {
	service services.Service[service.Input, service.Result]
}

func New(service services.Service[service.Input, service.Result]) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Input struct {
	Token      string `json:"token"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Repassword string `json:"repassword"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Token, validation.Length(0, 1024)),
		validation.Field(&i.Email, validation.Length(0, 512)),
		validation.Field(&i.Password, validation.Length(0, 1024)),
		validation.Field(&i.Repassword, validation.Length(0, 1024)),
	)
}

type Result struct {
	Message string `json:"message"`
	Email   string `json:"email"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	input := Input{}
	if err := input.FromJSON(r.Body); err != nil {
		response.RenderError(rw, passwordedit.MsgInvalidRequest, http.StatusBadRequest)
		return
	}
	if err := input.Validate(); err != nil {
		response.RenderError(rw, passwordedit.MsgInvalidRequest, http.StatusBadRequest)
		return
	}

	result, err := h.service.Run(
		r.Context(),
		service.Input{
			Token:           passwordreset.RawToken(input.Token),
			Email:           input.Email,
			NewPassword:     user.RawPassword(input.Password),
			ConfirmPassword: user.RawPassword(input.Repassword),
		},
	)
	if errors.Is(err, passwordreset.ErrPersistence) {
		response.RenderError(rw, passwordedit.MsgPasswordNotSaved, http.StatusInternalServerError)
		return
	}
	if err != nil {
		passwordedit.RenderFlowError(rw, err, c.NewEmail(input.Email))
		return
	}

	response.Render(rw, Result{Message: passwordedit.MsgPasswordReset, Email: string(result.Email)}, http.StatusOK)
}
