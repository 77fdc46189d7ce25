package email

import (
	"context"
	"encoding/json"
	"errors"
	passwordreset "passreset/internal/core/domain/password_reset"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/golang-module/carbon/v2"
)

type sesClient interface {
	SendTemplatedEmail(
		ctx context.Context,
		params *ses.SendTemplatedEmailInput,
		optFns ...func(*ses.Options),
	) (*ses.SendTemplatedEmailOutput, error)
}

type EmailSender struct {
	ses sesClient
	// This address must be verified with Amazon SES.
	sender                string
	passwordResetTemplate string
}

func NewEmailSender(awsConfig aws.Config, sender string, passwordResetTemplate string) *EmailSender {
	return newEmailSender(ses.NewFromConfig(awsConfig), sender, passwordResetTemplate)
}

func newEmailSender(client sesClient, sender string, passwordResetTemplate string) *EmailSender {
	return &EmailSender{
		ses:                   client,
		sender:                sender,
		passwordResetTemplate: passwordResetTemplate,
	}
}

func (s *EmailSender) SendPasswordResetEmail(ctx context.Context, email passwordreset.Email) error {
	if email.To.Email.IsEmpty() {
		return errors.New("user email is not defined")
	}

	templateParamsBytes, err := json.Marshal(NewPasswordResetTemplateParams(email))
	if err != nil {
		return err
	}
	templateParams := string(templateParamsBytes)

	to := string(email.To.Email)
	_, err = s.ses.SendTemplatedEmail(
		ctx,
		&ses.SendTemplatedEmailInput{
			Source: &s.sender,
			Destination: &types.Destination{
				CcAddresses: []string{},
				ToAddresses: []string{to},
			},
			Template:     &s.passwordResetTemplate,
			TemplateData: &templateParams,
		},
	)
	return err
}

type PasswordResetTemplateParams struct {
	PasswordResetUrl string `json:"passwordResetUrl"`
	Name             string `json:"name"`
	ExpiresAt        string `json:"expiresAt"`
}

func NewPasswordResetTemplateParams(email passwordreset.Email) PasswordResetTemplateParams {
	name := email.To.Name
	if name == "" {
		name = string(email.To.Email)
	}
	return PasswordResetTemplateParams{
		PasswordResetUrl: email.ResetURL.String(),
		Name:             name,
		ExpiresAt:        FormatExpiresAt(email.ExpiresAt),
	}
}

func FormatExpiresAt(t time.Time) string {
	return carbon.Time2Carbon(t).ToDateTimeString(carbon.UTC) + " UTC"
}
