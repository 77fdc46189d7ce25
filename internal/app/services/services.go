package services

import (
	"passreset/internal/app/deps"
	"passreset/internal/core/services"
	purgeexpiredpasswordresettokens "passreset/internal/core/services/purge_expired_password_reset_tokens"
	requestpasswordreset "passreset/internal/core/services/request_password_reset"
	updatepassword "passreset/internal/core/services/update_password"
	validatepasswordresettoken "passreset/internal/core/services/validate_password_reset_token"
)

type Services struct {
	RequestPasswordReset       services.Service[requestpasswordreset.Input, requestpasswordreset.Result]
	ValidatePasswordResetToken services.Service[validatepasswordresettoken.Input, validatepasswordresettoken.Result]
	UpdatePassword             services.Service[updatepassword.Input, updatepassword.Result]

	PurgeExpiredPasswordResetTokens services.Service[
		purgeexpiredpasswordresettokens.Input,
		purgeexpiredpasswordresettokens.Result,
	]
}

func InitServices(deps *deps.Deps) *Services {
	s := &Services{}
	window := deps.Config.PasswordResetValidDuration()

	s.RequestPasswordReset = requestpasswordreset.NewWithResetEmailSending(
		deps.Logger,
		deps.PasswordResetAuditor,
		deps.EmailSender,
		deps.Config.BaseURL,
		requestpasswordreset.New(
			deps.Logger,
			deps.PasswordResetAuditor,
			deps.UserRepository,
			deps.PasswordResetTokenRepository,
			deps.PasswordResetTokenCodec,
			window,
			deps.Now,
		),
	)
	s.ValidatePasswordResetToken = validatepasswordresettoken.New(
		deps.Logger,
		deps.PasswordResetAuditor,
		deps.UserRepository,
		deps.PasswordResetTokenRepository,
		deps.PasswordResetTokenCodec,
		window,
		deps.Now,
	)
	s.UpdatePassword = updatepassword.New(
		deps.Logger,
		deps.PasswordResetAuditor,
		deps.UnitOfWork,
		deps.PasswordResetTokenCodec,
		deps.PasswordHasher,
		window,
		deps.Now,
	)
	s.PurgeExpiredPasswordResetTokens = purgeexpiredpasswordresettokens.New(
		deps.Logger,
		deps.PasswordResetTokenRepository,
		window,
		deps.Config.PasswordResetTokenRetention,
		deps.Now,
	)

	return s
}
