package service

import (
	"context"

	"Alumni_Network/internal/pkg"
	"Alumni_Network/internal/repository/redis"
)

var codeSubjects = map[string]string{
	redis.ScopeRegister: "create your account",
	redis.ScopeReset:    "reset your password",
}

type EmailService struct {
	mail  pkg.Sender
	codes *redis.CodeRepository
}

func NewEmailService(mail pkg.Sender, codes *redis.CodeRepository) *EmailService {
	return &EmailService{mail: mail, codes: codes}
}

// SendCode writes a pending code, mails it, then confirms it. A code whose
// mail failed never becomes usable.
func (s *EmailService) SendCode(ctx context.Context, scope, email string) error {
	action, ok := codeSubjects[scope]
	if !ok {
		return invalid("unknown scope %q", scope)
	}
	if email == "" {
		return invalid("email required")
	}
	code, err := pkg.RandDigits(6)
	if err != nil {
		return err
	}
	if err = s.codes.SetPending(ctx, scope, email, code); err != nil {
		return err
	}

	html := pkg.EmailCodeHTML(action, code, redis.DefaultEmailCodeTTL)
	if err = s.mail.Send(email, "Your verification code", html); err != nil {
		_ = s.codes.DeletePending(ctx, scope, email)
		return err
	}

	if err = s.codes.Confirm(ctx, scope, email); err != nil {
		_ = s.codes.DeletePending(ctx, scope, email)
		return err
	}
	return nil
}

// VerifyCode consumes the code; it cannot be used twice.
func (s *EmailService) VerifyCode(ctx context.Context, scope, email, code string) error {
	if err := s.codes.Consume(ctx, scope, email, code); err != nil {
		return ErrCodeInvalid
	}
	return nil
}
