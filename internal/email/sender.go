package email

import (
	"context"
	"errors"
)

// Sender define la interfaz para envío de correos con código OTP.
type Sender interface {
	SendPasswordOTP(ctx context.Context, name, toEmail, code string) error
}

type disabledSender struct {
	reason string
}

func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) SendPasswordOTP(_ context.Context, _ string, _ string, _ string) error {
	if s.reason == "" {
		return errors.New("email sender disabled")
	}
	return errors.New(s.reason)
}
