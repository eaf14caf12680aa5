package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"safe-harbor/internal/email"
)

var (
	ErrInvalidEmail     = errors.New("invalid email")
	ErrOTPNotRequested  = errors.New("otp not requested")
	ErrOTPInvalid       = errors.New("otp invalid")
	ErrRateLimited      = errors.New("rate limited")
	ErrEmailSendFailure = errors.New("email send failed")
)

// Los códigos valen 5 minutos, igual que en la plantilla del correo.
const otpTTL = 5 * time.Minute

// OTPService emite y verifica códigos de 4 dígitos ligados a un email.
type OTPService struct {
	logger  *zap.Logger
	store   OTPStore
	sender  email.Sender
	limiter OTPRateLimiter
}

func NewOTPService(logger *zap.Logger, store OTPStore, sender email.Sender, limiter OTPRateLimiter) *OTPService {
	if store == nil {
		store = NewMemoryOTPStore()
	}
	if limiter == nil {
		limiter = NewOTPRateLimiter(otpTTL, 3)
	}
	return &OTPService{
		logger:  logger,
		store:   store,
		sender:  sender,
		limiter: limiter,
	}
}

// Send genera un código nuevo, lo persiste con su vigencia y lo envía.
func (s *OTPService) Send(ctx context.Context, name, emailAddr string) error {
	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" {
		return ErrInvalidEmail
	}

	if s.limiter != nil && !s.limiter.Allow(emailAddr) {
		return ErrRateLimited
	}

	code, hash, err := generateOTP()
	if err != nil {
		return err
	}
	if err := s.store.Save(ctx, emailAddr, hash, otpTTL); err != nil {
		return err
	}

	if s.sender == nil {
		return ErrEmailSendFailure
	}
	if err := s.sender.SendPasswordOTP(ctx, name, emailAddr, code); err != nil {
		if s.logger != nil {
			s.logger.Warn("send otp email failed", zap.Error(err), zap.String("email", emailAddr))
		}
		return ErrEmailSendFailure
	}
	return nil
}

// Verify compara el código recibido y lo consume si es correcto.
func (s *OTPService) Verify(ctx context.Context, emailAddr, code string) error {
	emailAddr = normalizeEmail(emailAddr)
	code = strings.TrimSpace(code)
	if emailAddr == "" {
		return ErrInvalidEmail
	}
	if !isValidOTPCode(code) {
		return ErrOTPInvalid
	}

	stored, err := s.store.Get(ctx, emailAddr)
	if err != nil {
		return err
	}
	if stored == "" {
		return ErrOTPNotRequested
	}
	if !verifyOTP(code, stored) {
		return ErrOTPInvalid
	}
	return s.store.Delete(ctx, emailAddr)
}

func generateOTP() (string, string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", "", err
	}
	code := fmt.Sprintf("%04d", n.Int64())

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", "", err
	}
	saltStr := base64.StdEncoding.EncodeToString(salt)
	hashBytes := sha256.Sum256([]byte(saltStr + ":" + code))
	hash := base64.StdEncoding.EncodeToString(hashBytes[:])

	return code, saltStr + ":" + hash, nil
}

func verifyOTP(code, stored string) bool {
	parts := strings.Split(stored, ":")
	if len(parts) != 2 {
		return false
	}
	saltStr := parts[0]
	expectedHash := parts[1]
	hashBytes := sha256.Sum256([]byte(saltStr + ":" + code))
	hash := base64.StdEncoding.EncodeToString(hashBytes[:])
	return subtle.ConstantTimeCompare([]byte(hash), []byte(expectedHash)) == 1
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isValidOTPCode(code string) bool {
	if len(code) != 4 {
		return false
	}
	for _, r := range code {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
