// File: /services/otp_service.go
package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"gopkg.in/gomail.v2"

	"crewcall-api/config"
)

const (
	otpLifetime       = 2 * time.Minute
	otpResendCooldown = 30 * time.Second
)

var (
	ErrOTPCooldown = errors.New("please wait before requesting another code")
	ErrOTPInvalid  = errors.New("invalid verification code")
	ErrOTPExpired  = errors.New("verification code has expired")
)

type otpEntry struct {
	Code      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// OTPService issues short-lived one-time codes. The store is process-local
// and not bound to any account record: codes vanish on restart, which is
// acceptable for this codebase's single-process demo posture.
type OTPService struct {
	config *config.Config
	dialer *gomail.Dialer

	codes map[string]otpEntry
	mutex sync.RWMutex

	now func() time.Time
}

func NewOTPService(cfg *config.Config) *OTPService {
	service := &OTPService{
		config: cfg,
		codes:  make(map[string]otpEntry),
		now:    time.Now,
	}
	if cfg != nil && cfg.SMTPUsername != "" {
		service.dialer = gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	}

	go service.cleanupExpiredCodes()

	return service
}

func (s *OTPService) generateCode() string {
	const digits = "0123456789"
	code := make([]byte, 6)
	for i := range code {
		num, _ := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		code[i] = digits[num.Int64()]
	}
	return string(code)
}

// Send issues a fresh code for the email and delivers it. Issuing again
// within the cooldown window is rejected.
func (s *OTPService) Send(email string) (string, error) {
	now := s.now()

	s.mutex.Lock()
	if existing, exists := s.codes[email]; exists && now.Sub(existing.IssuedAt) < otpResendCooldown {
		s.mutex.Unlock()
		return "", ErrOTPCooldown
	}
	code := s.generateCode()
	s.codes[email] = otpEntry{
		Code:      code,
		IssuedAt:  now,
		ExpiresAt: now.Add(otpLifetime),
	}
	s.mutex.Unlock()

	s.deliver(email, code)
	return code, nil
}

// Resend re-delivers the existing code if it is still valid, or issues a new
// one. Subject to the same cooldown as Send.
func (s *OTPService) Resend(email string) (string, error) {
	now := s.now()

	s.mutex.Lock()
	existing, exists := s.codes[email]
	if exists && now.Sub(existing.IssuedAt) < otpResendCooldown {
		s.mutex.Unlock()
		return "", ErrOTPCooldown
	}

	var code string
	if exists && now.Before(existing.ExpiresAt) {
		code = existing.Code
		existing.IssuedAt = now
		s.codes[email] = existing
	} else {
		code = s.generateCode()
		s.codes[email] = otpEntry{
			Code:      code,
			IssuedAt:  now,
			ExpiresAt: now.Add(otpLifetime),
		}
	}
	s.mutex.Unlock()

	s.deliver(email, code)
	return code, nil
}

// Verify checks the submitted code and consumes it on success.
func (s *OTPService) Verify(email, inputCode string) error {
	now := s.now()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	entry, exists := s.codes[email]
	if !exists {
		return ErrOTPInvalid
	}
	if now.After(entry.ExpiresAt) {
		delete(s.codes, email)
		return ErrOTPExpired
	}
	if entry.Code != inputCode {
		return ErrOTPInvalid
	}

	delete(s.codes, email)
	return nil
}

// deliver sends the code by email. Without SMTP credentials the code is only
// logged, which keeps local development working.
func (s *OTPService) deliver(email, code string) {
	if s.dialer == nil {
		fmt.Printf("OTP for %s: %s (no SMTP configured)\n", email, code)
		return
	}

	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail))
	m.SetHeader("To", email)
	m.SetHeader("Subject", "CrewCall - Your verification code")

	textBody := fmt.Sprintf(`Hello!

Your CrewCall verification code is: %s

This code will expire in 2 minutes.

If you didn't request this code, please ignore this email.

The CrewCall Team
`, code)

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2>CrewCall verification</h2>
        <p>Your verification code is:</p>
        <p style="font-size: 32px; font-weight: bold; letter-spacing: 8px;">%s</p>
        <p><small>This code will expire in 2 minutes.</small></p>
        <p>If you didn't request this code, please ignore this email.</p>
    </div>
</body>
</html>`, code)

	m.SetBody("text/plain", textBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		// Send failure is non-fatal; the code is still valid and logged
		fmt.Printf("Failed to send OTP email to %s: %v\n", email, err)
	}
}

// Cleanup expired verification codes
func (s *OTPService) cleanupExpiredCodes() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := s.now()
		s.mutex.Lock()
		for email, entry := range s.codes {
			if now.After(entry.ExpiresAt) {
				delete(s.codes, email)
			}
		}
		s.mutex.Unlock()
	}
}
