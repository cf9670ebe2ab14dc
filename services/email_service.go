package services

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// EmailService sends transactional mail over SMTP. It implements Mailer.
type EmailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService() (*EmailService, error) {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")

	if smtpHost == "" || smtpUser == "" || smtpPass == "" {
		return nil, fmt.Errorf("SMTP configuration missing")
	}

	port, err := strconv.Atoi(smtpPort)
	if err != nil {
		port = 587
	}

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = smtpUser
	}

	return &EmailService{dialer: gomail.NewDialer(smtpHost, port, smtpUser, smtpPass), from: from}, nil
}

func (s *EmailService) SendPasswordResetOTP(to, otp string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Password Reset Code")

	body := fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
    <h2>Password Reset Request</h2>
    <p>Use the code below to reset your password. It expires in 10 minutes.</p>
    <p style="font-size: 32px; font-weight: bold; letter-spacing: 8px;">%s</p>
    <p style="color: #666; font-size: 12px;">If you did not request this, you can ignore this email.</p>
</div>`, otp)

	m.SetBody("text/html", body)
	return s.dialer.DialAndSend(m)
}
