// Package services отправляет почтовые уведомления об истекающих правах,
// потребляя сообщения из очередей уведомлений.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/entitlement-service/internal/lib/sl"
	"github.com/magabrotheeeer/entitlement-service/internal/lib/smtp"
	"github.com/magabrotheeeer/entitlement-service/internal/models"
)

// SenderService превращает уведомления из очереди в письма.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(transport smtp.TransportInterface, log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendTrialExpiringNotice отправляет письмо о заканчивающемся пробном периоде.
func (s *SenderService) SendTrialExpiringNotice(body []byte) error {
	notice, err := s.decode(body)
	if err != nil {
		return err
	}

	subject := "Ваш пробный период заканчивается"
	text := fmt.Sprintf("Здравствуйте, %s!\n\n"+
		"Ваш пробный период заканчивается %s.\n"+
		"После этого премиум-функции станут недоступны.",
		notice.Username, notice.ExpiresAt)
	return s.sendEmail(notice.Email, subject, text)
}

// SendPremiumExpiringNotice отправляет письмо о заканчивающемся премиуме.
func (s *SenderService) SendPremiumExpiringNotice(body []byte) error {
	notice, err := s.decode(body)
	if err != nil {
		return err
	}

	subject := "Ваш премиум-доступ заканчивается"
	text := fmt.Sprintf("Здравствуйте, %s!\n\n"+
		"Ваш премиум-доступ заканчивается %s.\n"+
		"Обратитесь к администратору, чтобы продлить его.",
		notice.Username, notice.ExpiresAt)
	return s.sendEmail(notice.Email, subject, text)
}

func (s *SenderService) decode(body []byte) (*models.ExpiryNotice, error) {
	var notice models.ExpiryNotice
	if err := json.Unmarshal(body, &notice); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return nil, fmt.Errorf("error unmarshalling message: %w", err)
	}
	return &notice, nil
}

func (s *SenderService) sendEmail(to, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", s.transport.GetSMTPUser()), sl.Err(err))
		return err
	}
	if err := client.Rcpt(to); err != nil {
		s.log.Error("failed to set RCPT TO", slog.String("recipient", to), sl.Err(err))
		return err
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}
	if _, err := wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}
	if err := wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}
	if err := client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.String("to", to))
	return nil
}
