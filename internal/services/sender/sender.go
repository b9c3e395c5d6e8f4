// Package sender отправляет почтовые уведомления по сообщениям из брокера:
// предупреждения об истекающих абонементах и одноразовые коды администраторов.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
	"github.com/magabrotheeeer/gym-membership/internal/lib/smtp"
	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// Service отправляет письма через SMTP-транспорт.
type Service struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(transport smtp.TransportInterface, log *slog.Logger) *Service {
	return &Service{
		transport: transport,
		log:       log,
	}
}

// SendExpiringMembership отправляет участнику предупреждение о скором
// окончании абонемента. Тело сообщения - JSON models.MemberInfo.
func (s *Service) SendExpiringMembership(body []byte) error {
	var message models.MemberInfo
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal expiring membership message", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{message.Email}
	subject := "Уведомление о скором окончании абонемента"
	bodyText := fmt.Sprintf("Здравствуйте, %s!\n\nВаш абонемент по тарифу %s действует до %s.\n\nПожалуйста, продлите его заранее в отделении клуба или через приложение.",
		message.FullName, message.PlanName, message.EndDate.Format("02.01.2006"))

	return s.sendEmail(to, subject, bodyText)
}

// SendOTP отправляет администратору одноразовый код для сброса пароля.
// Тело сообщения - JSON models.OTPMessage.
func (s *Service) SendOTP(body []byte) error {
	var message models.OTPMessage
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal otp message", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{message.Email}
	subject := "Код для сброса пароля"
	bodyText := fmt.Sprintf("Здравствуйте!\n\nВаш код для сброса пароля: %s.\n\nКод действует 10 минут. Если вы не запрашивали сброс, проигнорируйте это письмо.",
		message.Code)

	return s.sendEmail(to, subject, bodyText)
}

func (s *Service) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
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
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", "to", to, "subject", subject)
	return nil
}
