package email

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"github.com/vpay/vpay-backend/internal/config"
	"github.com/vpay/vpay-backend/internal/models"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendPaymentReceipt sends a receipt email after a payment settles
func (s *Sender) SendPaymentReceipt(to, name string, t *models.Transaction, balance float64) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Payment Receipt"

	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Your payment of %.2f to %s (%s) was successful.\n"+
			"Transaction time: %s\n"+
			"Current balance: %.2f\n"+
			"\nBest regards,\nVpay",
		name, t.Amount, t.Biller, t.Category,
		time.Unix(t.Timestamp, 0).Format("2006-01-02 15:04:05"), balance,
	)
	e.Text = []byte(body)

	return s.send(e, to)
}

// SendPendingReminder reminds a user about a payment that was started but
// never verified
func (s *Sender) SendPendingReminder(to, name string, t *models.Transaction) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Pending Payment Reminder"

	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Your payment of %.2f to %s started on %s has not been completed.\n"+
			"Please finish the payment in the app, or it will remain pending.\n"+
			"\nBest regards,\nVpay",
		name, t.Amount, t.Biller,
		time.Unix(t.Timestamp, 0).Format("2006-01-02 15:04:05"),
	)
	e.Text = []byte(body)

	return s.send(e, to)
}

func (s *Sender) send(e *email.Email, to string) error {
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
