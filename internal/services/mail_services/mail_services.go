package mail_services

import (
	"errors"
	"fmt"
	"net/smtp"
)

// ErrSendFailed is surfaced to the client as 503: the request itself
// was fine, the mail infrastructure was not.
var ErrSendFailed = errors.New("could not send email, please try again later")

type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	Sender   string
}

// MailService sends transactional mail over SMTP. It is constructed
// once in main and passed to whoever needs it; there is no package
// state.
type MailService struct {
	config Config
	server string
	auth   smtp.Auth
}

func New(config Config) *MailService {
	return &MailService{
		config: config,
		server: config.Host + ":" + config.Port,
		auth:   smtp.PlainAuth("", config.Username, config.Password, config.Host),
	}
}

func (s *MailService) configured() bool {
	return s.config.Host != "" && s.config.Sender != ""
}

// SendPasswordReset mails the reset link. The link expires after five
// minutes, which the message body tells the recipient.
func (s *MailService) SendPasswordReset(recipient, resetLink string) error {
	message := passwordForgottenMessage(resetLink)
	if err := s.send(recipient, "Reset your password", message); err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	return nil
}

func (s *MailService) send(recipient, subject, message string) error {
	if !s.configured() {
		return errors.New("mail service not configured")
	}

	msg := []byte(fmt.Sprintf(
		"To: %s\r\nFrom: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		recipient, s.config.Sender, subject, message))

	return smtp.SendMail(s.server, s.auth, s.config.Sender, []string{recipient}, msg)
}

func passwordForgottenMessage(link string) string {
	return fmt.Sprintf(`Dear User,

Thank you for requesting to reset your password.

Please click on the following link to get to the reset form:

%s

This link will expire in 5 minutes.

If you didn't request a password reset, please ignore this email and nothing will happen.

Kind regards,
Your Kanban-Team
`, link)
}
