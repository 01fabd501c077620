// Package email sends the app's transactional mail over SMTP.
package email

import (
	"fmt"
	"html"
	"strings"

	"github.com/studybuddy/backend/internal/config"
	"github.com/studybuddy/backend/internal/domain"
	gomail "gopkg.in/gomail.v2"
)

// Mailer is the outbound mail surface the usecases depend on.
type Mailer interface {
	// SendVerification delivers the account verification email with a
	// confirm link and a "this wasn't me" reject link.
	SendVerification(toEmail, name string, verifyCode, rejectCode string) error

	// SendReachOut delivers a study invitation from sender to recipient,
	// with the sender's profile summary and optional personal message.
	// Reply-To is set to the sender so the recipient can answer directly.
	SendReachOut(sender, recipient *domain.User, personalMessage *string) error
}

type smtpMailer struct {
	dialer          *gomail.Dialer
	from            string
	frontendBaseURL string
}

func NewSMTPMailer(cfg config.SMTPConfig, frontendBaseURL string) Mailer {
	return &smtpMailer{
		dialer:          gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:            cfg.From,
		frontendBaseURL: strings.TrimRight(frontendBaseURL, "/"),
	}
}

func (m *smtpMailer) SendVerification(toEmail, name, verifyCode, rejectCode string) error {
	verifyURL := fmt.Sprintf("%s/verify-email/%s", m.frontendBaseURL, verifyCode)
	rejectURL := fmt.Sprintf("%s/reject-email/%s", m.frontendBaseURL, rejectCode)

	greeting := "Hi"
	if name != "" {
		greeting = "Hi " + html.EscapeString(name)
	}

	body := fmt.Sprintf(`
		<p>%s,</p>
		<p>Someone signed up for Study Buddy with this email address. Click the
		link below to verify your account:</p>
		<p><a href="%s">Verify my account</a></p>
		<p>If this wasn't you, you can <a href="%s">reject this signup</a> and
		the account will not be activated.</p>
		<p>The link expires in 30 minutes.</p>
	`, greeting, verifyURL, rejectURL)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", "Verify Your Study Buddy Account")
	msg.SetBody("text/html", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

func (m *smtpMailer) SendReachOut(sender, recipient *domain.User, personalMessage *string) error {
	var profile strings.Builder
	writeProfileRow(&profile, "Major", sender.Major)
	writeProfileRow(&profile, "Academic year", sender.AcademicYear)
	if len(sender.ClassesTaking) > 0 {
		fmt.Fprintf(&profile, "<li><strong>Currently taking:</strong> %s</li>",
			html.EscapeString(strings.Join(sender.ClassesTaking, ", ")))
	}
	writeProfileRow(&profile, "Learns best when", sender.LearnBestWhen)
	writeProfileRow(&profile, "Favorite study spot", sender.FavoriteStudySpot)

	messageBlock := ""
	if personalMessage != nil && *personalMessage != "" {
		messageBlock = fmt.Sprintf(
			`<p><em>"%s"</em></p>`, html.EscapeString(*personalMessage))
	}

	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p><strong>%s</strong> wants to study with you!</p>
		%s
		<ul>%s</ul>
		<p>Reply to this email to get in touch.</p>
	`,
		html.EscapeString(recipient.DisplayName()),
		html.EscapeString(sender.DisplayName()),
		messageBlock,
		profile.String(),
	)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", recipient.SchoolEmail)
	msg.SetHeader("Reply-To", sender.SchoolEmail)
	msg.SetHeader("Subject", fmt.Sprintf("%s wants to study with you!", sender.DisplayName()))
	msg.SetBody("text/html", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send reach out email: %w", err)
	}
	return nil
}

func writeProfileRow(b *strings.Builder, label string, value *string) {
	if value == nil || *value == "" {
		return
	}
	fmt.Fprintf(b, "<li><strong>%s:</strong> %s</li>", label, html.EscapeString(*value))
}
