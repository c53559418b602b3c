package email

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements Sender over a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

var _ Sender = (*SMTPSender)(nil)

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (s *SMTPSender) SendLeadConvertedEmail(ctx context.Context, toEmail, clientName string) error {
	content, err := renderEmailTemplate("milestone.html", baseEmailData{
		Title:   subjectLeadConverted,
		Heading: "Lead converted",
		Body:    fmt.Sprintf("The lead %s has been converted.", clientName),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectLeadConverted, content)
}

func (s *SMTPSender) SendLeadFinalizedEmail(ctx context.Context, toEmail, clientName string) error {
	content, err := renderEmailTemplate("milestone.html", baseEmailData{
		Title:   subjectLeadFinalized,
		Heading: "Lead processing completed",
		Body:    fmt.Sprintf("Processing of the lead %s has been completed.", clientName),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectLeadFinalized, content)
}

func (s *SMTPSender) SendMeetingScheduledEmail(ctx context.Context, toEmail, clientName, startTime string) error {
	content, err := renderEmailTemplate("milestone.html", baseEmailData{
		Title:   subjectMeetingScheduled,
		Heading: "Meeting scheduled",
		Body:    fmt.Sprintf("A meeting with %s is scheduled for %s.", clientName, startTime),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectMeetingScheduled, content)
}
