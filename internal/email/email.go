// Package email sends transactional mail for lifecycle milestones.
package email

import "context"

// Sender is the outbound mail surface the notification module depends on.
type Sender interface {
	SendLeadConvertedEmail(ctx context.Context, toEmail, clientName string) error
	SendLeadFinalizedEmail(ctx context.Context, toEmail, clientName string) error
	SendMeetingScheduledEmail(ctx context.Context, toEmail, clientName, startTime string) error
}

// NopSender discards all mail. Used when SMTP is not configured.
type NopSender struct{}

func (NopSender) SendLeadConvertedEmail(context.Context, string, string) error { return nil }
func (NopSender) SendLeadFinalizedEmail(context.Context, string, string) error { return nil }
func (NopSender) SendMeetingScheduledEmail(context.Context, string, string, string) error {
	return nil
}
