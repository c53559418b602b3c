package service

import (
	"context"
	"fmt"
	"time"

	"crm_portal_backend/internal/events"
	"crm_portal_backend/internal/leads/domain"
	"crm_portal_backend/internal/leads/ports"
	"crm_portal_backend/internal/leads/repository"
	"crm_portal_backend/platform/apperr"
	"crm_portal_backend/platform/phone"
	"crm_portal_backend/platform/sanitize"

	"github.com/google/uuid"
)

// RecordFollowUpParams carries one contact attempt from the transport layer.
type RecordFollowUpParams struct {
	FreshLeadID       uuid.UUID
	ConnectVia        string
	FollowUpType      string
	InteractionRating string
	Reason            string
	FollowUpDate      string // 2006-01-02
	FollowUpTime      string // 15:04 or 15:04:05
}

// RecordFollowUp applies one contact attempt. The follow-up upsert, history
// append, status mirror and terminal record all land in one transaction; the
// matching lifecycle event is published after commit.
func (s *Service) RecordFollowUp(ctx context.Context, params RecordFollowUpParams) (repository.FollowUpResult, error) {
	const op = "leads.RecordFollowUp"

	if !domain.ConnectVia(params.ConnectVia).Valid() {
		return repository.FollowUpResult{}, apperr.Validation("unknown connect_via: " + params.ConnectVia).WithOp(op)
	}
	fuType := domain.FollowUpType(params.FollowUpType)
	if !fuType.Valid() {
		return repository.FollowUpResult{}, apperr.Validation("unknown follow_up_type: " + params.FollowUpType).WithOp(op)
	}
	if !domain.InteractionRating(params.InteractionRating).Valid() {
		return repository.FollowUpResult{}, apperr.Validation("unknown interaction_rating: " + params.InteractionRating).WithOp(op)
	}

	date, err := time.Parse("2006-01-02", params.FollowUpDate)
	if err != nil {
		return repository.FollowUpResult{}, apperr.Validation("follow_up_date must be YYYY-MM-DD").WithOp(op)
	}
	clock, err := parseClock(params.FollowUpTime)
	if err != nil {
		return repository.FollowUpResult{}, apperr.Validation("follow_up_time must be HH:MM or HH:MM:SS").WithOp(op)
	}

	chain, err := s.store.GetLeadChain(ctx, params.FreshLeadID)
	if err != nil {
		return repository.FollowUpResult{}, err
	}

	result, err := s.store.RecordFollowUp(ctx, repository.FollowUpParams{
		FreshLeadID:       params.FreshLeadID,
		ConnectVia:        params.ConnectVia,
		FollowUpType:      params.FollowUpType,
		InteractionRating: params.InteractionRating,
		Reason:            sanitize.Text(params.Reason),
		FollowUpDate:      date,
		FollowUpTime:      clock,
	})
	if err != nil {
		return repository.FollowUpResult{}, err
	}

	s.log.LifecycleTransition("fresh_lead", params.FreshLeadID.String(), params.FollowUpType)
	s.publishFollowUpEvents(ctx, chain, result, fuType)
	s.scheduleReminder(ctx, chain, fuType, date, clock)

	return result, nil
}

func (s *Service) publishFollowUpEvents(ctx context.Context, chain repository.LeadChain, result repository.FollowUpResult, fuType domain.FollowUpType) {
	s.bus.Publish(ctx, events.FollowUpRecorded{
		BaseEvent:    events.NewBaseEvent(),
		FreshLeadID:  chain.FreshLead.ID,
		FollowUpID:   result.FollowUp.ID,
		FollowUpType: string(fuType),
		ExecutiveID:  chain.Lead.ExecutiveID,
	})

	if result.TerminalID == nil {
		return
	}
	switch fuType.Outcome() {
	case domain.OutcomeConverted:
		s.bus.Publish(ctx, events.LeadConverted{
			BaseEvent:         events.NewBaseEvent(),
			FreshLeadID:       chain.FreshLead.ID,
			ConvertedClientID: *result.TerminalID,
			ExecutiveID:       chain.Lead.ExecutiveID,
			ClientName:        chain.FreshLead.Name,
		})
	case domain.OutcomeClosed:
		s.bus.Publish(ctx, events.LeadClosed{
			BaseEvent:   events.NewBaseEvent(),
			FreshLeadID: chain.FreshLead.ID,
			CloseLeadID: *result.TerminalID,
			ExecutiveID: chain.Lead.ExecutiveID,
			ClientName:  chain.FreshLead.Name,
		})
	}
}

// scheduleReminder books a best-effort reminder for non-terminal follow-ups
// whose date and time are still ahead. Scheduling failures are logged only.
func (s *Service) scheduleReminder(ctx context.Context, chain repository.LeadChain, fuType domain.FollowUpType, date time.Time, clock string) {
	if s.reminders == nil || fuType.IsTerminal() {
		return
	}
	runAt, err := combineDateClock(date, clock)
	if err != nil || !runAt.After(s.now()) {
		return
	}
	err = s.reminders.ScheduleFollowUpReminder(ctx, ports.FollowUpReminder{
		FreshLeadID: chain.FreshLead.ID,
		ExecutiveID: chain.Lead.ExecutiveID,
		ClientName:  chain.FreshLead.Name,
	}, runAt)
	if err != nil {
		s.log.Warn("follow-up reminder scheduling failed",
			"fresh_lead_id", chain.FreshLead.ID.String(), "error", err.Error())
	}
}

// FinalizeLead creates the processed final snapshot for a fresh lead. The
// owning client lead must already be Closed, compared case-sensitively.
func (s *Service) FinalizeLead(ctx context.Context, freshLeadID, processPersonID uuid.UUID) (repository.ProcessedFinal, error) {
	const op = "leads.FinalizeLead"

	chain, err := s.store.GetLeadChain(ctx, freshLeadID)
	if err != nil {
		return repository.ProcessedFinal{}, err
	}

	if chain.ClientLead.Status != string(domain.StatusClosed) {
		return repository.ProcessedFinal{}, apperr.PreconditionFailed(
			fmt.Sprintf("client lead must be Closed before finalization, current status is %q", chain.ClientLead.Status)).
			WithOp(op).
			WithDetails(map[string]string{"status": chain.ClientLead.Status})
	}

	pf, err := s.store.CreateProcessedFinal(ctx, repository.CreateProcessedFinalParams{
		FreshLeadID:     freshLeadID,
		ProcessPersonID: processPersonID,
		Name:            chain.FreshLead.Name,
		Phone:           chain.FreshLead.Phone,
		Email:           chain.FreshLead.Email,
	})
	if err != nil {
		return repository.ProcessedFinal{}, err
	}

	s.log.LifecycleTransition("fresh_lead", freshLeadID.String(), "finalized")
	s.bus.Publish(ctx, events.LeadFinalized{
		BaseEvent:        events.NewBaseEvent(),
		FreshLeadID:      freshLeadID,
		ProcessedFinalID: pf.ID,
		ProcessPersonID:  processPersonID,
		ClientName:       chain.FreshLead.Name,
	})
	return pf, nil
}

// ScheduleMeetingParams carries one meeting request.
type ScheduleMeetingParams struct {
	FreshLeadID       uuid.UUID
	ExecutiveID       uuid.UUID
	ClientName        string
	ClientEmail       string
	ClientPhone       string
	ReasonForFollowup *string
	StartTime         time.Time
	EndTime           *time.Time
}

// ScheduleMeeting books a meeting and moves the owning client lead to Meeting
// in one transaction. The start must be in the future and the end, when
// given, after the start.
func (s *Service) ScheduleMeeting(ctx context.Context, params ScheduleMeetingParams) (repository.Meeting, error) {
	const op = "leads.ScheduleMeeting"

	if !params.StartTime.After(s.now()) {
		return repository.Meeting{}, apperr.Validation("meeting start time must be in the future").WithOp(op)
	}
	if params.EndTime != nil && !params.EndTime.After(params.StartTime) {
		return repository.Meeting{}, apperr.Validation("meeting end time must be after start time").WithOp(op)
	}
	if !emailPattern.MatchString(params.ClientEmail) {
		return repository.Meeting{}, apperr.Validation("invalid client email address").WithOp(op)
	}

	chain, err := s.store.GetLeadChain(ctx, params.FreshLeadID)
	if err != nil {
		return repository.Meeting{}, err
	}

	meeting, err := s.store.CreateMeetingWithStatus(ctx, repository.CreateMeetingParams{
		FreshLeadID:       params.FreshLeadID,
		ClientLeadID:      chain.ClientLead.ID,
		ExecutiveID:       params.ExecutiveID,
		ClientName:        params.ClientName,
		ClientEmail:       params.ClientEmail,
		ClientPhone:       phone.NormalizeE164(params.ClientPhone),
		ReasonForFollowup: params.ReasonForFollowup,
		StartTime:         params.StartTime,
		EndTime:           params.EndTime,
	})
	if err != nil {
		return repository.Meeting{}, err
	}

	s.log.LifecycleTransition("client_lead", chain.ClientLead.ID.String(), string(domain.StatusMeeting))
	s.bus.Publish(ctx, events.MeetingScheduled{
		BaseEvent:   events.NewBaseEvent(),
		MeetingID:   meeting.ID,
		FreshLeadID: params.FreshLeadID,
		ExecutiveID: params.ExecutiveID,
		ClientName:  params.ClientName,
		StartTime:   params.StartTime,
	})
	return meeting, nil
}

// GetCurrentFollowUp returns the current contact attempt for a fresh lead.
func (s *Service) GetCurrentFollowUp(ctx context.Context, freshLeadID uuid.UUID) (repository.FollowUp, error) {
	return s.store.GetCurrentFollowUp(ctx, freshLeadID)
}

// ListFollowUpHistory returns the contact-attempt ledger for a fresh lead.
func (s *Service) ListFollowUpHistory(ctx context.Context, freshLeadID uuid.UUID) ([]repository.FollowUpHistory, error) {
	return s.store.ListFollowUpHistory(ctx, freshLeadID)
}

// ListProcessedFinals returns a page of finalized leads.
func (s *Service) ListProcessedFinals(ctx context.Context, limit, offset int) ([]repository.ProcessedFinal, int, error) {
	return s.store.ListProcessedFinals(ctx, limit, offset)
}

// ListMeetings returns a page of all meetings.
func (s *Service) ListMeetings(ctx context.Context, limit, offset int) ([]repository.Meeting, int, error) {
	return s.store.ListMeetings(ctx, limit, offset)
}

// ListMeetingsByExecutive returns the executive's meetings.
func (s *Service) ListMeetingsByExecutive(ctx context.Context, executiveID uuid.UUID) ([]repository.Meeting, error) {
	return s.store.ListMeetingsByExecutive(ctx, executiveID)
}

func parseClock(value string) (string, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if _, err := time.Parse(layout, value); err == nil {
			return value, nil
		}
	}
	return "", fmt.Errorf("invalid clock value %q", value)
}

// combineDateClock interprets the pair in UTC, the same location the date
// itself was parsed in.
func combineDateClock(date time.Time, clock string) (time.Time, error) {
	layout := "2006-01-02 15:04"
	if len(clock) == len("15:04:05") {
		layout = "2006-01-02 15:04:05"
	}
	return time.Parse(layout, date.Format("2006-01-02")+" "+clock)
}
