// Package service implements the lead lifecycle operations. Each operation is
// atomic: multi-step mutations run inside one repository transaction, and
// event publication happens only after commit, best-effort.
package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"crm_portal_backend/internal/events"
	"crm_portal_backend/internal/leads/domain"
	"crm_portal_backend/internal/leads/ports"
	"crm_portal_backend/internal/leads/repository"
	"crm_portal_backend/platform/apperr"
	"crm_portal_backend/platform/logger"
	"crm_portal_backend/platform/phone"
	"crm_portal_backend/platform/sanitize"

	"github.com/google/uuid"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Service orchestrates the lead lifecycle.
type Service struct {
	store     repository.Store
	users     ports.UserDirectory
	bus       events.Bus
	reminders ports.ReminderScheduler
	log       *logger.Logger
	now       func() time.Time
}

// New creates the lifecycle service. reminders may be nil when no scheduler
// backend is configured.
func New(store repository.Store, users ports.UserDirectory, bus events.Bus, reminders ports.ReminderScheduler, log *logger.Logger) *Service {
	return &Service{
		store:     store,
		users:     users,
		bus:       bus,
		reminders: reminders,
		log:       log,
		now:       time.Now,
	}
}

// CreateClientLead registers a single inbound client lead.
func (s *Service) CreateClientLead(ctx context.Context, params repository.CreateClientLeadParams) (repository.ClientLead, error) {
	if !emailPattern.MatchString(params.Email) {
		return repository.ClientLead{}, apperr.Validation("invalid email address").WithOp("leads.CreateClientLead")
	}
	params.Name = sanitize.Text(params.Name)
	params.Source = sanitize.TextPtr(params.Source)
	params.Phone = phone.NormalizeE164(params.Phone)
	return s.store.CreateClientLead(ctx, params)
}

// ImportClientLeads ingests a CSV stream of name,email,phone[,source] rows.
// The header row is skipped when present. The whole batch imports or none of
// it does.
func (s *Service) ImportClientLeads(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var batch []repository.CreateClientLeadParams
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, apperr.Wrap(apperr.KindValidation, fmt.Sprintf("malformed CSV at line %d", line+1), err)
		}
		line++
		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "name") {
			continue
		}
		if len(record) < 3 {
			return 0, apperr.Validation(fmt.Sprintf("line %d: expected name,email,phone", line))
		}
		name := strings.TrimSpace(record[0])
		email := strings.TrimSpace(record[1])
		if name == "" || !emailPattern.MatchString(email) {
			return 0, apperr.Validation(fmt.Sprintf("line %d: missing name or invalid email", line))
		}
		p := repository.CreateClientLeadParams{
			Name:  sanitize.Text(name),
			Email: email,
			Phone: phone.NormalizeE164(strings.TrimSpace(record[2])),
		}
		if len(record) > 3 && strings.TrimSpace(record[3]) != "" {
			src := strings.TrimSpace(record[3])
			p.Source = &src
		}
		batch = append(batch, p)
	}
	if len(batch) == 0 {
		return 0, apperr.Validation("no client leads in upload")
	}
	return s.store.BulkCreateClientLeads(ctx, batch)
}

// GetClientLead returns one client lead.
func (s *Service) GetClientLead(ctx context.Context, id uuid.UUID) (repository.ClientLead, error) {
	return s.store.GetClientLeadByID(ctx, id)
}

// ListClientLeads returns a page of client leads.
func (s *Service) ListClientLeads(ctx context.Context, params repository.ListClientLeadsParams) ([]repository.ClientLead, int, error) {
	if params.Status != "" && !domain.ClientLeadStatus(params.Status).Valid() {
		return nil, 0, apperr.Validation("unknown status filter: " + params.Status)
	}
	return s.store.ListClientLeads(ctx, params)
}

// UpdateClientLeadStatus moves a client lead to a new status, checked against
// the transition table.
func (s *Service) UpdateClientLeadStatus(ctx context.Context, id uuid.UUID, status string) (repository.ClientLead, error) {
	to := domain.ClientLeadStatus(status)
	if !to.Valid() {
		return repository.ClientLead{}, apperr.Validation("unknown status: " + status)
	}

	current, err := s.store.GetClientLeadByID(ctx, id)
	if err != nil {
		return repository.ClientLead{}, err
	}
	from := domain.ClientLeadStatus(current.Status)
	if !domain.CanTransition(from, to) {
		return repository.ClientLead{}, apperr.Conflict(
			fmt.Sprintf("cannot move client lead from %s to %s", from, to))
	}

	updated, err := s.store.UpdateClientLeadStatus(ctx, id, status)
	if err != nil {
		return repository.ClientLead{}, err
	}
	s.log.LifecycleTransition("client_lead", id.String(), status)
	return updated, nil
}

// DeleteClientLead removes a client lead and its full descendant chain.
func (s *Service) DeleteClientLead(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteClientLead(ctx, id)
}

// AssignExecutive links a client lead to an executive. Repeating the call for
// the same pair is a no-op; a different executive takes the lead over.
// The client lead's status is not touched.
func (s *Service) AssignExecutive(ctx context.Context, clientLeadID uuid.UUID, executiveUsername string) (repository.Lead, error) {
	const op = "leads.AssignExecutive"

	if _, err := s.store.GetClientLeadByID(ctx, clientLeadID); err != nil {
		return repository.Lead{}, err
	}

	exec, err := s.users.GetByUsername(ctx, executiveUsername)
	if err != nil {
		return repository.Lead{}, apperr.NotFound("executive not found: " + executiveUsername).WithOp(op)
	}
	if exec.Role != "Executive" {
		return repository.Lead{}, apperr.Validation(
			fmt.Sprintf("user %s has role %s, not Executive", executiveUsername, exec.Role)).WithOp(op)
	}

	lead, err := s.store.UpsertLeadAssignment(ctx, clientLeadID, exec.ID, exec.Username)
	if err != nil {
		return repository.Lead{}, err
	}

	s.bus.Publish(ctx, events.LeadAssigned{
		BaseEvent:    events.NewBaseEvent(),
		ClientLeadID: clientLeadID,
		LeadID:       lead.ID,
		ExecutiveID:  exec.ID,
		Executive:    exec.Username,
	})
	return lead, nil
}

// CreateFreshLead materializes the working record for an assigned lead,
// copying contact details from the client lead.
func (s *Service) CreateFreshLead(ctx context.Context, leadID uuid.UUID) (repository.FreshLead, error) {
	lead, err := s.store.GetLeadByID(ctx, leadID)
	if err != nil {
		return repository.FreshLead{}, err
	}
	clientLead, err := s.store.GetClientLeadByID(ctx, lead.ClientLeadID)
	if err != nil {
		return repository.FreshLead{}, err
	}

	fl, err := s.store.CreateFreshLead(ctx, repository.CreateFreshLeadParams{
		LeadID: leadID,
		Name:   clientLead.Name,
		Phone:  phone.NormalizeE164(clientLead.Phone),
		Email:  clientLead.Email,
	})
	if err != nil {
		return repository.FreshLead{}, err
	}

	s.bus.Publish(ctx, events.FreshLeadCreated{
		BaseEvent:   events.NewBaseEvent(),
		FreshLeadID: fl.ID,
		LeadID:      leadID,
	})
	return fl, nil
}

// GetFreshLead returns one fresh lead.
func (s *Service) GetFreshLead(ctx context.Context, id uuid.UUID) (repository.FreshLead, error) {
	return s.store.GetFreshLeadByID(ctx, id)
}

// ListLeadsByExecutive returns the executive's assigned leads.
func (s *Service) ListLeadsByExecutive(ctx context.Context, executiveID uuid.UUID) ([]repository.Lead, error) {
	return s.store.ListLeadsByExecutive(ctx, executiveID)
}
