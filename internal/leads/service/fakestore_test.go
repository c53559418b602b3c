package service

import (
	"context"
	"time"

	"crm_portal_backend/internal/leads/domain"
	"crm_portal_backend/internal/leads/ports"
	"crm_portal_backend/internal/leads/repository"
	"crm_portal_backend/platform/apperr"

	"github.com/google/uuid"
)

// fakeStore is an in-memory Store with the same uniqueness and not-found
// behavior as the SQL implementation.
type fakeStore struct {
	clientLeads     map[uuid.UUID]repository.ClientLead
	leads           map[uuid.UUID]repository.Lead
	leadByClient    map[uuid.UUID]uuid.UUID
	freshLeads      map[uuid.UUID]repository.FreshLead
	freshByLead     map[uuid.UUID]uuid.UUID
	followUps       map[uuid.UUID]repository.FollowUp // by fresh lead id
	histories       []repository.FollowUpHistory
	converted       map[uuid.UUID]uuid.UUID // fresh lead id -> terminal id
	closed          map[uuid.UUID]uuid.UUID
	processedFinals map[uuid.UUID]repository.ProcessedFinal // by fresh lead id
	meetings        []repository.Meeting
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		clientLeads:     make(map[uuid.UUID]repository.ClientLead),
		leads:           make(map[uuid.UUID]repository.Lead),
		leadByClient:    make(map[uuid.UUID]uuid.UUID),
		freshLeads:      make(map[uuid.UUID]repository.FreshLead),
		freshByLead:     make(map[uuid.UUID]uuid.UUID),
		followUps:       make(map[uuid.UUID]repository.FollowUp),
		converted:       make(map[uuid.UUID]uuid.UUID),
		closed:          make(map[uuid.UUID]uuid.UUID),
		processedFinals: make(map[uuid.UUID]repository.ProcessedFinal),
	}
}

var _ repository.Store = (*fakeStore)(nil)

func (f *fakeStore) CreateClientLead(_ context.Context, params repository.CreateClientLeadParams) (repository.ClientLead, error) {
	cl := repository.ClientLead{
		ID: uuid.New(), Name: params.Name, Email: params.Email, Phone: params.Phone,
		Source: params.Source, Status: string(domain.StatusNew),
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	f.clientLeads[cl.ID] = cl
	return cl, nil
}

func (f *fakeStore) BulkCreateClientLeads(ctx context.Context, params []repository.CreateClientLeadParams) (int, error) {
	for _, p := range params {
		if _, err := f.CreateClientLead(ctx, p); err != nil {
			return 0, err
		}
	}
	return len(params), nil
}

func (f *fakeStore) GetClientLeadByID(_ context.Context, id uuid.UUID) (repository.ClientLead, error) {
	cl, ok := f.clientLeads[id]
	if !ok {
		return repository.ClientLead{}, apperr.NotFound("client lead not found")
	}
	return cl, nil
}

func (f *fakeStore) ListClientLeads(_ context.Context, params repository.ListClientLeadsParams) ([]repository.ClientLead, int, error) {
	var items []repository.ClientLead
	for _, cl := range f.clientLeads {
		if params.Status == "" || cl.Status == params.Status {
			items = append(items, cl)
		}
	}
	return items, len(items), nil
}

func (f *fakeStore) UpdateClientLeadStatus(_ context.Context, id uuid.UUID, status string) (repository.ClientLead, error) {
	cl, ok := f.clientLeads[id]
	if !ok {
		return repository.ClientLead{}, apperr.NotFound("client lead not found")
	}
	cl.Status = status
	f.clientLeads[id] = cl
	return cl, nil
}

func (f *fakeStore) DeleteClientLead(_ context.Context, id uuid.UUID) error {
	if _, ok := f.clientLeads[id]; !ok {
		return apperr.NotFound("client lead not found")
	}
	delete(f.clientLeads, id)
	return nil
}

func (f *fakeStore) UpsertLeadAssignment(_ context.Context, clientLeadID, executiveID uuid.UUID, executiveUsername string) (repository.Lead, error) {
	if _, ok := f.clientLeads[clientLeadID]; !ok {
		return repository.Lead{}, apperr.NotFound("client lead not found")
	}
	if leadID, ok := f.leadByClient[clientLeadID]; ok {
		l := f.leads[leadID]
		l.ExecutiveID = executiveID
		l.AssignedToExecutive = executiveUsername
		l.UpdatedAt = time.Now()
		f.leads[leadID] = l
		return l, nil
	}
	l := repository.Lead{
		ID: uuid.New(), ClientLeadID: clientLeadID, ExecutiveID: executiveID,
		AssignedToExecutive: executiveUsername, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	f.leads[l.ID] = l
	f.leadByClient[clientLeadID] = l.ID
	return l, nil
}

func (f *fakeStore) GetLeadByID(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	l, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	return l, nil
}

func (f *fakeStore) ListLeadsByExecutive(_ context.Context, executiveID uuid.UUID) ([]repository.Lead, error) {
	var items []repository.Lead
	for _, l := range f.leads {
		if l.ExecutiveID == executiveID {
			items = append(items, l)
		}
	}
	return items, nil
}

func (f *fakeStore) CreateFreshLead(_ context.Context, params repository.CreateFreshLeadParams) (repository.FreshLead, error) {
	if _, ok := f.leads[params.LeadID]; !ok {
		return repository.FreshLead{}, apperr.NotFound("lead not found")
	}
	if _, ok := f.freshByLead[params.LeadID]; ok {
		return repository.FreshLead{}, apperr.Conflict("fresh lead already exists for this lead")
	}
	fl := repository.FreshLead{
		ID: uuid.New(), LeadID: params.LeadID, Name: params.Name, Phone: params.Phone,
		Email: params.Email, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	f.freshLeads[fl.ID] = fl
	f.freshByLead[params.LeadID] = fl.ID
	return fl, nil
}

func (f *fakeStore) GetFreshLeadByID(_ context.Context, id uuid.UUID) (repository.FreshLead, error) {
	fl, ok := f.freshLeads[id]
	if !ok {
		return repository.FreshLead{}, apperr.NotFound("fresh lead not found")
	}
	return fl, nil
}

func (f *fakeStore) GetLeadChain(_ context.Context, freshLeadID uuid.UUID) (repository.LeadChain, error) {
	fl, ok := f.freshLeads[freshLeadID]
	if !ok {
		return repository.LeadChain{}, apperr.NotFound("fresh lead not found")
	}
	l, ok := f.leads[fl.LeadID]
	if !ok {
		return repository.LeadChain{}, apperr.NotFound("fresh lead not found")
	}
	cl, ok := f.clientLeads[l.ClientLeadID]
	if !ok {
		return repository.LeadChain{}, apperr.NotFound("fresh lead not found")
	}
	return repository.LeadChain{FreshLead: fl, Lead: l, ClientLead: cl}, nil
}

func (f *fakeStore) RecordFollowUp(_ context.Context, params repository.FollowUpParams) (repository.FollowUpResult, error) {
	fl, ok := f.freshLeads[params.FreshLeadID]
	if !ok {
		return repository.FollowUpResult{}, apperr.NotFound("fresh lead not found")
	}

	var result repository.FollowUpResult

	// Terminal exclusivity is checked first so a conflict leaves no trace,
	// mirroring the transactional rollback. Converted and closed are
	// mutually exclusive: either existing record blocks a new terminal.
	outcome := domain.FollowUpType(params.FollowUpType).Outcome()
	if outcome != domain.OutcomeNone {
		_, wasConverted := f.converted[params.FreshLeadID]
		_, wasClosed := f.closed[params.FreshLeadID]
		if wasConverted || wasClosed {
			return repository.FollowUpResult{}, apperr.Conflict("lead already has a terminal outcome")
		}
	}

	fu, exists := f.followUps[params.FreshLeadID]
	if !exists {
		fu = repository.FollowUp{ID: uuid.New(), FreshLeadID: params.FreshLeadID, CreatedAt: time.Now()}
	}
	fu.ConnectVia = params.ConnectVia
	fu.FollowUpType = params.FollowUpType
	fu.InteractionRating = params.InteractionRating
	fu.Reason = params.Reason
	fu.FollowUpDate = params.FollowUpDate
	fu.FollowUpTime = params.FollowUpTime
	fu.UpdatedAt = time.Now()
	f.followUps[params.FreshLeadID] = fu
	result.FollowUp = fu

	h := repository.FollowUpHistory{
		ID: uuid.New(), FollowUpID: fu.ID, FreshLeadID: params.FreshLeadID,
		ConnectVia: params.ConnectVia, FollowUpType: params.FollowUpType,
		InteractionRating: params.InteractionRating, Reason: params.Reason,
		FollowUpDate: params.FollowUpDate, FollowUpTime: params.FollowUpTime,
		CreatedAt: time.Now(),
	}
	f.histories = append(f.histories, h)
	result.History = h

	status := params.FollowUpType
	fl.FollowUpStatus = &status
	f.freshLeads[params.FreshLeadID] = fl

	switch outcome {
	case domain.OutcomeConverted:
		id := uuid.New()
		f.converted[params.FreshLeadID] = id
		result.TerminalID = &id
	case domain.OutcomeClosed:
		id := uuid.New()
		f.closed[params.FreshLeadID] = id
		result.TerminalID = &id
	}
	return result, nil
}

func (f *fakeStore) GetCurrentFollowUp(_ context.Context, freshLeadID uuid.UUID) (repository.FollowUp, error) {
	fu, ok := f.followUps[freshLeadID]
	if !ok {
		return repository.FollowUp{}, apperr.NotFound("no follow-up recorded for this lead")
	}
	return fu, nil
}

func (f *fakeStore) ListFollowUpHistory(_ context.Context, freshLeadID uuid.UUID) ([]repository.FollowUpHistory, error) {
	var items []repository.FollowUpHistory
	for _, h := range f.histories {
		if h.FreshLeadID == freshLeadID {
			items = append(items, h)
		}
	}
	return items, nil
}

func (f *fakeStore) CreateProcessedFinal(_ context.Context, params repository.CreateProcessedFinalParams) (repository.ProcessedFinal, error) {
	if _, ok := f.freshLeads[params.FreshLeadID]; !ok {
		return repository.ProcessedFinal{}, apperr.NotFound("fresh lead not found")
	}
	if _, exists := f.processedFinals[params.FreshLeadID]; exists {
		return repository.ProcessedFinal{}, apperr.Conflict("lead is already finalized")
	}
	pf := repository.ProcessedFinal{
		ID: uuid.New(), FreshLeadID: params.FreshLeadID, ProcessPersonID: params.ProcessPersonID,
		Name: params.Name, Phone: params.Phone, Email: params.Email, CreatedAt: time.Now(),
	}
	f.processedFinals[params.FreshLeadID] = pf
	return pf, nil
}

func (f *fakeStore) ListProcessedFinals(_ context.Context, limit, offset int) ([]repository.ProcessedFinal, int, error) {
	var items []repository.ProcessedFinal
	for _, pf := range f.processedFinals {
		items = append(items, pf)
	}
	return items, len(items), nil
}

func (f *fakeStore) CreateMeetingWithStatus(_ context.Context, params repository.CreateMeetingParams) (repository.Meeting, error) {
	cl, ok := f.clientLeads[params.ClientLeadID]
	if !ok {
		return repository.Meeting{}, apperr.NotFound("client lead not found")
	}
	if _, ok := f.freshLeads[params.FreshLeadID]; !ok {
		return repository.Meeting{}, apperr.NotFound("fresh lead not found")
	}
	cl.Status = string(domain.StatusMeeting)
	f.clientLeads[params.ClientLeadID] = cl

	m := repository.Meeting{
		ID: uuid.New(), FreshLeadID: params.FreshLeadID, ExecutiveID: params.ExecutiveID,
		ClientName: params.ClientName, ClientEmail: params.ClientEmail, ClientPhone: params.ClientPhone,
		ReasonForFollowup: params.ReasonForFollowup, StartTime: params.StartTime, EndTime: params.EndTime,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	f.meetings = append(f.meetings, m)
	return m, nil
}

func (f *fakeStore) ListMeetingsByExecutive(_ context.Context, executiveID uuid.UUID) ([]repository.Meeting, error) {
	var items []repository.Meeting
	for _, m := range f.meetings {
		if m.ExecutiveID == executiveID {
			items = append(items, m)
		}
	}
	return items, nil
}

func (f *fakeStore) ListMeetings(_ context.Context, limit, offset int) ([]repository.Meeting, int, error) {
	return f.meetings, len(f.meetings), nil
}

// fakeDirectory resolves users from a fixed map.
type fakeDirectory struct {
	users map[string]ports.Executive
}

func (d *fakeDirectory) GetByUsername(_ context.Context, username string) (ports.Executive, error) {
	u, ok := d.users[username]
	if !ok {
		return ports.Executive{}, apperr.NotFound("user not found")
	}
	return u, nil
}
