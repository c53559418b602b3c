package handler

import (
	"crm_portal_backend/internal/leads/repository"
	"crm_portal_backend/internal/leads/transport"
)

func repositoryCreateParams(req transport.CreateClientLeadRequest) repository.CreateClientLeadParams {
	return repository.CreateClientLeadParams{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Source: req.Source,
	}
}

func listParams(req transport.ListClientLeadsRequest) repository.ListClientLeadsParams {
	return repository.ListClientLeadsParams{
		Status: req.Status,
		Limit:  req.Limit,
		Offset: req.Offset,
	}
}

func clientLeadPage(items []repository.ClientLead, total, limit, offset int) transport.Page[transport.ClientLeadResponse] {
	out := make([]transport.ClientLeadResponse, 0, len(items))
	for _, cl := range items {
		out = append(out, transport.NewClientLeadResponse(cl))
	}
	return transport.Page[transport.ClientLeadResponse]{Items: out, Total: total, Limit: limit, Offset: offset}
}

func followUpResponse(result repository.FollowUpResult) transport.FollowUpResponse {
	resp := transport.FollowUpResponse{
		ID:                result.FollowUp.ID,
		FreshLeadID:       result.FollowUp.FreshLeadID,
		ConnectVia:        result.FollowUp.ConnectVia,
		FollowUpType:      result.FollowUp.FollowUpType,
		InteractionRating: result.FollowUp.InteractionRating,
		Reason:            result.FollowUp.Reason,
		FollowUpDate:      result.FollowUp.FollowUpDate.Format("2006-01-02"),
		FollowUpTime:      result.FollowUp.FollowUpTime,
		UpdatedAt:         result.FollowUp.UpdatedAt,
	}
	if result.TerminalID != nil {
		switch result.FollowUp.FollowUpType {
		case "converted":
			resp.ConvertedClientID = result.TerminalID
		case "close":
			resp.CloseLeadID = result.TerminalID
		}
	}
	return resp
}
