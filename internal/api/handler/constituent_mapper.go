package handler

import (
	"time"

	"github.com/civicreg/constituent-service/internal/core/domain"
)

// --- Request → Service input ---

func toCandidate(req addConstituentRequest) domain.Candidate {
	return domain.Candidate{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Age:           req.Age,
		Phone:         req.Phone,
		Email:         req.Email,
		StreetAddress: req.StreetAddress,
		City:          req.City,
		State:         req.State,
		Zip:           req.Zip,
		District:      req.District,
	}
}

// --- Domain → Response ---

func toConstituentResponse(c *domain.Constituent) constituentResponse {
	return constituentResponse{
		ID:            c.ID,
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		Age:           c.Age,
		Phone:         c.Phone,
		Email:         c.Email,
		StreetAddress: c.StreetAddress,
		City:          c.City,
		State:         c.State,
		Zip:           c.Zip,
		District:      c.District,
		Status:        c.Status,
		CreatedAt:     c.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:     c.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// toConstituentResponses never returns nil so an empty list renders as [].
func toConstituentResponses(records []*domain.Constituent) []constituentResponse {
	out := make([]constituentResponse, 0, len(records))
	for _, c := range records {
		out = append(out, toConstituentResponse(c))
	}
	return out
}
