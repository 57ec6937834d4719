// Package fleet covers the operations that fall outside the generic list
// CRUD: journey installments and completion, expense proof upload, the
// dashboard stats, and operator settings.
package fleet

import (
	"context"
	"net/http"

	"fleetdesk/internal/api"
	"fleetdesk/internal/models"
)

// Service performs entity-specific operations through the shared client.
type Service struct {
	client *api.Client
}

// NewService builds a fleet service.
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// AddInstallment records a partial payment against a journey. Callers
// enforce the sum-within-total invariant with Pay.AddInstallment before
// calling; the server checks it again.
func (s *Service) AddInstallment(ctx context.Context, journeyID string, in models.Installment) error {
	return s.client.Do(ctx, http.MethodPost, "api/drives/"+journeyID+"/installment", in, nil)
}

// CompleteJourney marks a journey completed.
func (s *Service) CompleteJourney(ctx context.Context, journeyID string) error {
	payload := map[string]any{"status": models.JourneyCompleted}
	return s.client.Do(ctx, http.MethodPut, "api/drives/"+journeyID, payload, nil)
}

// JourneysByCustomer returns a customer's recent journeys for the detail
// view. The backend caps this view at 50 records.
func (s *Service) JourneysByCustomer(ctx context.Context, customerID string) ([]models.Journey, error) {
	var list models.List[models.Journey]
	err := s.client.Do(ctx, http.MethodGet, "api/drives/by-customer/"+customerID+"?limit=50", nil, &list)
	return list.Data, err
}

// UploadExpenseProof attaches a receipt file to an office expense. This is
// the one multipart path in the client.
func (s *Service) UploadExpenseProof(ctx context.Context, expenseID, path string) error {
	return s.client.Upload(ctx, "api/office-expenses/"+expenseID+"/proof", "proof", path, nil)
}

// Stats fetches the dashboard aggregate.
func (s *Service) Stats(ctx context.Context) (models.UserStats, error) {
	var detail models.Detail[models.UserStats]
	err := s.client.Do(ctx, http.MethodGet, "api/users/stats", nil, &detail)
	return detail.Data, err
}

// Settings fetches the operator-wide settings.
func (s *Service) Settings(ctx context.Context) (models.Settings, error) {
	var detail models.Detail[models.Settings]
	err := s.client.Do(ctx, http.MethodGet, "api/settings", nil, &detail)
	return detail.Data, err
}

// UpdateExchangeRates replaces the stored exchange-rate table.
func (s *Service) UpdateExchangeRates(ctx context.Context, rates map[string]float64) error {
	return s.client.Do(ctx, http.MethodPut, "api/settings/exchange-rates",
		map[string]any{"exchangeRates": rates}, nil)
}

// UpdateProfile submits profile edits and returns the updated user. The
// caller feeds the result to session.UpdateUser so no second round trip is
// needed.
func (s *Service) UpdateProfile(ctx context.Context, payload map[string]any) (models.User, error) {
	var resp struct {
		User models.User `json:"user"`
	}
	err := s.client.Do(ctx, http.MethodPut, "api/auth/profile", payload, &resp)
	return resp.User, err
}
