package resources

import (
	"context"
	"fmt"

	"fleetdesk/internal/controller"
	"fleetdesk/internal/fleet"
	"fleetdesk/internal/models"
)

// RowAction is an immediate per-record operation (no form). The browser
// disables the triggering key per record while the round-trip runs.
type RowAction[T any] struct {
	Key  string
	Name string
	// When gates the action per record; nil means always available.
	When func(T) bool
	Run  func(ctx context.Context, svc *fleet.Service, item T) error
}

// SubForm is a small per-record form (installments, proof upload) that
// submits outside the resource's generic create/update endpoints.
type SubForm[T any] struct {
	Key    string
	Title  string
	Fields []controller.Field
	Submit func(ctx context.Context, svc *fleet.Service, item T, payload map[string]any) error
}

// JourneyActions returns the journey-specific row operations.
func JourneyActions() []RowAction[models.Journey] {
	return []RowAction[models.Journey]{
		{
			Key:  "c",
			Name: "complete",
			When: func(j models.Journey) bool { return j.Status == models.JourneyStarted },
			Run: func(ctx context.Context, svc *fleet.Service, j models.Journey) error {
				return svc.CompleteJourney(ctx, j.ID)
			},
		},
	}
}

// JourneySubForms returns the add-installment form. The payment invariant
// is checked against a copy of the journey's pay block before anything is
// sent; the server enforces it again.
func JourneySubForms() []SubForm[models.Journey] {
	return []SubForm[models.Journey]{
		{
			Key:   "i",
			Title: "Add installment",
			Fields: []controller.Field{
				{Name: "amount", Label: "Amount", Kind: controller.Number, Required: true},
				{Name: "note", Label: "Note", Kind: controller.Text},
				{Name: "date", Label: "Date", Kind: controller.Date, Required: true},
			},
			Submit: func(ctx context.Context, svc *fleet.Service, j models.Journey, payload map[string]any) error {
				amount, _ := payload["amount"].(float64)
				note, _ := payload["note"].(string)
				date, _ := payload["date"].(string)
				in := models.Installment{Amount: amount, Note: note, Date: date}

				pay := j.Pay
				pay.Installments = append([]models.Installment{}, j.Pay.Installments...)
				if err := pay.AddInstallment(in); err != nil {
					return fmt.Errorf("installment rejected: %w", err)
				}
				return svc.AddInstallment(ctx, j.ID, in)
			},
		},
	}
}

// ExpenseSubForms returns the attach-proof form for office expenses.
func ExpenseSubForms() []SubForm[models.OfficeExpense] {
	return []SubForm[models.OfficeExpense]{
		{
			Key:   "p",
			Title: "Attach proof",
			Fields: []controller.Field{
				{Name: "path", Label: "File path", Kind: controller.Text, Required: true},
			},
			Submit: func(ctx context.Context, svc *fleet.Service, e models.OfficeExpense, payload map[string]any) error {
				path, _ := payload["path"].(string)
				return svc.UploadExpenseProof(ctx, e.ID, path)
			},
		},
	}
}
