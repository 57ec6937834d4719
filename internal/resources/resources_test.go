package resources

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetdesk/internal/controller"
	"fleetdesk/internal/models"
)

func TestJourneyTransformNestsPayment(t *testing.T) {
	desc := Journeys()
	require.NotNil(t, desc.Transform)

	payload := desc.Transform(map[string]any{
		"departureCity": "Kigali",
		"totalAmount":   1500.0,
		"currency":      "RWF",
		"paidOption":    models.PaidInstallment,
	})

	pay, ok := payload["pay"].(map[string]any)
	require.True(t, ok, "payment fields nest under pay")
	assert.Equal(t, 1500.0, pay["totalAmount"])
	assert.Equal(t, "RWF", pay["currency"])
	assert.Equal(t, models.PaidInstallment, pay["paidOption"])

	assert.Equal(t, "Kigali", payload["departureCity"])
	assert.NotContains(t, payload, "totalAmount", "flat payment keys are removed")
	assert.NotContains(t, payload, "currency")
	assert.NotContains(t, payload, "paidOption")
}

func TestJourneyTransformWithoutPaymentFields(t *testing.T) {
	payload := Journeys().Transform(map[string]any{"notes": "n"})
	pay, ok := payload["pay"].(map[string]any)
	require.True(t, ok)
	assert.Empty(t, pay)
}

func TestInstallmentSubFormRejectsOverpaymentLocally(t *testing.T) {
	forms := JourneySubForms()
	require.Len(t, forms, 1)

	j := models.Journey{
		ID: "j1",
		Pay: models.Pay{
			TotalAmount:  1000,
			PaidOption:   models.PaidInstallment,
			Installments: []models.Installment{{Amount: 900}},
		},
	}

	// The invariant check fires before any network call, so no service is
	// needed for the rejection path.
	err := forms[0].Submit(context.Background(), nil, j, map[string]any{
		"amount": 200.0, "date": "2026-08-30",
	})
	require.Error(t, err)
	assert.Len(t, j.Pay.Installments, 1, "the journey's own pay block is untouched")
}

func TestInstallmentSubFormRejectsFullPlan(t *testing.T) {
	forms := JourneySubForms()
	j := models.Journey{
		ID:  "j1",
		Pay: models.Pay{TotalAmount: 1000, PaidOption: models.PaidFull},
	}
	err := forms[0].Submit(context.Background(), nil, j, map[string]any{
		"amount": 100.0, "date": "2026-08-30",
	})
	assert.Error(t, err)
}

func TestJourneyCompleteActionGatedByStatus(t *testing.T) {
	actions := JourneyActions()
	require.Len(t, actions, 1)
	require.NotNil(t, actions[0].When)

	assert.True(t, actions[0].When(models.Journey{Status: models.JourneyStarted}))
	assert.False(t, actions[0].When(models.Journey{Status: models.JourneyCompleted}))
}

func TestUserEditNeedsNoPassword(t *testing.T) {
	desc := Users()
	u := models.User{ID: "u1", Username: "dispatcher", Phone: "0788111222", Role: models.RoleOfficer}

	d := controller.NewDraft(desc.Fields)
	d.OpenEdit(desc.ID(u), desc.FormValues(u))
	d.SetField("phone", "0788333444")

	payload, err := d.Payload()
	require.NoError(t, err, "changing a phone number must not demand a password rotation")
	assert.Equal(t, "0788333444", payload["phone"])
	assert.NotContains(t, payload, "password")
}

func TestDescriptorShapes(t *testing.T) {
	t.Run("trucks", func(t *testing.T) { checkShape(t, Trucks(), models.Truck{ID: "x"}) })
	t.Run("drivers", func(t *testing.T) { checkShape(t, Drivers(), models.Driver{ID: "x"}) })
	t.Run("customers", func(t *testing.T) { checkShape(t, Customers(), models.Customer{ID: "x"}) })
	t.Run("journeys", func(t *testing.T) { checkShape(t, Journeys(), models.Journey{ID: "x"}) })
	t.Run("expenses", func(t *testing.T) { checkShape(t, OfficeExpenses(), models.OfficeExpense{ID: "x"}) })
	t.Run("users", func(t *testing.T) { checkShape(t, Users(), models.User{ID: "x"}) })
}

// checkShape asserts the internal consistency every descriptor must have:
// rows match the column count, ids round-trip, defaults name real fields.
func checkShape[T any](t *testing.T, d Descriptor[T], sample T) {
	t.Helper()

	assert.NotEmpty(t, d.Res.Name)
	assert.NotEmpty(t, d.Res.Path)
	assert.Equal(t, len(d.Columns), len(d.Row(sample)))
	assert.Equal(t, "x", d.ID(sample))
	assert.NotNil(t, d.FormValues(sample))

	fieldNames := make(map[string]bool, len(d.Fields))
	for _, f := range d.Fields {
		fieldNames[f.Name] = true
	}
	for name := range d.Defaults {
		assert.True(t, fieldNames[name], "default %q names a form field", name)
	}
	for name := range d.FormValues(sample) {
		assert.True(t, fieldNames[name], "form value %q names a form field", name)
	}
}
