package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayValidateFullWithInstallments(t *testing.T) {
	p := Pay{
		TotalAmount:  1000,
		PaidOption:   PaidFull,
		Installments: []Installment{{Amount: 100}},
	}
	assert.Error(t, p.Validate(), "a fully paid journey carries no installments")
}

func TestPayValidateSumWithinTotal(t *testing.T) {
	p := Pay{
		TotalAmount: 1000,
		PaidOption:  PaidInstallment,
		Installments: []Installment{
			{Amount: 400}, {Amount: 600},
		},
	}
	assert.NoError(t, p.Validate(), "installments may reach the total exactly")

	p.Installments = append(p.Installments, Installment{Amount: 0.01})
	assert.Error(t, p.Validate())
}

func TestPayValidateNegativeInstallment(t *testing.T) {
	p := Pay{
		TotalAmount:  1000,
		PaidOption:   PaidInstallment,
		Installments: []Installment{{Amount: -5}},
	}
	assert.Error(t, p.Validate())
}

func TestAddInstallmentRejectsOverpayment(t *testing.T) {
	p := Pay{
		TotalAmount:  1000,
		PaidOption:   PaidInstallment,
		Installments: []Installment{{Amount: 800}},
	}

	err := p.AddInstallment(Installment{Amount: 300})
	require.Error(t, err)
	assert.Len(t, p.Installments, 1, "rejected installment is not recorded")

	require.NoError(t, p.AddInstallment(Installment{Amount: 200}))
	assert.Len(t, p.Installments, 2)
}

func TestAddInstallmentRequiresInstallmentPlan(t *testing.T) {
	p := Pay{TotalAmount: 1000, PaidOption: PaidFull}
	assert.Error(t, p.AddInstallment(Installment{Amount: 100}))
}

func TestJourneyDerivedAmounts(t *testing.T) {
	j := Journey{
		Pay: Pay{
			TotalAmount: 1500,
			PaidOption:  PaidInstallment,
			Installments: []Installment{
				{Amount: 500}, {Amount: 250},
			},
		},
		Expenses: []JourneyExpense{
			{Title: "fuel", Amount: 120},
			{Title: "tolls", Amount: 30},
		},
	}

	assert.Equal(t, 750.0, j.TotalPaid())
	assert.Equal(t, 150.0, j.TotalExpenses())
	assert.Equal(t, 750.0, j.Balance())
}

func TestJourneyFullyPaid(t *testing.T) {
	j := Journey{Pay: Pay{TotalAmount: 900, PaidOption: PaidFull}}
	assert.Equal(t, 900.0, j.TotalPaid())
	assert.Equal(t, 0.0, j.Balance())
}
