package models

import "fmt"

// Journey statuses.
const (
	JourneyStarted   = "started"
	JourneyCompleted = "completed"
)

// Payment options.
const (
	PaidFull        = "full"
	PaidInstallment = "installment"
)

// Installment is a partial payment applied against a journey's total.
type Installment struct {
	Amount float64 `json:"amount"`
	Note   string  `json:"note"`
	Date   string  `json:"date"`
}

// JourneyExpense is a cost incurred during a journey (fuel, tolls, etc).
type JourneyExpense struct {
	Title  string  `json:"title"`
	Amount float64 `json:"amount"`
	Note   string  `json:"note"`
}

// Pay holds a journey's payment terms.
type Pay struct {
	TotalAmount  float64       `json:"totalAmount"`
	Currency     string        `json:"currency"`
	PaidOption   string        `json:"paidOption"` // full, installment
	Installments []Installment `json:"installments"`
}

// Journey is a single truck dispatch record.
type Journey struct {
	ID              string           `json:"_id"`
	DepartureCity   string           `json:"departureCity"`
	DestinationCity string           `json:"destinationCity"`
	DriverID        string           `json:"driver"`
	DriverName      string           `json:"driverName,omitempty"`
	TruckID         string           `json:"truck"`
	TruckPlate      string           `json:"truckPlate,omitempty"`
	Customer        string           `json:"customer"`
	Cargo           string           `json:"cargo"`
	Pay             Pay              `json:"pay"`
	Expenses        []JourneyExpense `json:"expenses"`
	Notes           string           `json:"notes"`
	Status          string           `json:"status"` // started, completed
	Date            string           `json:"date"`
}

// TotalPaid sums the recorded installments. For a fully paid journey it is
// the total amount itself.
func (j Journey) TotalPaid() float64 {
	if j.Pay.PaidOption == PaidFull {
		return j.Pay.TotalAmount
	}
	var sum float64
	for _, in := range j.Pay.Installments {
		sum += in.Amount
	}
	return sum
}

// TotalExpenses sums the journey's expense entries.
func (j Journey) TotalExpenses() float64 {
	var sum float64
	for _, e := range j.Expenses {
		sum += e.Amount
	}
	return sum
}

// Balance is the amount still owed by the customer.
func (j Journey) Balance() float64 {
	return j.Pay.TotalAmount - j.TotalPaid()
}

// Validate checks the payment invariants before a journey is submitted:
// a fully paid journey carries no installments, and installments never sum
// past the total. The server enforces the same rules authoritatively.
func (p Pay) Validate() error {
	if p.PaidOption == PaidFull && len(p.Installments) > 0 {
		return fmt.Errorf("fully paid journey cannot have installments")
	}
	var sum float64
	for _, in := range p.Installments {
		if in.Amount < 0 {
			return fmt.Errorf("installment amount cannot be negative")
		}
		sum += in.Amount
	}
	if sum > p.TotalAmount {
		return fmt.Errorf("installments (%.2f) exceed total amount (%.2f)", sum, p.TotalAmount)
	}
	return nil
}

// AddInstallment appends an installment after checking it keeps the sum
// within the total. Used by the installment form before any network call.
func (p *Pay) AddInstallment(in Installment) error {
	if p.PaidOption != PaidInstallment {
		return fmt.Errorf("journey is not on an installment plan")
	}
	next := *p
	next.Installments = append(append([]Installment{}, p.Installments...), in)
	if err := next.Validate(); err != nil {
		return err
	}
	p.Installments = next.Installments
	return nil
}
