package models

// Truck is a vehicle in the operator's fleet.
type Truck struct {
	ID          string  `json:"_id"`
	PlateNumber string  `json:"plateNumber"`
	Make        string  `json:"make"`
	Model       string  `json:"model"`
	Year        int     `json:"year"`
	Capacity    float64 `json:"capacity"` // tonnes
	FuelType    string  `json:"fuelType"`
	Mileage     float64 `json:"mileage"`
	Status      string  `json:"status"` // active, maintenance, retired
	Notes       string  `json:"notes"`
}

// Driver is a person licensed to run journeys.
type Driver struct {
	ID            string `json:"_id"`
	FullName      string `json:"fullName"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	NationalID    string `json:"nationalId"`
	LicenseNumber string `json:"licenseNumber"`
	Address       string `json:"address"`
	HireDate      string `json:"hireDate"`
	Status        string `json:"status"` // active, inactive
}

// Customer is a party that books journeys.
type Customer struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Notes   string `json:"notes"`
}

// OfficeExpense is an administrative expense unrelated to a journey.
type OfficeExpense struct {
	ID           string  `json:"_id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
	ExchangeRate float64 `json:"exchangeRate"`
	Date         string  `json:"date"`
	ProofURL     string  `json:"proofUrl,omitempty"`
}
