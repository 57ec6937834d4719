package models

// Settings holds operator-wide configuration stored on the backend.
type Settings struct {
	CompanyName   string             `json:"companyName"`
	BaseCurrency  string             `json:"baseCurrency"`
	ExchangeRates map[string]float64 `json:"exchangeRates"`
}
