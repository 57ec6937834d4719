package models

// Role tiers. Officer sits between admin and regular users: officers can
// manage fleet records but not other users or settings.
const (
	RoleAdmin   = "admin"
	RoleOfficer = "officer"
	RoleUser    = "user"
)

// User is an operator account on the backend.
type User struct {
	ID          string `json:"_id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Role        string `json:"role"` // admin, officer, user
	Active      bool   `json:"active"`
	CreatedAt   string `json:"createdAt"`
}

// UserStats is the aggregate returned by the users/stats endpoint.
type UserStats struct {
	TotalUsers    int `json:"totalUsers"`
	ActiveUsers   int `json:"activeUsers"`
	TotalTrucks   int `json:"totalTrucks"`
	ActiveTrucks  int `json:"activeTrucks"`
	TotalDrivers  int `json:"totalDrivers"`
	TotalJourneys int `json:"totalJourneys"`
	ActiveJourneys int `json:"activeJourneys"`
}
