// Package resources declares the six server-owned collections as data.
// Everything a page needs — endpoint, filter keys, table columns, form
// schema, role requirement — lives in a Descriptor; the generic controller
// and the TUI browser do the rest.
package resources

import (
	"context"
	"fmt"

	"fleetdesk/internal/controller"
	"fleetdesk/internal/fleet"
	"fleetdesk/internal/models"
)

// Requirement is a page's declared access level.
type Requirement int

const (
	// AnyUser: any authenticated account.
	AnyUser Requirement = iota
	// AdminOrOfficer: fleet management pages.
	AdminOrOfficer
	// AdminOnly: user and settings administration.
	AdminOnly
)

// Column describes one table column of a resource browser.
type Column struct {
	Title string
	Width int
}

// Descriptor ties a resource's wire contract to its presentation.
type Descriptor[T any] struct {
	Res      controller.Resource
	Require  Requirement
	Columns  []Column
	Fields   []controller.Field
	Defaults map[string]string

	// Row renders one record as table cells, in Columns order.
	Row func(T) []string
	// ID returns the record's server id.
	ID func(T) string
	// Label names the record in confirmations and toasts.
	Label func(T) string
	// FormValues flattens a record into edit-form values. The returned map
	// is always freshly built, never a view into the record.
	FormValues func(T) map[string]string

	// Detail renders extra lines for the record's detail view; nil means
	// the flattened form values are shown.
	Detail func(T) []string

	// DetailExtra fetches additional detail lines that need their own
	// round-trip (e.g. a customer's recent journeys). It runs on the same
	// command goroutine as the detail fetch.
	DetailExtra func(ctx context.Context, svc *fleet.Service, item T) []string

	// Transform reshapes the flat form payload into the endpoint's wire
	// shape (e.g. nesting journey payment fields); nil means send as-is.
	Transform func(map[string]any) map[string]any

	// Actions are immediate per-record operations beyond CRUD.
	Actions []RowAction[T]
	// SubForms are per-record forms that submit outside the generic
	// create/update endpoints.
	SubForms []SubForm[T]
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func money(amount float64, currency string) string {
	if currency == "" {
		return fmt.Sprintf("%.2f", amount)
	}
	return fmt.Sprintf("%.2f %s", amount, currency)
}

// Trucks describes the truck fleet page.
func Trucks() Descriptor[models.Truck] {
	return Descriptor[models.Truck]{
		Res: controller.Resource{
			Name:             "trucks",
			Path:             "api/trucks",
			FilterKeys:       []string{"status", "make"},
			DefaultSortBy:    "plateNumber",
			DefaultSortOrder: "asc",
		},
		Require: AdminOrOfficer,
		Columns: []Column{
			{Title: "PLATE", Width: 12},
			{Title: "MAKE", Width: 12},
			{Title: "MODEL", Width: 14},
			{Title: "CAPACITY", Width: 10},
			{Title: "STATUS", Width: 12},
		},
		Fields: []controller.Field{
			{Name: "plateNumber", Label: "Plate number", Kind: controller.Text, Required: true},
			{Name: "make", Label: "Make", Kind: controller.Text, Required: true},
			{Name: "model", Label: "Model", Kind: controller.Text},
			{Name: "year", Label: "Year", Kind: controller.Number},
			{Name: "capacity", Label: "Capacity (t)", Kind: controller.Number},
			{Name: "fuelType", Label: "Fuel type", Kind: controller.Select, Options: []string{"diesel", "petrol"}},
			{Name: "status", Label: "Status", Kind: controller.Select, Options: []string{"active", "maintenance", "retired"}},
			{Name: "notes", Label: "Notes", Kind: controller.Text},
		},
		Defaults: map[string]string{"fuelType": "diesel", "status": "active"},
		Row: func(t models.Truck) []string {
			return []string{t.PlateNumber, t.Make, t.Model, fmt.Sprintf("%.1f", t.Capacity), t.Status}
		},
		ID:    func(t models.Truck) string { return t.ID },
		Label: func(t models.Truck) string { return t.PlateNumber },
		FormValues: func(t models.Truck) map[string]string {
			return map[string]string{
				"plateNumber": t.PlateNumber,
				"make":        t.Make,
				"model":       t.Model,
				"year":        fmt.Sprintf("%d", t.Year),
				"capacity":    fmt.Sprintf("%g", t.Capacity),
				"fuelType":    t.FuelType,
				"status":      t.Status,
				"notes":       t.Notes,
			}
		},
	}
}

// Drivers describes the driver roster page.
func Drivers() Descriptor[models.Driver] {
	return Descriptor[models.Driver]{
		Res: controller.Resource{
			Name:             "drivers",
			Path:             "api/drivers",
			FilterKeys:       []string{"status"},
			DefaultSortBy:    "fullName",
			DefaultSortOrder: "asc",
		},
		Require: AdminOrOfficer,
		Columns: []Column{
			{Title: "NAME", Width: 22},
			{Title: "PHONE", Width: 14},
			{Title: "LICENSE", Width: 14},
			{Title: "STATUS", Width: 10},
		},
		Fields: []controller.Field{
			{Name: "fullName", Label: "Full name", Kind: controller.Text, Required: true},
			{Name: "phone", Label: "Phone", Kind: controller.Text, Required: true},
			{Name: "email", Label: "Email", Kind: controller.Text},
			{Name: "nationalId", Label: "National ID", Kind: controller.Text},
			{Name: "licenseNumber", Label: "License number", Kind: controller.Text, Required: true},
			{Name: "address", Label: "Address", Kind: controller.Text},
			{Name: "hireDate", Label: "Hire date", Kind: controller.Date},
			{Name: "status", Label: "Status", Kind: controller.Select, Options: []string{"active", "inactive"}},
		},
		Defaults: map[string]string{"status": "active"},
		Row: func(d models.Driver) []string {
			return []string{d.FullName, d.Phone, d.LicenseNumber, d.Status}
		},
		ID:    func(d models.Driver) string { return d.ID },
		Label: func(d models.Driver) string { return d.FullName },
		FormValues: func(d models.Driver) map[string]string {
			return map[string]string{
				"fullName":      d.FullName,
				"phone":         d.Phone,
				"email":         d.Email,
				"nationalId":    d.NationalID,
				"licenseNumber": d.LicenseNumber,
				"address":       d.Address,
				"hireDate":      d.HireDate,
				"status":        d.Status,
			}
		},
	}
}

// Customers describes the customer book page.
func Customers() Descriptor[models.Customer] {
	return Descriptor[models.Customer]{
		Res: controller.Resource{
			Name:             "customers",
			Path:             "api/customers",
			FilterKeys:       []string{"country"},
			DefaultSortBy:    "name",
			DefaultSortOrder: "asc",
		},
		Require: AdminOrOfficer,
		Columns: []Column{
			{Title: "NAME", Width: 24},
			{Title: "COUNTRY", Width: 12},
			{Title: "PHONE", Width: 14},
		},
		Fields: []controller.Field{
			{Name: "name", Label: "Name", Kind: controller.Text, Required: true},
			{Name: "country", Label: "Country", Kind: controller.Text, Required: true},
			{Name: "phone", Label: "Phone", Kind: controller.Text, Required: true},
			{Name: "email", Label: "Email", Kind: controller.Text},
			{Name: "notes", Label: "Notes", Kind: controller.Text},
		},
		Defaults: map[string]string{"country": "Rwanda"},
		Row: func(c models.Customer) []string {
			return []string{c.Name, c.Country, c.Phone}
		},
		ID:    func(c models.Customer) string { return c.ID },
		Label: func(c models.Customer) string { return c.Name },
		// The backend caps the by-customer view at 50 journeys.
		DetailExtra: func(ctx context.Context, svc *fleet.Service, c models.Customer) []string {
			journeys, err := svc.JourneysByCustomer(ctx, c.ID)
			if err != nil {
				return []string{"", "Recent journeys unavailable: " + err.Error()}
			}
			if len(journeys) == 0 {
				return []string{"", "No journeys yet."}
			}
			lines := []string{"", "Recent journeys:"}
			for _, j := range journeys {
				lines = append(lines, fmt.Sprintf("  %s  %s → %s  %s  %s",
					j.Date, j.DepartureCity, j.DestinationCity,
					money(j.Pay.TotalAmount, j.Pay.Currency), j.Status))
			}
			return lines
		},
		FormValues: func(c models.Customer) map[string]string {
			return map[string]string{
				"name":    c.Name,
				"country": c.Country,
				"phone":   c.Phone,
				"email":   c.Email,
				"notes":   c.Notes,
			}
		},
	}
}

// Journeys describes the drive-record page, the richest of the six.
func Journeys() Descriptor[models.Journey] {
	return Descriptor[models.Journey]{
		Res: controller.Resource{
			Name: "journeys",
			Path: "api/drives",
			FilterKeys: []string{
				"status", "truckId", "driverId", "customer",
				"departureCity", "destinationCity", "paidOption",
			},
			DefaultSortBy:    "date",
			DefaultSortOrder: "desc",
		},
		Require: AdminOrOfficer,
		Columns: []Column{
			{Title: "DATE", Width: 11},
			{Title: "ROUTE", Width: 24},
			{Title: "CUSTOMER", Width: 16},
			{Title: "TOTAL", Width: 14},
			{Title: "BALANCE", Width: 14},
			{Title: "STATUS", Width: 10},
		},
		Fields: []controller.Field{
			{Name: "departureCity", Label: "From", Kind: controller.Text, Required: true},
			{Name: "destinationCity", Label: "To", Kind: controller.Text, Required: true},
			{Name: "driver", Label: "Driver ID", Kind: controller.Text, Required: true},
			{Name: "truck", Label: "Truck ID", Kind: controller.Text, Required: true},
			{Name: "customer", Label: "Customer", Kind: controller.Text, Required: true},
			{Name: "cargo", Label: "Cargo", Kind: controller.Text},
			{Name: "totalAmount", Label: "Total amount", Kind: controller.Number, Required: true},
			{Name: "currency", Label: "Currency", Kind: controller.Select, Options: []string{"RWF", "USD", "UGX", "TZX"}},
			{Name: "paidOption", Label: "Payment", Kind: controller.Select, Options: []string{models.PaidFull, models.PaidInstallment}},
			{Name: "date", Label: "Date", Kind: controller.Date, Required: true},
			{Name: "notes", Label: "Notes", Kind: controller.Text},
		},
		Defaults: map[string]string{
			"paidOption": models.PaidFull,
			"currency":   "RWF",
		},
		Row: func(j models.Journey) []string {
			return []string{
				j.Date,
				j.DepartureCity + " → " + j.DestinationCity,
				j.Customer,
				money(j.Pay.TotalAmount, j.Pay.Currency),
				money(j.Balance(), j.Pay.Currency),
				j.Status,
			}
		},
		ID:       func(j models.Journey) string { return j.ID },
		Label:    func(j models.Journey) string { return j.DepartureCity + " → " + j.DestinationCity },
		Actions:  JourneyActions(),
		SubForms: JourneySubForms(),
		Detail: func(j models.Journey) []string {
			lines := []string{
				"Route:    " + j.DepartureCity + " → " + j.DestinationCity,
				"Customer: " + j.Customer,
				"Cargo:    " + j.Cargo,
				"Driver:   " + firstNonEmpty(j.DriverName, j.DriverID),
				"Truck:    " + firstNonEmpty(j.TruckPlate, j.TruckID),
				"Status:   " + j.Status,
				"Payment:  " + j.Pay.PaidOption + ", total " + money(j.Pay.TotalAmount, j.Pay.Currency),
				"Paid:     " + money(j.TotalPaid(), j.Pay.Currency),
				"Balance:  " + money(j.Balance(), j.Pay.Currency),
				"Expenses: " + money(j.TotalExpenses(), j.Pay.Currency),
			}
			for _, in := range j.Pay.Installments {
				lines = append(lines, fmt.Sprintf("  · %s  %s  %s", in.Date, money(in.Amount, j.Pay.Currency), in.Note))
			}
			for _, e := range j.Expenses {
				lines = append(lines, fmt.Sprintf("  - %s  %s  %s", e.Title, money(e.Amount, j.Pay.Currency), e.Note))
			}
			return lines
		},
		// The form edits payment fields flat; the endpoint wants them
		// nested under pay.
		Transform: func(p map[string]any) map[string]any {
			pay := map[string]any{}
			for _, key := range []string{"totalAmount", "currency", "paidOption"} {
				if v, ok := p[key]; ok {
					pay[key] = v
					delete(p, key)
				}
			}
			p["pay"] = pay
			return p
		},
		FormValues: func(j models.Journey) map[string]string {
			return map[string]string{
				"departureCity":   j.DepartureCity,
				"destinationCity": j.DestinationCity,
				"driver":          j.DriverID,
				"truck":           j.TruckID,
				"customer":        j.Customer,
				"cargo":           j.Cargo,
				"totalAmount":     fmt.Sprintf("%g", j.Pay.TotalAmount),
				"currency":        j.Pay.Currency,
				"paidOption":      j.Pay.PaidOption,
				"date":            j.Date,
				"notes":           j.Notes,
			}
		},
	}
}

// OfficeExpenses describes the office-expense ledger page.
func OfficeExpenses() Descriptor[models.OfficeExpense] {
	return Descriptor[models.OfficeExpense]{
		Res: controller.Resource{
			Name:             "office expenses",
			Path:             "api/office-expenses",
			FilterKeys:       []string{"currency"},
			DefaultSortBy:    "date",
			DefaultSortOrder: "desc",
		},
		Require: AdminOrOfficer,
		Columns: []Column{
			{Title: "DATE", Width: 11},
			{Title: "TITLE", Width: 24},
			{Title: "AMOUNT", Width: 14},
			{Title: "CURRENCY", Width: 10},
		},
		Fields: []controller.Field{
			{Name: "title", Label: "Title", Kind: controller.Text, Required: true},
			{Name: "description", Label: "Description", Kind: controller.Text},
			{Name: "amount", Label: "Amount", Kind: controller.Number, Required: true},
			{Name: "currency", Label: "Currency", Kind: controller.Select, Options: []string{"RWF", "USD", "UGX", "TZX"}},
			{Name: "exchangeRate", Label: "Exchange rate", Kind: controller.Number},
			{Name: "date", Label: "Date", Kind: controller.Date, Required: true},
		},
		Defaults: map[string]string{"currency": "RWF", "exchangeRate": "1"},
		Row: func(e models.OfficeExpense) []string {
			return []string{e.Date, e.Title, fmt.Sprintf("%.2f", e.Amount), e.Currency}
		},
		ID:       func(e models.OfficeExpense) string { return e.ID },
		Label:    func(e models.OfficeExpense) string { return e.Title },
		SubForms: ExpenseSubForms(),
		FormValues: func(e models.OfficeExpense) map[string]string {
			return map[string]string{
				"title":        e.Title,
				"description":  e.Description,
				"amount":       fmt.Sprintf("%g", e.Amount),
				"currency":     e.Currency,
				"exchangeRate": fmt.Sprintf("%g", e.ExchangeRate),
				"date":         e.Date,
			}
		},
	}
}

// Users describes the account administration page.
func Users() Descriptor[models.User] {
	return Descriptor[models.User]{
		Res: controller.Resource{
			Name:             "users",
			Path:             "api/users",
			FilterKeys:       []string{"role", "status"},
			DefaultSortBy:    "username",
			DefaultSortOrder: "asc",
		},
		Require: AdminOnly,
		Columns: []Column{
			{Title: "USERNAME", Width: 16},
			{Title: "NAME", Width: 20},
			{Title: "PHONE", Width: 14},
			{Title: "ROLE", Width: 9},
			{Title: "ACTIVE", Width: 7},
		},
		Fields: []controller.Field{
			{Name: "username", Label: "Username", Kind: controller.Text, Required: true},
			{Name: "displayName", Label: "Display name", Kind: controller.Text},
			{Name: "email", Label: "Email", Kind: controller.Text},
			{Name: "phone", Label: "Phone", Kind: controller.Text, Required: true},
			{Name: "password", Label: "Password", Kind: controller.Text, RequiredOnCreate: true},
			{Name: "role", Label: "Role", Kind: controller.Select, Options: []string{models.RoleAdmin, models.RoleOfficer, models.RoleUser}},
		},
		Defaults: map[string]string{"role": models.RoleUser},
		Row: func(u models.User) []string {
			active := "no"
			if u.Active {
				active = "yes"
			}
			return []string{u.Username, u.DisplayName, u.Phone, u.Role, active}
		},
		ID:    func(u models.User) string { return u.ID },
		Label: func(u models.User) string { return u.Username },
		FormValues: func(u models.User) map[string]string {
			return map[string]string{
				"username":    u.Username,
				"displayName": u.DisplayName,
				"email":       u.Email,
				"phone":       u.Phone,
				"role":        u.Role,
			}
		},
	}
}
