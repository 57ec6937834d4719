// Package report fetches aggregated journey reports and exports them to
// flat files. It is read-only: no report mutates server state.
package report

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"fleetdesk/internal/api"
	"fleetdesk/internal/models"
)

// Report types.
const (
	Daily   = "daily"
	Weekly  = "weekly"
	Monthly = "monthly"
	Custom  = "custom"
	Summary = "summary"
)

// Query selects one aggregate. Which key fields matter depends on Type:
// Date for daily, Week for weekly, Month for monthly, Start/End/GroupBy for
// custom. TruckID is an optional filter for every type.
type Query struct {
	Type    string
	Date    string // yyyy-mm-dd
	Week    string // yyyy-Www
	Month   string // yyyy-mm
	Start   string // yyyy-mm-dd
	End     string // yyyy-mm-dd
	GroupBy string // day, week, month
	TruckID string
}

// Totals is the aggregate block present on every report.
type Totals struct {
	TotalDrives   int     `json:"totalDrives"`
	TotalAmount   float64 `json:"totalAmount"`
	TotalExpenses float64 `json:"totalExpenses"`
	TotalPaid     float64 `json:"totalPaid"`
	NetProfit     float64 `json:"netProfit"`
}

// Bucket is one row of a report's date breakdown.
type Bucket struct {
	Date   string `json:"date"`
	Totals        // embedded: same measure set per bucket
}

// Report is the fetched aggregate.
type Report struct {
	Summary   *Totals  `json:"summary"`
	Overall   *Totals  `json:"overall"`
	Breakdown []Bucket `json:"breakdown"`
}

// TotalsBlock returns whichever aggregate block the backend filled in;
// summary and overall are the same thing under two generations of naming.
func (r Report) TotalsBlock() *Totals {
	if r.Summary != nil {
		return r.Summary
	}
	return r.Overall
}

// Service fetches reports through the shared API client.
type Service struct {
	client *api.Client
}

// NewService builds a report service.
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// endpoint builds the path for a query.
func (q Query) endpoint() (string, error) {
	truck := url.Values{}
	if q.TruckID != "" {
		truck.Set("truckId", q.TruckID)
	}
	suffix := ""
	if len(truck) > 0 {
		suffix = "?" + truck.Encode()
	}

	switch q.Type {
	case Daily:
		return "api/reports/daily/" + q.Date + suffix, nil
	case Weekly:
		return "api/reports/weekly/" + q.Week + suffix, nil
	case Monthly:
		return "api/reports/monthly/" + q.Month + suffix, nil
	case Summary:
		return "api/reports/summary" + suffix, nil
	case Custom:
		params := url.Values{}
		params.Set("startDate", q.Start)
		params.Set("endDate", q.End)
		if q.GroupBy != "" {
			params.Set("groupBy", q.GroupBy)
		}
		if q.TruckID != "" {
			params.Set("truckId", q.TruckID)
		}
		return "api/reports/custom?" + params.Encode(), nil
	default:
		return "", fmt.Errorf("unknown report type %q", q.Type)
	}
}

// Fetch retrieves the aggregate for the query.
func (s *Service) Fetch(ctx context.Context, q Query) (Report, error) {
	path, err := q.endpoint()
	if err != nil {
		return Report{}, err
	}
	var detail models.Detail[Report]
	if err := s.client.Do(ctx, http.MethodGet, path, nil, &detail); err != nil {
		return Report{}, err
	}
	return detail.Data, nil
}
