package report

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetdesk/internal/api"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestFetchEndpoints(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"data":{"summary":{"totalDrives":3}}}`))
	}))
	defer srv.Close()

	svc := NewService(api.NewClient(srv.URL, staticToken("tok"), nil))
	ctx := context.Background()

	tests := []struct {
		name      string
		q         Query
		wantPath  string
		wantQuery string
	}{
		{"daily", Query{Type: Daily, Date: "2026-08-30"}, "/api/reports/daily/2026-08-30", ""},
		{"weekly with truck", Query{Type: Weekly, Week: "2026-W35", TruckID: "t1"}, "/api/reports/weekly/2026-W35", "truckId=t1"},
		{"monthly", Query{Type: Monthly, Month: "2026-08"}, "/api/reports/monthly/2026-08", ""},
		{"summary", Query{Type: Summary}, "/api/reports/summary", ""},
		{"custom", Query{Type: Custom, Start: "2026-01-01", End: "2026-06-30", GroupBy: "month"},
			"/api/reports/custom", "endDate=2026-06-30&groupBy=month&startDate=2026-01-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep, err := svc.Fetch(ctx, tt.q)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, gotPath)
			assert.Equal(t, tt.wantQuery, gotQuery)
			require.NotNil(t, rep.TotalsBlock())
			assert.Equal(t, 3, rep.TotalsBlock().TotalDrives)
		})
	}
}

func TestFetchUnknownType(t *testing.T) {
	svc := NewService(api.NewClient("http://127.0.0.1:1", staticToken(""), nil))
	_, err := svc.Fetch(context.Background(), Query{Type: "hourly"})
	assert.Error(t, err)
}

func TestTotalsBlockPrefersSummary(t *testing.T) {
	summary := &Totals{TotalDrives: 1}
	overall := &Totals{TotalDrives: 2}

	assert.Equal(t, summary, Report{Summary: summary, Overall: overall}.TotalsBlock())
	assert.Equal(t, overall, Report{Overall: overall}.TotalsBlock())
	assert.Nil(t, Report{}.TotalsBlock())
}
