package fleet

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetdesk/internal/api"
	"fleetdesk/internal/models"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

type capture struct {
	method string
	path   string
	body   []byte
}

func newTestService(t *testing.T, respond string) (*Service, *capture) {
	t.Helper()
	rec := &capture{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.body, _ = io.ReadAll(r.Body)
		w.Write([]byte(respond))
	}))
	t.Cleanup(srv.Close)
	return NewService(api.NewClient(srv.URL, staticToken("tok"), nil)), rec
}

func TestAddInstallment(t *testing.T) {
	svc, rec := newTestService(t, `{"data":{}}`)

	in := models.Installment{Amount: 250, Note: "cash", Date: "2026-08-30"}
	require.NoError(t, svc.AddInstallment(context.Background(), "j1", in))

	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/api/drives/j1/installment", rec.path)

	var sent models.Installment
	require.NoError(t, json.Unmarshal(rec.body, &sent))
	assert.Equal(t, in, sent)
}

func TestCompleteJourney(t *testing.T) {
	svc, rec := newTestService(t, `{"data":{}}`)

	require.NoError(t, svc.CompleteJourney(context.Background(), "j1"))
	assert.Equal(t, http.MethodPut, rec.method)
	assert.Equal(t, "/api/drives/j1", rec.path)
	assert.JSONEq(t, `{"status":"completed"}`, string(rec.body))
}

func TestJourneysByCustomer(t *testing.T) {
	svc, rec := newTestService(t, `{"data":[{"_id":"j1","customer":"c1"}],"pagination":{"page":1,"limit":50,"total":1,"pages":1}}`)

	journeys, err := svc.JourneysByCustomer(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "/api/drives/by-customer/c1", rec.path)
	require.Len(t, journeys, 1)
	assert.Equal(t, "j1", journeys[0].ID)
}

func TestUploadExpenseProof(t *testing.T) {
	path := filepath.Join(t.TempDir(), "receipt.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpeg"), 0o644))

	svc, rec := newTestService(t, `{"data":{}}`)
	require.NoError(t, svc.UploadExpenseProof(context.Background(), "e1", path))

	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/api/office-expenses/e1/proof", rec.path)
	assert.True(t, strings.Contains(string(rec.body), "receipt.jpg"), "multipart body carries the filename")
}

func TestStats(t *testing.T) {
	svc, rec := newTestService(t, `{"data":{"totalTrucks":4,"activeJourneys":2}}`)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/api/users/stats", rec.path)
	assert.Equal(t, 4, stats.TotalTrucks)
	assert.Equal(t, 2, stats.ActiveJourneys)
}

func TestSettingsAndExchangeRates(t *testing.T) {
	svc, rec := newTestService(t, `{"data":{"companyName":"Acme Haulage","baseCurrency":"RWF","exchangeRates":{"USD":1320.5}}}`)

	s, err := svc.Settings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/api/settings", rec.path)
	assert.Equal(t, "Acme Haulage", s.CompanyName)
	assert.Equal(t, 1320.5, s.ExchangeRates["USD"])

	require.NoError(t, svc.UpdateExchangeRates(context.Background(), map[string]float64{"USD": 1300}))
	assert.Equal(t, http.MethodPut, rec.method)
	assert.Equal(t, "/api/settings/exchange-rates", rec.path)
	assert.JSONEq(t, `{"exchangeRates":{"USD":1300}}`, string(rec.body))
}

func TestUpdateProfile(t *testing.T) {
	svc, rec := newTestService(t, `{"user":{"_id":"u1","username":"root","displayName":"Root A."}}`)

	user, err := svc.UpdateProfile(context.Background(), map[string]any{"displayName": "Root A."})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, rec.method)
	assert.Equal(t, "/api/auth/profile", rec.path)
	assert.Equal(t, "Root A.", user.DisplayName, "the response feeds the session cache directly")
}
