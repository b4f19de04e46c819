package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vsinha/firemarshal/pkg/application/dto"
	"github.com/vsinha/firemarshal/pkg/application/services"
	"github.com/vsinha/firemarshal/pkg/infrastructure/advisories"
	"github.com/vsinha/firemarshal/pkg/infrastructure/events"
	testhelpers "github.com/vsinha/firemarshal/pkg/infrastructure/testing"
)

var referenceBody = testhelpers.BuildReportRequestJSON()

func newTestServer(t *testing.T) (*Server, *events.InMemoryEventStore) {
	t.Helper()
	pack, err := advisories.DefaultPack()
	if err != nil {
		t.Fatalf("DefaultPack failed: %v", err)
	}
	evaluator, err := advisories.NewEvaluator(pack)
	if err != nil {
		t.Fatalf("NewEvaluator failed: %v", err)
	}
	journal := events.NewInMemoryEventStore(10)
	service := services.NewBurnServiceWithConfig(services.ServiceConfig{
		Advisories: evaluator,
		Journal:    journal,
	})
	return NewServer(":0", service, journal, nil), journal
}

func serve(s *Server, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)
	w := serve(s, "GET", "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp map[string]bool
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp["ok"] {
		t.Errorf("ok = false, want true")
	}
}

func TestEvaluateBurn(t *testing.T) {
	s, _ := newTestServer(t)
	w := serve(s, "POST", "/v1/burns", referenceBody)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var report dto.BurnReport
	if err := json.NewDecoder(w.Body).Decode(&report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Result.EffectiveThrust != 200 {
		t.Errorf("effective thrust = %v, want 200", report.Result.EffectiveThrust)
	}
	if report.Result.FuelFinal <= 0 {
		t.Errorf("fuel final = %v, want positive", report.Result.FuelFinal)
	}
	if len(report.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", report.Warnings)
	}
}

func TestEvaluateBurn_InsufficientFuel(t *testing.T) {
	s, _ := newTestServer(t)
	body := strings.Replace(referenceBody, `"fuel_initial_mg":4`, `"fuel_initial_mg":2`, 1)
	w := serve(s, "POST", "/v1/burns", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var report dto.BurnReport
	if err := json.NewDecoder(w.Body).Decode(&report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(report.Warnings) != 1 || report.Warnings[0] != dto.InsufficientFuelWarning {
		t.Errorf("warnings = %v, want [%s]", report.Warnings, dto.InsufficientFuelWarning)
	}
}

func TestEvaluateBurn_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{
			name:       "malformed json",
			body:       `{"delta_v_m_s":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "malformed request body",
		},
		{
			name:       "unknown field",
			body:       `{"dv":1000}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "malformed request body",
		},
		{
			name:       "no engines",
			body:       `{"delta_v_m_s":1000,"vehicle":{"mass_initial_mg":10,"fuel_initial_mg":4},"engines":[]}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "no engines supplied",
		},
		{
			name:       "zero specific impulse",
			body:       `{"delta_v_m_s":1000,"vehicle":{"mass_initial_mg":10,"fuel_initial_mg":4},"engines":[{"thrust_kn":200,"isp_s":0}]}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "engine 1: engine has zero specific impulse",
		},
		{
			name:       "negative delta-v",
			body:       `{"delta_v_m_s":-5,"vehicle":{"mass_initial_mg":10,"fuel_initial_mg":4},"engines":[{"thrust_kn":200,"isp_s":300}]}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "delta-v cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t)
			w := serve(s, "POST", "/v1/burns", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}

			var resp map[string]string
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !strings.Contains(resp["error"], tt.wantError) {
				t.Errorf("error = %q, want it to contain %q", resp["error"], tt.wantError)
			}
		})
	}
}

func TestListBurns(t *testing.T) {
	s, journal := newTestServer(t)
	for i := 0; i < 3; i++ {
		if w := serve(s, "POST", "/v1/burns", referenceBody); w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
		}
	}
	serve(s, "POST", "/v1/burns", `{"delta_v_m_s":1000,"vehicle":{"mass_initial_mg":10,"fuel_initial_mg":4},"engines":[{"thrust_kn":200,"isp_s":0}]}`)
	if w := serve(s, "POST", "/v1/burns", `{"delta_v_m_s":-5,"vehicle":{"mass_initial_mg":10,"fuel_initial_mg":4},"engines":[{"thrust_kn":200,"isp_s":300}]}`); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}

	recorded := journal.Recent(0)
	if got := len(recorded); got != 5 {
		t.Fatalf("journal holds %d events, want 5", got)
	}
	for i, e := range recorded[:2] {
		if e.Type() != events.BurnRejectedEvent {
			t.Errorf("event %d type = %s, want %s", i, e.Type(), events.BurnRejectedEvent)
		}
	}
	rejected, ok := recorded[0].Data().(events.BurnRejected)
	if !ok {
		t.Fatalf("newest event data = %T, want events.BurnRejected", recorded[0].Data())
	}
	if !strings.Contains(rejected.Reason, "delta-v cannot be negative") {
		t.Errorf("reason = %q, want it to mention negative delta-v", rejected.Reason)
	}

	w := serve(s, "GET", "/v1/burns?limit=2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var resp []map[string]any
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("got %d events, want 2", len(resp))
	}
	if resp[0]["type"] != events.BurnRejectedEvent {
		t.Errorf("newest event type = %v, want %s", resp[0]["type"], events.BurnRejectedEvent)
	}

	if w := serve(s, "GET", "/v1/burns?limit=-1", ""); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	serve(s, "POST", "/v1/burns", referenceBody)

	w := serve(s, "GET", "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := w.Body.String()
	for _, want := range []string{
		`firemarshal_burn_evaluations_total{outcome="ok"} 1`,
		"firemarshal_burn_time_seconds_count 1",
		`firemarshal_http_requests_total{code="200",method="POST",path="/v1/burns"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestMetricsEndpoint_UnmatchedPathsShareLabel(t *testing.T) {
	s, _ := newTestServer(t)
	for _, path := range []string{"/nope/1", "/nope/2", "/v1/burns/../../x"} {
		if w := serve(s, "GET", path, ""); w.Code == http.StatusOK {
			t.Fatalf("GET %s status = %d, want non-200", path, w.Code)
		}
	}

	body := serve(s, "GET", "/metrics", "").Body.String()
	if strings.Contains(body, `path="/nope/1"`) || strings.Contains(body, `path="/nope/2"`) || strings.Contains(body, `path="/x"`) {
		t.Errorf("metrics output carries raw request paths:\n%s", body)
	}
	if !strings.Contains(body, `firemarshal_http_requests_total{code="404",method="GET",path="unmatched"} 2`) {
		t.Errorf("metrics output missing unmatched 404 counter")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(t)
	w := serve(s, "DELETE", "/v1/burns", "")
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}
}
