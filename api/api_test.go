package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"elevatorsim/config"
	"elevatorsim/dispatch"
	"elevatorsim/elevator"
	"elevatorsim/elevio"
	"elevatorsim/engine"
	"elevatorsim/fsm"
)

func newServer(t *testing.T) (*engine.Engine, *httptest.Server) {
	t.Helper()
	log := zerolog.Nop()
	eng, err := engine.New(config.Default(), &log)
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	panel := elevio.NewPanel()
	eng.Subscribe(panel.Observe)
	srv := httptest.NewServer(NewRouter(eng, panel, &log))
	t.Cleanup(srv.Close)
	return eng, srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string, out interface{}) int {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func TestSubmitRequestStatusCodes(t *testing.T) {
	_, srv := newServer(t)

	cases := []struct {
		name      string
		body      string
		status    int
		duplicate bool
	}{
		{"assigned", `{"from": 2, "to": 6}`, http.StatusCreated, false},
		{"duplicate", `{"from": 2, "to": 6}`, http.StatusOK, true},
		{"same floor", `{"from": 3, "to": 3}`, http.StatusBadRequest, false},
		{"unknown floor", `{"from": 0, "to": 42}`, http.StatusNotFound, false},
		{"missing field", `{"from": 1}`, http.StatusBadRequest, false},
		{"not json", `up please`, http.StatusBadRequest, false},
	}
	for _, c := range cases {
		var resp map[string]interface{}
		status := do(t, srv, http.MethodPost, "/requests", c.body, &resp)
		if status != c.status {
			t.Errorf("%s: status %d, expected %d (%v)", c.name, status, c.status, resp)
			continue
		}
		if c.status < 300 && resp["duplicate"] != c.duplicate {
			t.Errorf("%s: duplicate = %v, expected %v", c.name, resp["duplicate"], c.duplicate)
		}
	}

	var log []dispatch.RequestRecord
	do(t, srv, http.MethodGet, "/requests", "", &log)
	if len(log) != 2 || log[0].Outcome != dispatch.Assigned || log[1].Outcome != dispatch.Duplicate {
		t.Errorf("request log = %+v", log)
	}
}

func TestReadEndpoints(t *testing.T) {
	eng, srv := newServer(t)
	if _, err := eng.SubmitRequest(0, 3); err != nil {
		t.Fatalf("SubmitRequest: %v", err)
	}

	var floors []elevator.Floor
	if status := do(t, srv, http.MethodGet, "/floors", "", &floors); status != http.StatusOK || len(floors) != 7 {
		t.Errorf("GET /floors = %d %v", status, floors)
	}

	var elevators []elevator.Elevator
	do(t, srv, http.MethodGet, "/elevators", "", &elevators)
	if len(elevators) != 3 || len(elevators[0].Trips) != 1 {
		t.Errorf("GET /elevators = %+v", elevators)
	}

	var one elevator.Elevator
	if status := do(t, srv, http.MethodGet, "/elevators/0", "", &one); status != http.StatusOK || one.ID != 0 {
		t.Errorf("GET /elevators/0 = %d %+v", status, one)
	}
	if status := do(t, srv, http.MethodGet, "/elevators/9", "", nil); status != http.StatusNotFound {
		t.Errorf("GET /elevators/9 = %d, expected 404", status)
	}
	if status := do(t, srv, http.MethodGet, "/elevators/abc", "", nil); status != http.StatusBadRequest {
		t.Errorf("GET /elevators/abc = %d, expected 400", status)
	}

	var health healthResponse
	do(t, srv, http.MethodGet, "/health", "", &health)
	if health.Status != "ok" || health.Idle {
		t.Errorf("GET /health = %+v, expected busy fleet", health)
	}
}

func TestManualTick(t *testing.T) {
	_, srv := newServer(t)
	do(t, srv, http.MethodPost, "/requests", `{"from": 0, "to": 3}`, nil)

	for i := 1; i <= 3; i++ {
		var report fsm.Report
		if status := do(t, srv, http.MethodPost, "/tick", "", &report); status != http.StatusOK || report.Tick != uint64(i) {
			t.Fatalf("POST /tick #%d = %d %+v", i, status, report)
		}
	}

	var one elevator.Elevator
	do(t, srv, http.MethodGet, "/elevators/0", "", &one)
	if one.CurrentFloor.Number != 3 || one.Status != elevator.Idle || len(one.Trips) != 0 {
		t.Errorf("after three ticks elevator 0 = %+v", one)
	}

	var panel struct {
		Tick      uint64                    `json:"tick"`
		Elevators []elevio.ElevOutputDevice `json:"elevators"`
	}
	do(t, srv, http.MethodGet, "/panel", "", &panel)
	if panel.Tick != 3 || panel.Elevators[0].FloorIndicator != 3 {
		t.Errorf("GET /panel = %+v", panel)
	}
}
