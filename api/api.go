// Package api serves the engine over HTTP for display hosts.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"elevatorsim/dispatch"
	"elevatorsim/elevator"
	"elevatorsim/elevio"
	"elevatorsim/fsm"
)

type Engine interface {
	SubmitRequest(from, to int) (dispatch.Receipt, error)
	ListElevators() []elevator.Elevator
	Elevator(id int) (elevator.Elevator, error)
	ListFloors() []elevator.Floor
	Requests() []dispatch.RequestRecord
	Tick() fsm.Report
	Idle() bool
}

type submitBody struct {
	From *int `json:"from"`
	To   *int `json:"to"`
}

type submitResponse struct {
	dispatch.Receipt
	Duplicate bool `json:"duplicate"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status string `json:"status"`
	Idle   bool   `json:"idle"`
}

// NewRouter builds the routes. panel may be nil, in which case /panel is not
// served.
func NewRouter(eng Engine, panel *elevio.Panel, log *zerolog.Logger) http.Handler {
	l := log.With().Str("component", "api").Logger()
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Idle: eng.Idle()})
	})

	r.Get("/floors", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, eng.ListFloors())
	})

	r.Get("/elevators", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, eng.ListElevators())
	})

	r.Get("/elevators/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "elevator id must be an integer"})
			return
		}
		e, err := eng.Elevator(id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, e)
	})

	r.Get("/requests", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, eng.Requests())
	})

	r.Post("/requests", func(w http.ResponseWriter, r *http.Request) {
		var body submitBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.From == nil || body.To == nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "body must be {\"from\": n, \"to\": n}"})
			return
		}
		receipt, err := eng.SubmitRequest(*body.From, *body.To)
		switch {
		case err == nil:
			writeJSON(w, http.StatusCreated, submitResponse{Receipt: receipt})
		case errors.Is(err, elevator.ErrDuplicateRequest):
			writeJSON(w, http.StatusOK, submitResponse{Receipt: receipt, Duplicate: true})
		default:
			l.Debug().Err(err).Msg("Rejected request")
			writeError(w, err)
		}
	})

	// Manual clock for hosts that drive the simulation themselves.
	r.Post("/tick", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, eng.Tick())
	})

	if panel != nil {
		r.Get("/panel", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, struct {
				Tick     uint64                    `json:"tick"`
				Elevator []elevio.ElevOutputDevice `json:"elevators"`
				Hall     []elevio.HallLight        `json:"hall"`
			}{panel.Tick(), panel.Outputs(), panel.HallLights()})
		})
	}

	return r
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, elevator.ErrFloorNotFound), errors.Is(err, elevator.ErrElevatorNotFound):
		return http.StatusNotFound
	case errors.Is(err, elevator.ErrInvalidRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "failed to encode", http.StatusInternalServerError)
	}
}
