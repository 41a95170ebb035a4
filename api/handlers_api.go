package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
	mc "github.com/saeidalz13/battleship-solo/models/connection"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("failed to write response:", err)
	}
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, mc.NewFailedResult[mc.NoPayload](message))
}

// writeServiceError maps errors of the game service onto HTTP. Anything
// that is not a client mistake is logged and hidden behind a generic
// message.
func writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, cerr.ErrMissingSessionKey) {
		writeFailure(w, http.StatusBadRequest, mc.MsgMissingSessionKey)
		return
	}
	log.Println(err)
	writeFailure(w, http.StatusInternalServerError, mc.MsgInternalFailure)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, mc.RespSessionKey{SessionKey: mc.NewSessionId()})
}

func (s *Server) handleForgetSession(w http.ResponseWriter, r *http.Request) {
	key := consumerKey(r)
	if key == "" {
		writeFailure(w, http.StatusBadRequest, mc.MsgMissingSessionKey)
		return
	}

	if err := s.game.Forget(r.Context(), key); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mc.Result[mc.NoPayload]{Message: mc.MsgSessionCleared, Success: true})
}

func (s *Server) handlePlaceShips(w http.ResponseWriter, r *http.Request) {
	key := consumerKey(r)
	if key == "" {
		writeFailure(w, http.StatusBadRequest, mc.MsgMissingSessionKey)
		return
	}

	resp, err := s.game.PlaceFleet(r.Context(), key)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleShootResult(w http.ResponseWriter, r *http.Request) {
	key := consumerKey(r)
	if key == "" {
		writeFailure(w, http.StatusBadRequest, mc.MsgMissingSessionKey)
		return
	}

	coords, err := queryInts(r, "row", "column")
	if err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := s.game.Shoot(r.Context(), key, coords[0], coords[1])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	fleets, err := s.analytics.GetFleetsPlacedCount(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	shots, err := s.analytics.GetShotsFiredCount(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mc.RespAnalytics{FleetsPlaced: fleets, ShotsFired: shots})
}
