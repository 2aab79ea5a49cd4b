package handler

import (
	"net/http"

	"github.com/icewatch/ice-news-monitor/internal/repository"
	"github.com/icewatch/ice-news-monitor/internal/transport/response"
)

// State exposes the persisted seen record, mainly for operability checks.
type State struct {
	state repository.StateRepository
}

func NewState(state repository.StateRepository) *State {
	return &State{state: state}
}

func (h *State) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	record, err := h.state.Load(r.Context())
	if err != nil {
		response.WriteInternalError(w, err.Error())
		return
	}

	data := map[string]interface{}{
		"record": record,
		"empty":  record.IsZero(),
	}
	response.WriteSuccess(w, "", data)
}
