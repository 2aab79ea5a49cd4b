package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/icewatch/ice-news-monitor/internal/service"
	"github.com/icewatch/ice-news-monitor/internal/transport/response"
)

// Run triggers one monitor cycle over HTTP.
type Run struct {
	monitor *service.Monitor
}

func NewRun(monitor *service.Monitor) *Run {
	return &Run{monitor: monitor}
}

type runRequest struct {
	DryRun bool `json:"dryRun"`
}

func (h *Run) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		response.WriteBadRequest(w, "Invalid JSON")
		return
	}

	result, err := h.monitor.Run(r.Context(), req.DryRun)
	if err != nil {
		var stageErr *service.StageError
		if errors.As(err, &stageErr) {
			response.WriteJSON(w, http.StatusInternalServerError, response.Response{
				Status: "error",
				Error:  err.Error(),
				Data:   map[string]string{"stage": string(stageErr.Stage)},
			})
			return
		}
		response.WriteInternalError(w, err.Error())
		return
	}

	response.WriteSuccess(w, "Run completed", result)
}
