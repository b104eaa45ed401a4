package in

import (
	"fmt"
	"net/http"
	"strconv"

	pomodorodto "tasktracker/internal/modules/pomodoro/dto"
	pomodoroin "tasktracker/internal/modules/pomodoro/port/in"
	apperrors "tasktracker/internal/platform/errors"
	"tasktracker/internal/platform/httpapi"
)

type HTTPHandler struct {
	usecase pomodoroin.Usecase
}

func NewHTTPHandler(usecase pomodoroin.Usecase) HTTPHandler {
	return HTTPHandler{usecase: usecase}
}

func (h HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/pomodoro", h.tick)
	mux.HandleFunc("POST /api/pomodoro/config", h.configure)
	mux.HandleFunc("POST /api/pomodoro/start", h.start)
	mux.HandleFunc("POST /api/pomodoro/pause", h.pause)
	mux.HandleFunc("POST /api/pomodoro/reset", h.reset)
	mux.HandleFunc("POST /api/pomodoro/focus", h.focus)
	mux.HandleFunc("POST /api/pomodoro/switch", h.switchTo)
	mux.HandleFunc("GET /api/pomodoro/stats", h.stats)
	mux.HandleFunc("GET /api/pomodoro/history", h.history)
}

func (h HTTPHandler) tick(w http.ResponseWriter, r *http.Request) {
	httpapi.WriteJSON(w, http.StatusOK, h.usecase.Tick(r.Context()))
}

func (h HTTPHandler) configure(w http.ResponseWriter, r *http.Request) {
	var input pomodorodto.ConfigureInput
	if err := httpapi.Decode(r, &input); err != nil {
		httpapi.WriteError(w, err)
		return
	}
	out, err := h.usecase.Configure(r.Context(), input)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, out)
}

func (h HTTPHandler) start(w http.ResponseWriter, r *http.Request) {
	httpapi.WriteJSON(w, http.StatusOK, h.usecase.Start(r.Context()))
}

func (h HTTPHandler) pause(w http.ResponseWriter, r *http.Request) {
	httpapi.WriteJSON(w, http.StatusOK, h.usecase.Pause(r.Context()))
}

func (h HTTPHandler) reset(w http.ResponseWriter, r *http.Request) {
	httpapi.WriteJSON(w, http.StatusOK, h.usecase.Reset(r.Context()))
}

func (h HTTPHandler) focus(w http.ResponseWriter, r *http.Request) {
	var input pomodorodto.FocusInput
	if err := httpapi.Decode(r, &input); err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, h.usecase.SetFocusMode(r.Context(), input))
}

func (h HTTPHandler) switchTo(w http.ResponseWriter, r *http.Request) {
	var input pomodorodto.SwitchInput
	if err := httpapi.Decode(r, &input); err != nil {
		httpapi.WriteError(w, err)
		return
	}
	out, err := h.usecase.SwitchTo(r.Context(), input)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, out)
}

func (h HTTPHandler) stats(w http.ResponseWriter, r *http.Request) {
	httpapi.WriteJSON(w, http.StatusOK, h.usecase.Statistics(r.Context()))
}

func (h HTTPHandler) history(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			httpapi.WriteError(w, fmt.Errorf("%w: limit must be a non-negative integer", apperrors.ErrInvalidInput))
			return
		}
		limit = parsed
	}
	out, err := h.usecase.History(r.Context(), limit)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, out)
}
