package in

import (
	"net/http"

	countdowndto "tasktracker/internal/modules/countdown/dto"
	countdownin "tasktracker/internal/modules/countdown/port/in"
	"tasktracker/internal/platform/httpapi"
)

type HTTPHandler struct {
	usecase countdownin.Usecase
}

func NewHTTPHandler(usecase countdownin.Usecase) HTTPHandler {
	return HTTPHandler{usecase: usecase}
}

func (h HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/deadline", h.status)
	mux.HandleFunc("POST /api/deadline", h.setDeadline)
	mux.HandleFunc("DELETE /api/deadline", h.resetDeadline)
	mux.HandleFunc("GET /api/deadline/options", h.options)
	mux.HandleFunc("GET /api/remaining", h.remaining)
	mux.HandleFunc("GET /api/spent", h.spent)
}

func (h HTTPHandler) status(w http.ResponseWriter, r *http.Request) {
	httpapi.WriteJSON(w, http.StatusOK, h.usecase.Status(r.Context()))
}

func (h HTTPHandler) setDeadline(w http.ResponseWriter, r *http.Request) {
	var input countdowndto.SetDeadlineInput
	if err := httpapi.Decode(r, &input); err != nil {
		httpapi.WriteError(w, err)
		return
	}
	out, err := h.usecase.SetDeadline(r.Context(), input)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, out)
}

func (h HTTPHandler) resetDeadline(w http.ResponseWriter, r *http.Request) {
	if err := h.usecase.ResetDeadline(r.Context()); err != nil {
		httpapi.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h HTTPHandler) options(w http.ResponseWriter, r *http.Request) {
	httpapi.WriteJSON(w, http.StatusOK, h.usecase.Options(r.Context()))
}

func (h HTTPHandler) remaining(w http.ResponseWriter, r *http.Request) {
	httpapi.WriteJSON(w, http.StatusOK, map[string]int{"remaining_seconds": h.usecase.RemainingSeconds(r.Context())})
}

func (h HTTPHandler) spent(w http.ResponseWriter, r *http.Request) {
	httpapi.WriteJSON(w, http.StatusOK, map[string]int{"spent_seconds": h.usecase.SpentSeconds(r.Context())})
}
