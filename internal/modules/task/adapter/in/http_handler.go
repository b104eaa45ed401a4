package in

import (
	"net/http"

	taskdto "tasktracker/internal/modules/task/dto"
	taskin "tasktracker/internal/modules/task/port/in"
	"tasktracker/internal/platform/httpapi"
)

type HTTPHandler struct {
	usecase taskin.Usecase
}

func NewHTTPHandler(usecase taskin.Usecase) HTTPHandler {
	return HTTPHandler{usecase: usecase}
}

func (h HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/tasks", h.list)
	mux.HandleFunc("POST /api/tasks", h.add)
	mux.HandleFunc("GET /api/tasks/stats", h.stats)
	mux.HandleFunc("GET /api/tasks/log", h.log)
	mux.HandleFunc("POST /api/tasks/{id}/toggle", h.toggle)
	mux.HandleFunc("PUT /api/tasks/{id}/priority", h.setPriority)
	mux.HandleFunc("PUT /api/tasks/{id}/deadline", h.setDeadline)
	mux.HandleFunc("DELETE /api/tasks/{id}", h.delete)
}

func (h HTTPHandler) list(w http.ResponseWriter, r *http.Request) {
	out, err := h.usecase.List(r.Context(), taskdto.ListInput{Sort: r.URL.Query().Get("sort")})
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, out)
}

func (h HTTPHandler) add(w http.ResponseWriter, r *http.Request) {
	var input taskdto.AddTaskInput
	if err := httpapi.Decode(r, &input); err != nil {
		httpapi.WriteError(w, err)
		return
	}
	out, err := h.usecase.Add(r.Context(), input)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, out)
}

func (h HTTPHandler) toggle(w http.ResponseWriter, r *http.Request) {
	out, err := h.usecase.Toggle(r.Context(), r.PathValue("id"))
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, out)
}

func (h HTTPHandler) setPriority(w http.ResponseWriter, r *http.Request) {
	var input taskdto.SetPriorityInput
	if err := httpapi.Decode(r, &input); err != nil {
		httpapi.WriteError(w, err)
		return
	}
	input.ID = r.PathValue("id")
	out, err := h.usecase.SetPriority(r.Context(), input)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, out)
}

func (h HTTPHandler) setDeadline(w http.ResponseWriter, r *http.Request) {
	var input taskdto.SetTaskDeadlineInput
	if err := httpapi.Decode(r, &input); err != nil {
		httpapi.WriteError(w, err)
		return
	}
	input.ID = r.PathValue("id")
	out, err := h.usecase.SetDeadline(r.Context(), input)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, out)
}

func (h HTTPHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.usecase.Delete(r.Context(), r.PathValue("id")); err != nil {
		httpapi.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h HTTPHandler) stats(w http.ResponseWriter, r *http.Request) {
	out, err := h.usecase.Stats(r.Context())
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, out)
}

func (h HTTPHandler) log(w http.ResponseWriter, r *http.Request) {
	out, err := h.usecase.Log(r.Context())
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, out)
}
