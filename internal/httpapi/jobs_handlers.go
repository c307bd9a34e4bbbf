package httpapi

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"jobtracker/internal/domain"
	"jobtracker/internal/events"
	"jobtracker/internal/store"
)

// JobsPath is the collection route of the jobs backend.
const JobsPath = "/api/jobs"

// JobsHandler serves the jobs REST backend from sqlite.
type JobsHandler struct {
	DB  *sql.DB
	Hub *events.Hub
	Now func() time.Time
}

func (h JobsHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	jobs, err := store.ListJobs(r.Context(), h.DB)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, jobs)
}

// ByPath serves /api/jobs/{id} and /api/jobs/status/{status}.
func (h JobsHandler) ByPath(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, JobsPath+"/"), "/")
	if st, ok := strings.CutPrefix(rest, "status/"); ok {
		if r.Method != http.MethodGet {
			WriteError(w, r, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed")
			return
		}
		h.listByStatus(w, r, st)
		return
	}

	id, err := parseID(rest)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	MethodMux(map[string]http.HandlerFunc{
		http.MethodGet:    func(w http.ResponseWriter, r *http.Request) { h.get(w, r, id) },
		http.MethodDelete: func(w http.ResponseWriter, r *http.Request) { h.delete(w, r, id) },
	})(w, r)
}

func (h JobsHandler) listByStatus(w http.ResponseWriter, r *http.Request, raw string) {
	status, err := domain.ParseStatus(raw)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	jobs, err := store.ListJobsByStatus(r.Context(), h.DB, status)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, jobs)
}

func (h JobsHandler) get(w http.ResponseWriter, r *http.Request, id int64) {
	job, err := store.GetJob(r.Context(), h.DB, id)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, job)
}

func (h JobsHandler) Create(w http.ResponseWriter, r *http.Request) {
	data, ok := h.readForm(w, r)
	if !ok {
		return
	}
	data.ID = nil
	job, err := store.InsertJob(r.Context(), h.DB, data, userFrom(r), h.now())
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	h.publish(r, "created", job.JobID())
	WriteJSON(w, http.StatusCreated, job)
}

func (h JobsHandler) Update(w http.ResponseWriter, r *http.Request) {
	data, ok := h.readForm(w, r)
	if !ok {
		return
	}
	if data.ID == nil {
		WriteError(w, r, http.StatusBadRequest, CodeBadRequest, "id is required")
		return
	}
	job, err := store.UpdateJob(r.Context(), h.DB, data, userFrom(r), h.now())
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	h.publish(r, "updated", job.JobID())
	WriteJSON(w, http.StatusOK, job)
}

func (h JobsHandler) delete(w http.ResponseWriter, r *http.Request, id int64) {
	if err := store.DeleteJob(r.Context(), h.DB, id); err != nil {
		h.storeError(w, r, err)
		return
	}
	h.publish(r, "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

// readForm decodes and checks a JobFormData body, answering 400 itself.
func (h JobsHandler) readForm(w http.ResponseWriter, r *http.Request) (domain.JobFormData, bool) {
	var data domain.JobFormData
	if err := decodeJSON(r, &data); err != nil {
		WriteError(w, r, http.StatusBadRequest, CodeBadRequest, err.Error())
		return data, false
	}
	var missing []string
	for _, f := range []struct{ name, v string }{
		{"company", data.Company},
		{"position", data.Position},
		{"location", data.Location},
	} {
		if strings.TrimSpace(f.v) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		WriteError(w, r, http.StatusBadRequest, CodeBadRequest, "missing "+strings.Join(missing, ", "))
		return data, false
	}
	if !data.Status.Valid() {
		WriteError(w, r, http.StatusBadRequest, CodeBadRequest, "invalid status")
		return data, false
	}
	return data, true
}

func (h JobsHandler) storeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		WriteError(w, r, http.StatusNotFound, CodeNotFound, err.Error())
		return
	}
	logger().Error("store", "request_id", RequestIDFrom(r.Context()), "path", r.URL.Path, "err", err)
	WriteError(w, r, http.StatusInternalServerError, CodeInternal, "internal server error")
}

func (h JobsHandler) publish(r *http.Request, change string, id int64) {
	if h.Hub == nil {
		return
	}
	h.Hub.Publish(events.MakeEvent(RequestIDFrom(r.Context()), events.TypeJobsUpdated, 1, map[string]any{
		"change": change,
		"id":     id,
	}))
}
