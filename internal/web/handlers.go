package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/samber/mo"

	"jobtracker/internal/domain"
	"jobtracker/internal/httpapi"
	"jobtracker/internal/jobform"
)

// List serves the job list. ?status=S filters, a bare ?status= clears.
func (s *Server) List(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	ctx := r.Context()
	q := r.URL.Query()
	switch {
	case !q.Has("status"):
		s.sess.List().Load(ctx)
	case q.Get("status") == "":
		s.sess.List().ClearFilter(ctx)
	default:
		st, err := domain.ParseStatus(q.Get("status"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.sess.List().SetFilter(ctx, st)
	}
	s.renderList(w, r)
}

func (s *Server) NewJob(w http.ResponseWriter, r *http.Request) {
	s.renderForm(w, r, http.StatusOK, s.sess.OpenCreate())
}

func (s *Server) findJob(r *http.Request, id int64) (domain.Job, bool) {
	jobs, err := s.sess.Jobs().List(r.Context(), mo.None[domain.Status]())
	if err != nil {
		return domain.Job{}, false
	}
	for _, j := range jobs {
		if j.JobID() == id {
			return j, true
		}
	}
	return domain.Job{}, false
}

func (s *Server) editJob(w http.ResponseWriter, r *http.Request, id int64) {
	job, ok := s.findJob(r, id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.renderForm(w, r, http.StatusOK, s.sess.OpenEdit(job))
}

var formFields = []string{
	jobform.FieldCompany,
	jobform.FieldPosition,
	jobform.FieldLocation,
	jobform.FieldApplicationURL,
	jobform.FieldStatus,
	jobform.FieldNotes,
	jobform.FieldApplicationDate,
}

// Save submits the form for the posted id. When the session has no form
// open, or has one open for another record (server restart, second tab),
// a form is reopened from the posted id.
func (s *Server) Save(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	f, ok := s.sess.Form().Get()
	if !ok || !postedFor(f, r) {
		f, ok = s.reopen(r)
		if !ok {
			http.NotFound(w, r)
			return
		}
	}
	for _, field := range formFields {
		if _, present := r.PostForm[field]; present {
			_ = f.Set(field, r.PostForm.Get(field))
		}
	}

	res := s.sess.SubmitForm(r.Context())
	if res.IsOk() {
		redirectHome(w, r)
		return
	}
	var verr jobform.ValidationError
	if errors.As(res.Error(), &verr) {
		s.renderForm(w, r, http.StatusUnprocessableEntity, f)
		return
	}
	s.renderForm(w, r, http.StatusOK, f)
}

// postedFor reports whether the posted id names the record f edits. An
// empty id matches only a create form.
func postedFor(f *jobform.Form, r *http.Request) bool {
	raw := strings.TrimSpace(r.PostForm.Get(jobform.FieldID))
	if raw == "" {
		return f.Mode() == jobform.ModeCreate
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || f.Mode() != jobform.ModeEdit {
		return false
	}
	open, ok := f.ID().Get()
	return ok && open == id
}

func (s *Server) reopen(r *http.Request) (*jobform.Form, bool) {
	raw := strings.TrimSpace(r.PostForm.Get(jobform.FieldID))
	if raw == "" {
		return s.sess.OpenCreate(), true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, false
	}
	job, ok := s.findJob(r, id)
	if !ok {
		return nil, false
	}
	return s.sess.OpenEdit(job), true
}

func (s *Server) CloseForm(w http.ResponseWriter, r *http.Request) {
	s.sess.CloseForm()
	redirectHome(w, r)
}

func (s *Server) requestDelete(w http.ResponseWriter, r *http.Request, id int64) {
	if err := s.sess.List().RequestDelete(id); err != nil {
		httpapi.WriteError(w, r, http.StatusConflict, "conflict", err.Error())
		return
	}
	redirectHome(w, r)
}

// ConfirmDelete redirects either way: a failure leaves the dialog open
// and a notification on the list page.
func (s *Server) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	res := s.sess.List().ConfirmDelete(r.Context())
	if res.IsError() {
		s.log.Warn("delete not confirmed", "request_id", httpapi.RequestIDFrom(r.Context()), "err", res.Error())
	}
	redirectHome(w, r)
}

func (s *Server) CancelDelete(w http.ResponseWriter, r *http.Request) {
	s.sess.List().CancelDelete()
	redirectHome(w, r)
}

// Jobs serves /jobs/{id}/edit and /jobs/{id}/delete.
func (s *Server) Jobs(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/jobs/"), "/")
	idStr, action, ok := strings.Cut(rest, "/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	switch action {
	case "edit":
		httpapi.MethodMux(map[string]http.HandlerFunc{
			http.MethodGet: func(w http.ResponseWriter, r *http.Request) { s.editJob(w, r, id) },
		})(w, r)
	case "delete":
		httpapi.MethodMux(map[string]http.HandlerFunc{
			http.MethodPost: func(w http.ResponseWriter, r *http.Request) { s.requestDelete(w, r, id) },
		})(w, r)
	default:
		http.NotFound(w, r)
	}
}

// Dismiss serves POST /notifications/{id}/dismiss.
func (s *Server) Dismiss(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/notifications/"), "/")
	id, action, ok := strings.Cut(rest, "/")
	if !ok || action != "dismiss" || id == "" {
		http.NotFound(w, r)
		return
	}
	s.sess.Notifications().Dismiss(id)
	redirectHome(w, r)
}
