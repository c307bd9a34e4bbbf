// Package web serves the browser UI for one app.Session.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"jobtracker/internal/app"
	"jobtracker/internal/domain"
	"jobtracker/internal/events"
	"jobtracker/internal/httpapi"
	"jobtracker/internal/jobform"
	"jobtracker/internal/listview"
	"jobtracker/internal/logging"
	"jobtracker/internal/notify"
)

//go:embed templates/*.html
var templateFS embed.FS

type Deps struct {
	Session *app.Session
	// Hub feeds /events. Pass the same hub the session publishes to.
	Hub *events.Hub
}

type Server struct {
	sess  *app.Session
	hub   *events.Hub
	pages map[string]*template.Template
	log   *slog.Logger
}

func New(d Deps) (*Server, error) {
	funcs := template.FuncMap{"formatDate": listview.FormatDate}
	pages := map[string]*template.Template{}
	for _, name := range []string{"list", "form"} {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		pages[name] = t
	}
	hub := d.Hub
	if hub == nil {
		hub = events.NewHub()
	}
	return &Server{sess: d.Session, hub: hub, pages: pages, log: logging.New("web")}, nil
}

type listPage struct {
	View          listview.Snapshot
	Statuses      []domain.Status
	Notifications []notify.Notification
}

type formPage struct {
	Edit          bool
	ID            int64
	Values        jobform.Values
	Errors        jobform.ValidationError
	Statuses      []domain.Status
	Notifications []notify.Notification
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	var buf bytes.Buffer
	if err := s.pages[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		s.log.Error("render", "page", page, "request_id", httpapi.RequestIDFrom(r.Context()), "err", err)
		httpapi.WriteError(w, r, http.StatusInternalServerError, httpapi.CodeInternal, "render failed")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) renderList(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "list", listPage{
		View:          s.sess.List().Snapshot(),
		Statuses:      domain.Statuses,
		Notifications: s.sess.Notifications().Active(),
	})
}

func (s *Server) renderForm(w http.ResponseWriter, r *http.Request, status int, f *jobform.Form) {
	p := formPage{
		Edit:          f.Mode() == jobform.ModeEdit,
		ID:            f.ID().OrElse(0),
		Values:        f.Values(),
		Errors:        f.Errors(),
		Statuses:      domain.Statuses,
		Notifications: s.sess.Notifications().Active(),
	}
	s.render(w, r, status, "form", p)
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
