// Package app wires the job tracker client together: one cache, one API
// client and the list, form and notifications that share them.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/mo"

	"jobtracker/internal/config"
	"jobtracker/internal/domain"
	"jobtracker/internal/events"
	"jobtracker/internal/jobform"
	"jobtracker/internal/jobsapi"
	"jobtracker/internal/jobsync"
	"jobtracker/internal/listview"
	"jobtracker/internal/logging"
	"jobtracker/internal/notify"
	"jobtracker/internal/querycache"
	"jobtracker/internal/secrets"
)

const (
	msgCreated      = "Job application created successfully"
	msgUpdated      = "Job application updated successfully"
	msgCreateFailed = "Failed to create job application"
	msgUpdateFailed = "Failed to update job application"
)

var ErrNoForm = errors.New("no form is open")

type Option func(*options)

type options struct {
	api   jobsync.API
	hub   *events.Hub
	today func() time.Time
	notes []notify.Option
}

// WithAPI replaces the HTTP client built from config.
func WithAPI(api jobsync.API) Option {
	return func(o *options) { o.api = api }
}

// WithHub mirrors cache and notification events to h.
func WithHub(h *events.Hub) Option {
	return func(o *options) { o.hub = h }
}

func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.today = now
		o.notes = append(o.notes, notify.WithClock(now))
	}
}

// Session is one user's view of the tracker.
type Session struct {
	cfg   config.Config
	cache *querycache.Cache[[]domain.Job]
	jobs  *jobsync.Service
	notes *notify.Center
	list  *listview.View
	hub   *events.Hub
	today func() time.Time
	log   *slog.Logger
	unsub func()

	mu   sync.Mutex
	form *jobform.Form
}

func NewSession(cfg config.Config, opts ...Option) (*Session, error) {
	o := options{today: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	log := logging.New("app")

	api := o.api
	if api == nil {
		c, err := newClient(cfg, log)
		if err != nil {
			return nil, err
		}
		api = c
	}

	copts := querycache.DefaultOptions()
	copts.StaleTime = cfg.StaleTime()
	copts.GCTime = cfg.GCTime()
	copts.Retry = cfg.Cache.Retry
	copts.RetryDelay = cfg.RetryDelay()
	cache := querycache.New[[]domain.Job](copts)

	if o.hub != nil {
		o.notes = append(o.notes, notify.WithHub(o.hub))
	}
	notes := notify.NewCenter(o.notes...)
	svc := jobsync.New(api, cache)

	s := &Session{
		cfg:   cfg,
		cache: cache,
		jobs:  svc,
		notes: notes,
		list:  listview.New(svc, notes),
		hub:   o.hub,
		today: o.today,
		log:   log,
	}
	s.unsub = cache.Subscribe(querycache.ResourceKey(jobsync.Resource), s.publish)
	return s, nil
}

func newClient(cfg config.Config, log *slog.Logger) (*jobsapi.Client, error) {
	copts := []jobsapi.Option{
		jobsapi.WithTimeout(cfg.APITimeout()),
		jobsapi.WithRateLimit(cfg.API.RequestsPerSecond, cfg.API.Burst),
	}
	tok, err := secrets.GetAPIToken(cfg)
	switch {
	case err == nil:
		copts = append(copts, jobsapi.WithToken(tok))
	case errors.Is(err, secrets.ErrTokenNotFound):
	default:
		log.Warn("api token unavailable, continuing without auth", "err", err)
	}
	c, err := jobsapi.New(cfg.API.BaseURL, copts...)
	if err != nil {
		return nil, fmt.Errorf("api client: %w", err)
	}
	return c, nil
}

func (s *Session) publish(e querycache.Event) {
	if s.hub == nil {
		return
	}
	typ := events.TypeJobsUpdated
	if e.Kind == querycache.Invalidated {
		typ = events.TypeJobsInvalidated
	}
	s.hub.Publish(events.MakeEvent("", typ, 1, map[string]string{"key": e.Key.String()}))
}

func (s *Session) Config() config.Config                  { return s.cfg }
func (s *Session) Cache() *querycache.Cache[[]domain.Job] { return s.cache }
func (s *Session) Jobs() *jobsync.Service                 { return s.jobs }
func (s *Session) List() *listview.View                   { return s.list }
func (s *Session) Notifications() *notify.Center          { return s.notes }

// OpenCreate opens an empty create form, replacing any open form.
func (s *Session) OpenCreate() *jobform.Form {
	return s.open(mo.None[domain.Job]())
}

// OpenEdit opens a form prefilled from job.
func (s *Session) OpenEdit(job domain.Job) *jobform.Form {
	return s.open(mo.Some(job))
}

func (s *Session) open(initial mo.Option[domain.Job]) *jobform.Form {
	f := jobform.New(initial, s.today, s.notes)
	s.mu.Lock()
	s.form = f
	s.mu.Unlock()
	return f
}

// Form returns the open form, if any.
func (s *Session) Form() mo.Option[*jobform.Form] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.form == nil || !s.form.IsOpen() {
		return mo.None[*jobform.Form]()
	}
	return mo.Some(s.form)
}

func (s *Session) CloseForm() {
	s.mu.Lock()
	f := s.form
	s.form = nil
	s.mu.Unlock()
	if f != nil {
		f.Close()
	}
}

// SubmitForm submits the open form as a create or an update depending on
// how it was opened.
func (s *Session) SubmitForm(ctx context.Context) mo.Result[domain.Job] {
	f, ok := s.Form().Get()
	if !ok {
		return mo.Err[domain.Job](ErrNoForm)
	}
	handler := s.HandleCreate
	if f.Mode() == jobform.ModeEdit {
		handler = s.HandleUpdate
	}
	res := f.Submit(ctx, handler)
	if res.IsOk() {
		s.mu.Lock()
		if s.form == f {
			s.form = nil
		}
		s.mu.Unlock()
	}
	return res
}

// HandleCreate creates a job and announces the outcome. Failures from a
// form submit are announced by the form itself.
func (s *Session) HandleCreate(ctx context.Context, data domain.JobFormData) mo.Result[domain.Job] {
	res := s.jobs.Create(ctx, data)
	if res.IsOk() {
		s.notes.Success(msgCreated)
	} else {
		s.log.Warn("create failed", "err", res.Error(), "kind", jobsync.KindOf(res.Error()).String())
	}
	return res
}

func (s *Session) HandleUpdate(ctx context.Context, data domain.JobFormData) mo.Result[domain.Job] {
	res := s.jobs.Update(ctx, data)
	if res.IsOk() {
		s.notes.Success(msgUpdated)
	} else {
		s.log.Warn("update failed", "err", res.Error(), "kind", jobsync.KindOf(res.Error()).String())
	}
	return res
}

// Create runs a create outside a form, as the CLI does, and notifies
// both outcomes.
func (s *Session) Create(ctx context.Context, data domain.JobFormData) mo.Result[domain.Job] {
	res := s.HandleCreate(ctx, data)
	if res.IsError() {
		s.notes.Error(msgCreateFailed)
	}
	return res
}

func (s *Session) Update(ctx context.Context, data domain.JobFormData) mo.Result[domain.Job] {
	res := s.HandleUpdate(ctx, data)
	if res.IsError() {
		s.notes.Error(msgUpdateFailed)
	}
	return res
}

// Sweep drops unobserved cache entries past their GC time.
func (s *Session) Sweep() int {
	n := s.cache.Sweep()
	if n > 0 {
		s.log.Debug("cache sweep", "dropped", n)
	}
	return n
}

// Close unmounts the list and waits for background cache work.
func (s *Session) Close() {
	s.CloseForm()
	s.list.Close()
	s.unsub()
	s.list.Wait()
	s.cache.Wait()
}
