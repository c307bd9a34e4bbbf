package jobsync

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/samber/mo"

	"jobtracker/internal/domain"
	"jobtracker/internal/logging"
	"jobtracker/internal/querycache"
)

// Resource is the cache resource holding every job list read.
const Resource = "jobs"

// API is the subset of the jobs API client the sync layer needs.
type API interface {
	GetAll(ctx context.Context) ([]domain.Job, error)
	GetByStatus(ctx context.Context, status domain.Status) ([]domain.Job, error)
	Create(ctx context.Context, job domain.JobFormData) (domain.Job, error)
	Update(ctx context.Context, job domain.JobFormData) (domain.Job, error)
	Delete(ctx context.Context, id int64) error
}

// Service reads job lists through the cache and runs mutations that
// invalidate it on success.
type Service struct {
	api   API
	cache *querycache.Cache[[]domain.Job]
	log   *slog.Logger
}

func New(api API, cache *querycache.Cache[[]domain.Job]) *Service {
	return &Service{api: api, cache: cache, log: logging.New("jobsync")}
}

func (s *Service) Cache() *querycache.Cache[[]domain.Job] { return s.cache }

// KeyFor maps the optional status filter onto a cache key.
func KeyFor(filter mo.Option[domain.Status]) querycache.Key {
	if st, ok := filter.Get(); ok {
		return querycache.Key{Resource: Resource, Filter: string(st)}
	}
	return querycache.Key{Resource: Resource, Filter: querycache.FilterAll}
}

// List returns the jobs for filter in backend order.
func (s *Service) List(ctx context.Context, filter mo.Option[domain.Status]) ([]domain.Job, error) {
	return s.cache.Read(ctx, KeyFor(filter), s.fetcher(filter))
}

func (s *Service) fetcher(filter mo.Option[domain.Status]) querycache.Fetcher[[]domain.Job] {
	if st, ok := filter.Get(); ok {
		return func(ctx context.Context) ([]domain.Job, error) {
			return s.api.GetByStatus(ctx, st)
		}
	}
	return s.api.GetAll
}

func (s *Service) Create(ctx context.Context, data domain.JobFormData) mo.Result[domain.Job] {
	data.ID = nil
	if err := checkFields(data); err != nil {
		return mo.Err[domain.Job](&MutationError{Op: "create", Kind: KindValidation, Err: err})
	}
	job, err := s.api.Create(ctx, data)
	if err != nil {
		return mo.Err[domain.Job](&MutationError{Op: "create", Kind: KindTransport, Err: err})
	}
	s.invalidate("create")
	return mo.Ok(job)
}

func (s *Service) Update(ctx context.Context, data domain.JobFormData) mo.Result[domain.Job] {
	if data.ID == nil {
		return mo.Err[domain.Job](&MutationError{Op: "update", Kind: KindValidation, Err: errors.New("job id is required")})
	}
	if err := checkFields(data); err != nil {
		return mo.Err[domain.Job](&MutationError{Op: "update", Kind: KindValidation, Err: err})
	}
	job, err := s.api.Update(ctx, data)
	if err != nil {
		return mo.Err[domain.Job](&MutationError{Op: "update", Kind: KindTransport, Err: err})
	}
	s.invalidate("update")
	return mo.Ok(job)
}

// Delete returns the id of the removed job.
func (s *Service) Delete(ctx context.Context, id int64) mo.Result[int64] {
	if id <= 0 {
		return mo.Err[int64](&MutationError{Op: "delete", Kind: KindValidation, Err: errors.New("job id is required")})
	}
	if err := s.api.Delete(ctx, id); err != nil {
		return mo.Err[int64](&MutationError{Op: "delete", Kind: KindTransport, Err: err})
	}
	s.invalidate("delete")
	return mo.Ok(id)
}

func (s *Service) invalidate(op string) {
	n := s.cache.Invalidate(Resource)
	s.log.Debug("job list invalidated", "op", op, "dropped", n)
}

func checkFields(d domain.JobFormData) error {
	var missing []string
	if strings.TrimSpace(d.Company) == "" {
		missing = append(missing, "company")
	}
	if strings.TrimSpace(d.Position) == "" {
		missing = append(missing, "position")
	}
	if strings.TrimSpace(d.Location) == "" {
		missing = append(missing, "location")
	}
	if len(missing) > 0 {
		return errors.New("missing " + strings.Join(missing, ", "))
	}
	if !d.Status.Valid() {
		return errors.New("invalid status " + string(d.Status))
	}
	return nil
}
