// Package jobsynctest provides an in-memory jobs backend for tests.
package jobsynctest

import (
	"context"
	"errors"
	"sync"
	"time"

	"jobtracker/internal/domain"
)

var ErrInjected = errors.New("injected failure")

// FakeAPI behaves like the /api/jobs backend and counts calls per
// operation. Set Fail* to make the next calls fail.
type FakeAPI struct {
	mu     sync.Mutex
	jobs   []domain.Job
	nextID int64
	calls  map[string]int

	// FailReads makes this many read calls fail before succeeding again.
	FailReads int
	// FailMutations makes every mutation fail while set.
	FailMutations bool
	// Gate, when set, is waited on by every read.
	Gate chan struct{}
}

func NewFakeAPI(seed ...domain.Job) *FakeAPI {
	f := &FakeAPI{calls: make(map[string]int)}
	for _, j := range seed {
		f.nextID++
		j.ID = domain.Int64Ptr(f.nextID)
		f.jobs = append(f.jobs, j)
	}
	return f
}

func (f *FakeAPI) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *FakeAPI) SetFailReads(n int) {
	f.mu.Lock()
	f.FailReads = n
	f.mu.Unlock()
}

func (f *FakeAPI) SetFailMutations(v bool) {
	f.mu.Lock()
	f.FailMutations = v
	f.mu.Unlock()
}

func (f *FakeAPI) Jobs() []domain.Job {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Job(nil), f.jobs...)
}

func (f *FakeAPI) read(ctx context.Context, op string, keep func(domain.Job) bool) ([]domain.Job, error) {
	f.mu.Lock()
	gate := f.Gate
	f.calls[op]++
	fail := f.FailReads > 0
	if fail {
		f.FailReads--
	}
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if fail {
		return nil, ErrInjected
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Job{}
	for _, j := range f.jobs {
		if keep(j) {
			out = append(out, j)
		}
	}
	return out, nil
}

func (f *FakeAPI) GetAll(ctx context.Context) ([]domain.Job, error) {
	return f.read(ctx, "getAll", func(domain.Job) bool { return true })
}

func (f *FakeAPI) GetByStatus(ctx context.Context, status domain.Status) ([]domain.Job, error) {
	return f.read(ctx, "getByStatus", func(j domain.Job) bool { return j.Status == status })
}

func (f *FakeAPI) Create(_ context.Context, data domain.JobFormData) (domain.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["create"]++
	if f.FailMutations {
		return domain.Job{}, ErrInjected
	}
	f.nextID++
	now := time.Now().UTC().Format(time.RFC3339)
	j := domain.Job{
		ID:             domain.Int64Ptr(f.nextID),
		Company:        data.Company,
		Position:       data.Position,
		Location:       data.Location,
		ApplicationURL: data.ApplicationURL,
		Status:         data.Status,
		Notes:          data.Notes,
		CreatedAt:      now,
		CreatedBy:      "fake",
		ModifiedAt:     now,
		ModifiedBy:     "fake",
		LastUpdated:    now,
	}
	f.jobs = append(f.jobs, j)
	return j, nil
}

func (f *FakeAPI) Update(_ context.Context, data domain.JobFormData) (domain.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["update"]++
	if f.FailMutations || data.ID == nil {
		return domain.Job{}, ErrInjected
	}
	for i, j := range f.jobs {
		if j.JobID() != *data.ID {
			continue
		}
		j.Company = data.Company
		j.Position = data.Position
		j.Location = data.Location
		j.ApplicationURL = data.ApplicationURL
		j.Status = data.Status
		j.Notes = data.Notes
		j.ModifiedAt = time.Now().UTC().Format(time.RFC3339Nano)
		f.jobs[i] = j
		return j, nil
	}
	return domain.Job{}, ErrInjected
}

func (f *FakeAPI) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["delete"]++
	if f.FailMutations {
		return ErrInjected
	}
	for i, j := range f.jobs {
		if j.JobID() == id {
			f.jobs = append(f.jobs[:i], f.jobs[i+1:]...)
			return nil
		}
	}
	return ErrInjected
}
