package listview

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/samber/mo"

	"jobtracker/internal/confirm"
	"jobtracker/internal/domain"
	"jobtracker/internal/jobsync"
	"jobtracker/internal/logging"
	"jobtracker/internal/notify"
	"jobtracker/internal/querycache"
)

type State string

const (
	StateLoading   State = "loading"
	StateError     State = "error"
	StateEmpty     State = "empty"
	StatePopulated State = "populated"
)

type DeleteState string

const (
	DeleteIdle     DeleteState = "idle"
	DeletePending  DeleteState = "pending-confirmation"
	DeleteDeleting DeleteState = "deleting"
)

const (
	DeleteTitle   = "Delete Job Application"
	DeleteMessage = "Are you sure you want to delete this job application? This action cannot be undone."

	msgLoadFailed   = "Failed to load jobs"
	msgDeleted      = "Job deleted successfully"
	msgDeleteFailed = "Failed to delete job"
)

var (
	ErrClosed           = errors.New("list view closed")
	ErrDeleteInProgress = errors.New("a delete is already in progress")
	ErrNoPendingDelete  = errors.New("no delete awaiting confirmation")
)

// Source is what the view reads from and deletes through.
type Source interface {
	List(ctx context.Context, filter mo.Option[domain.Status]) ([]domain.Job, error)
	Delete(ctx context.Context, id int64) mo.Result[int64]
	Cache() *querycache.Cache[[]domain.Job]
}

// View is the job list: the cached rows for the active status filter and
// the two-step delete confirmation.
type View struct {
	src    Source
	notify notify.Notifier
	dialog *confirm.Dialog
	log    *slog.Logger

	mu           sync.Mutex
	filter       mo.Option[domain.Status]
	state        State
	jobs         []domain.Job
	err          error
	seq          uint64
	closed       bool
	deleteState  DeleteState
	deleteTarget int64
	onChange     []func(Snapshot)

	unsub func()
	bg    sync.WaitGroup
}

func New(src Source, n notify.Notifier) *View {
	v := &View{
		src:         src,
		notify:      n,
		dialog:      &confirm.Dialog{},
		log:         logging.New("listview"),
		filter:      mo.None[domain.Status](),
		state:       StateLoading,
		deleteState: DeleteIdle,
	}
	v.unsub = src.Cache().Subscribe(querycache.ResourceKey(jobsync.Resource), v.onCacheEvent)
	return v
}

// OnChange registers fn to run after every applied state change.
func (v *View) OnChange(fn func(Snapshot)) {
	v.mu.Lock()
	v.onChange = append(v.onChange, fn)
	v.mu.Unlock()
}

// Load reads the rows for the active filter. The view shows loading only
// when nothing is cached for the key; stale rows stay visible while the
// cache refreshes them.
func (v *View) Load(ctx context.Context) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.seq++
	seq := v.seq
	filter := v.filter
	if _, fr := v.src.Cache().Lookup(jobsync.KeyFor(filter)); fr == querycache.Missing {
		v.state = StateLoading
		v.jobs = nil
		v.err = nil
	}
	v.mu.Unlock()

	jobs, err := v.src.List(ctx, filter)
	if err != nil && ctx.Err() != nil &&
		(errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		// The caller gave up; the shared fetch still lands in the cache
		// and reaches the view as an update.
		v.log.Debug("dropping cancelled load", "seq", seq, "err", err)
		return
	}
	v.apply(seq, jobsync.KeyFor(filter), jobs, err)
}

// apply stores a load result when it belongs to the latest load and to the
// filter still active.
func (v *View) apply(seq uint64, key querycache.Key, jobs []domain.Job, err error) {
	v.mu.Lock()
	if v.closed || seq != v.seq || key != jobsync.KeyFor(v.filter) {
		v.mu.Unlock()
		v.log.Debug("dropping superseded response", "seq", seq, "key", key.String())
		return
	}
	if err != nil {
		v.state = StateError
		v.jobs = nil
		v.err = err
	} else {
		v.err = nil
		v.jobs = jobs
		if len(jobs) == 0 {
			v.state = StateEmpty
		} else {
			v.state = StatePopulated
		}
	}
	v.mu.Unlock()

	if err != nil {
		v.log.Warn("load failed", "err", err)
		v.notify.Error(msgLoadFailed)
	}
	v.changed()
}

// SetFilter switches to status and loads it.
func (v *View) SetFilter(ctx context.Context, status domain.Status) {
	v.mu.Lock()
	v.filter = mo.Some(status)
	v.mu.Unlock()
	v.Load(ctx)
}

// ClearFilter switches back to the unfiltered list and loads it.
func (v *View) ClearFilter(ctx context.Context) {
	v.mu.Lock()
	v.filter = mo.None[domain.Status]()
	v.mu.Unlock()
	v.Load(ctx)
}

func (v *View) Filter() mo.Option[domain.Status] {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filter
}

// RequestDelete records id and opens the confirmation dialog.
func (v *View) RequestDelete(id int64) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return ErrClosed
	}
	if v.deleteState == DeleteDeleting {
		return ErrDeleteInProgress
	}
	v.deleteState = DeletePending
	v.deleteTarget = id
	v.dialog.Show(DeleteTitle, DeleteMessage)
	return nil
}

func (v *View) CancelDelete() {
	v.mu.Lock()
	if v.deleteState != DeletePending {
		v.mu.Unlock()
		return
	}
	v.deleteState = DeleteIdle
	v.deleteTarget = 0
	v.dialog.Close()
	v.mu.Unlock()
	v.changed()
}

// ConfirmDelete deletes the pending target. On success the job list is
// invalidated, the dialog closed and the view reloaded. On failure the
// record stays, an error is notified and the dialog stays open so the
// user can cancel or confirm again.
func (v *View) ConfirmDelete(ctx context.Context) mo.Result[int64] {
	v.mu.Lock()
	if v.deleteState != DeletePending {
		v.mu.Unlock()
		return mo.Err[int64](ErrNoPendingDelete)
	}
	v.deleteState = DeleteDeleting
	id := v.deleteTarget
	v.mu.Unlock()

	res := mo.Err[int64](ErrNoPendingDelete)
	v.dialog.Confirm(func() {
		res = v.src.Delete(ctx, id)
	})

	v.mu.Lock()
	if res.IsOk() {
		v.deleteState = DeleteIdle
		v.deleteTarget = 0
		v.dialog.Close()
	} else {
		v.deleteState = DeletePending
	}
	v.mu.Unlock()

	if res.IsOk() {
		v.notify.Success(msgDeleted)
		v.Load(ctx)
	} else {
		v.log.Warn("delete failed", "id", id, "err", res.Error())
		v.notify.Error(msgDeleteFailed)
		v.changed()
	}
	return res
}

// Close unmounts the view: late responses are ignored and cache events no
// longer reach it.
func (v *View) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	v.mu.Unlock()
	v.unsub()
}

// Wait blocks until reloads triggered by cache events have finished.
func (v *View) Wait() {
	v.bg.Wait()
}

func (v *View) onCacheEvent(e querycache.Event) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	key := jobsync.KeyFor(v.filter)
	seq := v.seq
	v.mu.Unlock()

	switch e.Kind {
	case querycache.Invalidated:
		v.bg.Add(1)
		go func() {
			defer v.bg.Done()
			v.Load(context.Background())
		}()
	case querycache.Updated:
		// A background refetch for our key finished; take its rows
		// from the cache without another request.
		if e.Key != key {
			return
		}
		if jobs, fr := v.src.Cache().Lookup(key); fr != querycache.Missing {
			v.apply(seq, key, jobs, nil)
		}
	}
}

func (v *View) changed() {
	v.mu.Lock()
	fns := append([]func(Snapshot){}, v.onChange...)
	v.mu.Unlock()
	if len(fns) == 0 {
		return
	}
	s := v.Snapshot()
	for _, fn := range fns {
		fn(s)
	}
}
