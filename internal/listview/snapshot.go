package listview

import (
	"strings"

	"jobtracker/internal/confirm"
	"jobtracker/internal/domain"
)

// Snapshot is an immutable copy of the view for rendering.
type Snapshot struct {
	State     State
	Filter    domain.Status // empty when no filter is active
	HasFilter bool
	Jobs      []domain.Job
	Err       string

	Delete       DeleteState
	DeleteTarget int64
	Dialog       confirm.State
}

func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	s := Snapshot{
		State:        v.state,
		Jobs:         append([]domain.Job(nil), v.jobs...),
		Delete:       v.deleteState,
		DeleteTarget: v.deleteTarget,
		Dialog:       v.dialog.State(),
	}
	if st, ok := v.filter.Get(); ok {
		s.Filter = st
		s.HasFilter = true
	}
	if v.err != nil {
		s.Err = msgLoadFailed
	}
	return s
}

// EmptyHint is the secondary line under "No jobs found".
func (s Snapshot) EmptyHint() string {
	if s.HasFilter {
		return "No " + strings.ToLower(string(s.Filter)) + " applications found"
	}
	return "Start by adding your first job application"
}

// FormatDate renders a YYYY-MM-DD application date as "Oct 05, 2026".
// Anything unparseable is returned unchanged.
func FormatDate(d string) string {
	if d == "" {
		return ""
	}
	t, err := parseDate(d)
	if err != nil {
		return d
	}
	return t.Format("Jan 02, 2006")
}
