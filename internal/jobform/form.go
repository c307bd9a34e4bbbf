// Package jobform holds the create/edit form for a job application.
package jobform

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/samber/mo"

	"jobtracker/internal/domain"
	"jobtracker/internal/jobsync"
	"jobtracker/internal/notify"
)

type Mode string

var statusChoicesMsg = "Status must be one of " + joinStatuses(domain.Statuses)

func joinStatuses(all []domain.Status) string {
	names := make([]string, len(all))
	for i, st := range all {
		names[i] = string(st)
	}
	return strings.Join(names, ", ")
}

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// Field names as submitted by the browser form and the CLI flags.
const (
	FieldCompany         = "company"
	FieldPosition        = "position"
	FieldLocation        = "location"
	FieldApplicationURL  = "applicationUrl"
	FieldStatus          = "status"
	FieldNotes           = "notes"
	FieldApplicationDate = "applicationDate"
	FieldID              = "id"
)

const dateLayout = "2006-01-02"

var (
	ErrUnknownField = errors.New("unknown form field")
	ErrClosed       = errors.New("form is closed")
)

// ValidationError maps field names to a message for each invalid field.
type ValidationError map[string]string

func (e ValidationError) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// Values is what the form inputs currently hold.
type Values struct {
	Company         string
	Position        string
	Location        string
	ApplicationURL  string
	Status          string
	Notes           string
	ApplicationDate string
}

// Handler performs the create or update for a submitted form.
type Handler func(ctx context.Context, data domain.JobFormData) mo.Result[domain.Job]

type Form struct {
	mu      sync.Mutex
	mode    Mode
	id      *int64
	values  Values
	errs    ValidationError
	open    bool
	today   func() time.Time
	notify  notify.Notifier
	failMsg string
}

// New opens a form. With a job it is an edit form prefilled from it,
// otherwise a create form with status APPLIED and today's date.
func New(initial mo.Option[domain.Job], today func() time.Time, n notify.Notifier) *Form {
	if today == nil {
		today = time.Now
	}
	f := &Form{today: today, notify: n, open: true}
	if j, ok := initial.Get(); ok {
		f.mode = ModeEdit
		f.id = j.ID
		f.values = Values{
			Company:         j.Company,
			Position:        j.Position,
			Location:        j.Location,
			ApplicationURL:  j.ApplicationURL,
			Status:          string(j.Status),
			Notes:           j.Notes,
			ApplicationDate: dateOnly(j.ApplicationDate),
		}
		if f.values.ApplicationDate == "" {
			f.values.ApplicationDate = today().Format(dateLayout)
		}
		f.failMsg = "Failed to update job application"
		return f
	}
	f.mode = ModeCreate
	f.reset()
	f.failMsg = "Failed to create job application"
	return f
}

func dateOnly(d string) string {
	if len(d) >= len(dateLayout) {
		if _, err := time.Parse(dateLayout, d[:len(dateLayout)]); err == nil {
			return d[:len(dateLayout)]
		}
	}
	return d
}

func (f *Form) reset() {
	f.values = Values{
		Status:          string(domain.StatusApplied),
		ApplicationDate: f.today().Format(dateLayout),
	}
	f.errs = nil
}

func (f *Form) Mode() Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

// ID is the identifier of the job being edited.
func (f *Form) ID() mo.Option[int64] {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.id == nil {
		return mo.None[int64]()
	}
	return mo.Some(*f.id)
}

func (f *Form) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

func (f *Form) Values() Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// Errors returns the messages from the last validation, keyed by field.
func (f *Form) Errors() ValidationError {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(ValidationError, len(f.errs))
	for k, v := range f.errs {
		out[k] = v
	}
	return out
}

// Set binds one input. Editing a field clears its error.
func (f *Form) Set(field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch field {
	case FieldCompany:
		f.values.Company = value
	case FieldPosition:
		f.values.Position = value
	case FieldLocation:
		f.values.Location = value
	case FieldApplicationURL:
		f.values.ApplicationURL = value
	case FieldStatus:
		f.values.Status = value
	case FieldNotes:
		f.values.Notes = value
	case FieldApplicationDate:
		f.values.ApplicationDate = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	delete(f.errs, field)
	return nil
}

// Validate checks the inputs and records the field errors.
func (f *Form) Validate() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, err := f.validateLocked()
	return err
}

func (f *Form) validateLocked() (domain.JobFormData, error) {
	errs := ValidationError{}
	v := f.values

	if strings.TrimSpace(v.Company) == "" {
		errs[FieldCompany] = "Company is required"
	}
	if strings.TrimSpace(v.Position) == "" {
		errs[FieldPosition] = "Position is required"
	}
	if strings.TrimSpace(v.Location) == "" {
		errs[FieldLocation] = "Location is required"
	}
	status, err := domain.ParseStatus(v.Status)
	switch {
	case strings.TrimSpace(v.Status) == "":
		errs[FieldStatus] = "Status is required"
	case err != nil:
		errs[FieldStatus] = statusChoicesMsg
	}
	switch {
	case strings.TrimSpace(v.ApplicationDate) == "":
		errs[FieldApplicationDate] = "Application date is required"
	default:
		if _, err := time.Parse(dateLayout, v.ApplicationDate); err != nil {
			errs[FieldApplicationDate] = "Application date must be YYYY-MM-DD"
		}
	}
	if f.mode == ModeEdit && f.id == nil {
		errs[FieldID] = "Job ID is missing"
	}

	if len(errs) > 0 {
		f.errs = errs
		return domain.JobFormData{}, errs
	}
	f.errs = nil

	// applicationDate stays in the form; the API has no field for it.
	return domain.JobFormData{
		ID:             f.id,
		Company:        domain.CleanText(v.Company),
		Position:       domain.CleanText(v.Position),
		Location:       domain.NormalizeLocation(v.Location),
		ApplicationURL: domain.CanonicalURL(v.ApplicationURL),
		Status:         status,
		Notes:          v.Notes,
	}, nil
}

// Submit validates and hands the data to handler. Invalid input never
// reaches the handler. On success the form is reset and closed; on failure
// an error is notified and the values are kept.
func (f *Form) Submit(ctx context.Context, handler Handler) mo.Result[domain.Job] {
	f.mu.Lock()
	if !f.open {
		f.mu.Unlock()
		return mo.Err[domain.Job](ErrClosed)
	}
	data, err := f.validateLocked()
	f.mu.Unlock()
	if err != nil {
		return mo.Err[domain.Job](err)
	}

	res := handler(ctx, data)
	if res.IsError() {
		// rejected input stays on the form without a notification
		if f.notify != nil && jobsync.KindOf(res.Error()) != jobsync.KindValidation {
			f.notify.Error(f.failMsg)
		}
		return res
	}

	f.mu.Lock()
	f.reset()
	f.open = false
	f.mu.Unlock()
	return res
}

// Close discards the form without submitting.
func (f *Form) Close() {
	f.mu.Lock()
	f.open = false
	f.mu.Unlock()
}
