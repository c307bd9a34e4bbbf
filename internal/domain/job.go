package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Status string

const (
	StatusApplied      Status = "APPLIED"
	StatusInterviewing Status = "INTERVIEWING"
	StatusAccepted     Status = "ACCEPTED"
	StatusRejected     Status = "REJECTED"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusApplied, StatusInterviewing, StatusAccepted, StatusRejected}

// ParseStatus is case-sensitive: the backend only accepts the uppercase names.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", s)
}

func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// Label returns "Interviewing" for INTERVIEWING.
func (s Status) Label() string {
	if s == "" {
		return ""
	}
	lower := strings.ToLower(string(s))
	return strings.ToUpper(lower[:1]) + lower[1:]
}

// Color is the palette token used when rendering a status chip.
func (s Status) Color() string {
	switch s {
	case StatusApplied:
		return "primary"
	case StatusInterviewing:
		return "warning"
	case StatusAccepted:
		return "success"
	case StatusRejected:
		return "error"
	default:
		return "default"
	}
}

func (s *Status) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	st, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// Job is a persisted application record as returned by the backend.
// Audit fields are server-owned.
type Job struct {
	ID              *int64 `json:"id,omitempty"`
	Company         string `json:"company"`
	Position        string `json:"position"`
	Location        string `json:"location"`
	ApplicationURL  string `json:"applicationUrl,omitempty"`
	Status          Status `json:"status"`
	Notes           string `json:"notes,omitempty"`
	ApplicationDate string `json:"applicationDate,omitempty"`

	LastUpdated string `json:"lastUpdated,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	CreatedBy   string `json:"createdBy,omitempty"`
	ModifiedAt  string `json:"modifiedAt,omitempty"`
	ModifiedBy  string `json:"modifiedBy,omitempty"`
}

// JobID returns the identifier or 0 when the job has not been persisted.
func (j Job) JobID() int64 {
	if j.ID == nil {
		return 0
	}
	return *j.ID
}

// FormData drops the audit fields and the application date. The id is kept
// so the result targets an update.
func (j Job) FormData() JobFormData {
	return JobFormData{
		ID:             j.ID,
		Company:        j.Company,
		Position:       j.Position,
		Location:       j.Location,
		ApplicationURL: j.ApplicationURL,
		Status:         j.Status,
		Notes:          j.Notes,
	}
}

// JobFormData is the only shape the client ever sends. It has no audit
// fields, so they cannot leak into a create or update.
type JobFormData struct {
	ID             *int64 `json:"id,omitempty"`
	Company        string `json:"company"`
	Position       string `json:"position"`
	Location       string `json:"location"`
	ApplicationURL string `json:"applicationUrl,omitempty"`
	Status         Status `json:"status"`
	Notes          string `json:"notes,omitempty"`
}

func (f JobFormData) IsUpdate() bool { return f.ID != nil }

func Int64Ptr(v int64) *int64 { return &v }
