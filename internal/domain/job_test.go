package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, st := range Statuses {
		got, err := ParseStatus(string(st))
		require.NoError(t, err)
		assert.Equal(t, st, got)
	}

	_, err := ParseStatus("applied")
	assert.Error(t, err)
	_, err = ParseStatus("")
	assert.Error(t, err)
}

func TestStatus_LabelAndColor(t *testing.T) {
	assert.Equal(t, "Interviewing", StatusInterviewing.Label())
	assert.Equal(t, "Applied", StatusApplied.Label())
	assert.Equal(t, "success", StatusAccepted.Color())
	assert.Equal(t, "error", StatusRejected.Color())
	assert.Equal(t, "default", Status("OTHER").Color())
}

func TestJob_UnmarshalRejectsUnknownStatus(t *testing.T) {
	var j Job
	err := json.Unmarshal([]byte(`{"company":"Acme","status":"GHOSTED"}`), &j)
	assert.Error(t, err)
}

func TestJobFormData_NeverCarriesAuditFields(t *testing.T) {
	j := Job{
		ID:              Int64Ptr(7),
		Company:         "Acme",
		Position:        "Engineer",
		Location:        "Remote",
		Status:          StatusApplied,
		ApplicationDate: "2026-10-01",
		CreatedAt:       "2026-10-01T10:00:00Z",
		CreatedBy:       "alice",
		ModifiedAt:      "2026-10-02T10:00:00Z",
		ModifiedBy:      "bob",
		LastUpdated:     "2026-10-02T10:00:00Z",
	}

	b, err := json.Marshal(j.FormData())
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	for _, k := range []string{"createdAt", "createdBy", "modifiedAt", "modifiedBy", "lastUpdated", "applicationDate"} {
		assert.NotContains(t, m, k)
	}
	assert.EqualValues(t, 7, m["id"])
	assert.True(t, j.FormData().IsUpdate())
}

func TestJobFormData_CreateOmitsID(t *testing.T) {
	b, err := json.Marshal(JobFormData{Company: "Acme", Status: StatusApplied})
	require.NoError(t, err)
	assert.NotContains(t, string(b), `"id"`)
}
