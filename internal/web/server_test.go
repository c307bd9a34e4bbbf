package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobtracker/internal/app"
	"jobtracker/internal/config"
	"jobtracker/internal/domain"
	"jobtracker/internal/events"
	"jobtracker/internal/jobsync/jobsynctest"
)

type fixture struct {
	h   http.Handler
	api *jobsynctest.FakeAPI
	hub *events.Hub
}

func newFixture(t *testing.T, seed ...domain.Job) fixture {
	t.Helper()
	cfg := config.Default()
	cfg.Cache.RetryDelayMS = 0

	api := jobsynctest.NewFakeAPI(seed...)
	hub := events.NewHub()
	today := func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC) }
	sess, err := app.NewSession(cfg, app.WithAPI(api), app.WithHub(hub), app.WithClock(today))
	require.NoError(t, err)
	t.Cleanup(func() {
		sess.Close()
		hub.Close()
	})

	srv, err := New(Deps{Session: sess, Hub: hub})
	require.NoError(t, err)
	return fixture{h: srv.Handler(), api: api, hub: hub}
}

func (f fixture) get(t *testing.T, path string) (*httptest.ResponseRecorder, *goquery.Document) {
	t.Helper()
	rr := httptest.NewRecorder()
	f.h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rr.Body.String()))
	require.NoError(t, err)
	return rr, doc
}

func (f fixture) post(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	f.h.ServeHTTP(rr, req)
	return rr
}

func seed() []domain.Job {
	return []domain.Job{
		{Company: "Acme", Position: "Engineer", Location: "Remote", Status: domain.StatusApplied, ApplicationDate: "2026-10-05", ApplicationURL: "https://acme.test/jobs/1"},
		{Company: "Globex", Position: "SRE", Location: "Berlin", Status: domain.StatusInterviewing, ApplicationDate: "2026-09-30"},
	}
}

func TestList_RendersRows(t *testing.T) {
	f := newFixture(t, seed()...)

	rr, doc := f.get(t, "/")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))

	rows := doc.Find("table#jobs tbody tr")
	require.Equal(t, 2, rows.Length())
	first := rows.First()
	assert.Equal(t, "1", first.AttrOr("data-id", ""))
	assert.Equal(t, "Acme", strings.TrimSpace(first.Find("td.company").Text()))
	assert.Equal(t, "https://acme.test/jobs/1", first.Find("td.company a").AttrOr("href", ""))
	assert.Equal(t, "Oct 05, 2026", strings.TrimSpace(first.Find("td.date").Text()))
	assert.True(t, rows.Eq(1).Find("td.status .chip").HasClass("chip-warning"))
	assert.Equal(t, 0, doc.Find("dialog#confirm").Length())
}

func TestList_EmptyAndFilter(t *testing.T) {
	f := newFixture(t, seed()...)

	_, doc := f.get(t, "/?status=ACCEPTED")
	assert.Equal(t, "No jobs found", strings.TrimSpace(doc.Find("#empty h3").Text()))
	assert.Equal(t, "No accepted applications found", strings.TrimSpace(doc.Find("#empty p").Text()))
	assert.Equal(t, 1, doc.Find("#filters a.clear").Length())
	assert.True(t, doc.Find(`#filters a[href="/?status=ACCEPTED"]`).HasClass("selected"))

	_, doc = f.get(t, "/?status=INTERVIEWING")
	rows := doc.Find("table#jobs tbody tr")
	require.Equal(t, 1, rows.Length())
	assert.Equal(t, "Globex", strings.TrimSpace(rows.Find("td.company").Text()))

	// the filter sticks until cleared
	_, doc = f.get(t, "/")
	assert.Equal(t, 1, doc.Find("table#jobs tbody tr").Length())

	_, doc = f.get(t, "/?status=")
	assert.Equal(t, 2, doc.Find("table#jobs tbody tr").Length())
	assert.Equal(t, 0, doc.Find("#filters a.clear").Length())

	rr, _ := f.get(t, "/?status=pending")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestList_NoJobs(t *testing.T) {
	f := newFixture(t)
	_, doc := f.get(t, "/")
	assert.Equal(t, "Start by adding your first job application", strings.TrimSpace(doc.Find("#empty p").Text()))
}

func TestList_LoadError(t *testing.T) {
	f := newFixture(t, seed()...)
	f.api.SetFailReads(2)

	_, doc := f.get(t, "/")
	assert.Equal(t, "Failed to load jobs", strings.TrimSpace(doc.Find("#load-error").Text()))
	assert.Equal(t, "Failed to load jobs", strings.TrimSpace(doc.Find("#notifications .toast-error .message").Text()))
}

func TestNewJob_FormDefaults(t *testing.T) {
	f := newFixture(t)

	_, doc := f.get(t, "/jobs/new")
	assert.Equal(t, "Add New Job Application", strings.TrimSpace(doc.Find("main h2").Text()))
	assert.Equal(t, "APPLIED", doc.Find(`select[name="status"] option[selected]`).AttrOr("value", ""))
	assert.Equal(t, "2026-10-19", doc.Find(`input[name="applicationDate"]`).AttrOr("value", ""))
	assert.Equal(t, 0, doc.Find(`input[name="id"]`).Length())
}

func TestSave_ValidationErrors(t *testing.T) {
	f := newFixture(t)
	f.get(t, "/jobs/new")

	rr := f.post(t, "/jobs/save", url.Values{"company": {""}, "position": {"Dev"}, "location": {""}, "status": {"APPLIED"}, "applicationDate": {"2026-10-19"}})
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	doc, err := goquery.NewDocumentFromReader(rr.Body)
	require.NoError(t, err)
	assert.Equal(t, "Company is required", strings.TrimSpace(doc.Find(`.field-error[data-field="company"]`).Text()))
	assert.Equal(t, "Location is required", strings.TrimSpace(doc.Find(`.field-error[data-field="location"]`).Text()))
	assert.Equal(t, "Dev", doc.Find(`input[name="position"]`).AttrOr("value", ""))
	assert.Equal(t, 0, f.api.Calls("create"))
}

func TestSave_CreateRedirectsAndShowsJob(t *testing.T) {
	f := newFixture(t)
	f.get(t, "/jobs/new")

	rr := f.post(t, "/jobs/save", url.Values{"company": {"Hooli"}, "position": {"PM"}, "location": {"SF"}, "status": {"APPLIED"}, "applicationDate": {"2026-10-19"}})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
	assert.Equal(t, 1, f.api.Calls("create"))

	_, doc := f.get(t, "/")
	assert.Equal(t, "Hooli", strings.TrimSpace(doc.Find("table#jobs td.company").Text()))
	assert.Contains(t, doc.Find("#notifications .toast-success .message").Text(), "Job application created successfully")
}

func TestSave_WithoutOpenFormCreates(t *testing.T) {
	f := newFixture(t)
	rr := f.post(t, "/jobs/save", url.Values{"company": {"Hooli"}, "position": {"PM"}, "location": {"SF"}, "status": {"APPLIED"}, "applicationDate": {"2026-10-19"}})
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, 1, f.api.Calls("create"))
}

func TestEdit_PrefillsAndUpdates(t *testing.T) {
	f := newFixture(t, seed()...)

	_, doc := f.get(t, "/jobs/2/edit")
	assert.Equal(t, "Edit Job Application", strings.TrimSpace(doc.Find("main h2").Text()))
	assert.Equal(t, "2", doc.Find(`input[name="id"]`).AttrOr("value", ""))
	assert.Equal(t, "Globex", doc.Find(`input[name="company"]`).AttrOr("value", ""))
	assert.Equal(t, "INTERVIEWING", doc.Find(`select[name="status"] option[selected]`).AttrOr("value", ""))

	rr := f.post(t, "/jobs/save", url.Values{"id": {"2"}, "company": {"Globex"}, "position": {"SRE"}, "location": {"Berlin"}, "status": {"ACCEPTED"}, "applicationDate": {"2026-09-30"}})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, 1, f.api.Calls("update"))
	assert.Equal(t, domain.StatusAccepted, f.api.Jobs()[1].Status)

	rr, _ = f.get(t, "/jobs/99/edit")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSave_TargetsPostedRecord(t *testing.T) {
	f := newFixture(t, seed()...)
	f.get(t, "/jobs/1/edit")
	f.get(t, "/jobs/2/edit")

	rr := f.post(t, "/jobs/save", url.Values{"id": {"1"}, "company": {"Acme Corp"}, "position": {"Engineer"}, "location": {"Remote"}, "status": {"REJECTED"}, "applicationDate": {"2026-10-05"}})
	require.Equal(t, http.StatusSeeOther, rr.Code)

	jobs := f.api.Jobs()
	assert.Equal(t, "Acme Corp", jobs[0].Company)
	assert.Equal(t, domain.StatusRejected, jobs[0].Status)
	assert.Equal(t, "Globex", jobs[1].Company)
	assert.Equal(t, domain.StatusInterviewing, jobs[1].Status)
}

func TestSave_CreateWhileEditOpen(t *testing.T) {
	f := newFixture(t, seed()...)
	f.get(t, "/jobs/2/edit")

	rr := f.post(t, "/jobs/save", url.Values{"company": {"Hooli"}, "position": {"PM"}, "location": {"SF"}, "status": {"APPLIED"}, "applicationDate": {"2026-10-19"}})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, 1, f.api.Calls("create"))
	assert.Equal(t, 0, f.api.Calls("update"))

	jobs := f.api.Jobs()
	require.Len(t, jobs, 3)
	assert.Equal(t, "Globex", jobs[1].Company)
	assert.Equal(t, "Hooli", jobs[2].Company)
}

func TestSave_TransportFailureKeepsForm(t *testing.T) {
	f := newFixture(t, seed()...)
	f.get(t, "/jobs/1/edit")
	f.api.SetFailMutations(true)

	rr := f.post(t, "/jobs/save", url.Values{"id": {"1"}, "company": {"Acme Corp"}, "position": {"Engineer"}, "location": {"Remote"}, "status": {"APPLIED"}, "applicationDate": {"2026-10-05"}})
	require.Equal(t, http.StatusOK, rr.Code)
	doc, err := goquery.NewDocumentFromReader(rr.Body)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", doc.Find(`input[name="company"]`).AttrOr("value", ""))
	assert.Equal(t, "Failed to update job application", strings.TrimSpace(doc.Find("#notifications .toast-error .message").Text()))
}

func TestDelete_ConfirmFlow(t *testing.T) {
	f := newFixture(t, seed()...)
	f.get(t, "/")

	rr := f.post(t, "/jobs/1/delete", nil)
	require.Equal(t, http.StatusSeeOther, rr.Code)

	_, doc := f.get(t, "/")
	dlg := doc.Find("dialog#confirm")
	require.Equal(t, 1, dlg.Length())
	assert.Equal(t, "Delete Job Application", strings.TrimSpace(dlg.Find("h3").Text()))
	assert.Equal(t, 0, f.api.Calls("delete"))

	f.post(t, "/jobs/delete/cancel", nil)
	_, doc = f.get(t, "/")
	assert.Equal(t, 0, doc.Find("dialog#confirm").Length())
	assert.Equal(t, 2, doc.Find("table#jobs tbody tr").Length())

	f.post(t, "/jobs/1/delete", nil)
	rr = f.post(t, "/jobs/delete/confirm", nil)
	require.Equal(t, http.StatusSeeOther, rr.Code)

	_, doc = f.get(t, "/")
	assert.Equal(t, 0, doc.Find("dialog#confirm").Length())
	require.Equal(t, 1, doc.Find("table#jobs tbody tr").Length())
	assert.Equal(t, "2", doc.Find("table#jobs tbody tr").AttrOr("data-id", ""))
	assert.Contains(t, doc.Find("#notifications .message").Text(), "Job deleted successfully")
}

func TestDelete_FailureKeepsDialog(t *testing.T) {
	f := newFixture(t, seed()...)
	f.get(t, "/")
	f.api.SetFailMutations(true)

	f.post(t, "/jobs/1/delete", nil)
	f.post(t, "/jobs/delete/confirm", nil)

	_, doc := f.get(t, "/")
	assert.Equal(t, 1, doc.Find("dialog#confirm").Length())
	assert.Equal(t, 2, doc.Find("table#jobs tbody tr").Length())
	assert.Equal(t, "Failed to delete job", strings.TrimSpace(doc.Find("#notifications .toast-error .message").Text()))
}

func TestDismissNotification(t *testing.T) {
	f := newFixture(t)
	f.api.SetFailReads(2)
	_, doc := f.get(t, "/")

	id := doc.Find("#notifications .toast").AttrOr("data-id", "")
	require.NotEmpty(t, id)

	rr := f.post(t, "/notifications/"+id+"/dismiss", nil)
	require.Equal(t, http.StatusSeeOther, rr.Code)

	_, doc = f.get(t, "/")
	assert.Equal(t, 0, doc.Find("#notifications .toast").Length())
}

func TestRoutes_MethodsAndHealth(t *testing.T) {
	f := newFixture(t)

	rr := f.post(t, "/", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	rr, _ = f.get(t, "/jobs/1/delete")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	rr, _ = f.get(t, "/health")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr, _ = f.get(t, "/nope")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
