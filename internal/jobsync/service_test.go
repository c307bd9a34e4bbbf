package jobsync

import (
	"context"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobtracker/internal/domain"
	"jobtracker/internal/jobsync/jobsynctest"
	"jobtracker/internal/querycache"
)

func newService(t *testing.T, seed ...domain.Job) (*Service, *jobsynctest.FakeAPI) {
	t.Helper()
	api := jobsynctest.NewFakeAPI(seed...)
	opts := querycache.DefaultOptions()
	opts.RetryDelay = 0
	return New(api, querycache.New[[]domain.Job](opts)), api
}

func acme() domain.JobFormData {
	return domain.JobFormData{Company: "Acme", Position: "Engineer", Location: "Remote", Status: domain.StatusApplied}
}

func TestKeyFor(t *testing.T) {
	assert.Equal(t, querycache.Key{Resource: "jobs", Filter: "all"}, KeyFor(mo.None[domain.Status]()))
	assert.Equal(t, querycache.Key{Resource: "jobs", Filter: "REJECTED"}, KeyFor(mo.Some(domain.StatusRejected)))
}

func TestList_UsesCache(t *testing.T) {
	svc, api := newService(t, domain.Job{Company: "A", Position: "P", Location: "L", Status: domain.StatusApplied})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		jobs, err := svc.List(ctx, mo.None[domain.Status]())
		require.NoError(t, err)
		assert.Len(t, jobs, 1)
	}
	assert.Equal(t, 1, api.Calls("getAll"))

	_, err := svc.List(ctx, mo.Some(domain.StatusApplied))
	require.NoError(t, err)
	assert.Equal(t, 1, api.Calls("getByStatus"))
}

func TestCreate_InvalidatesAndAppears(t *testing.T) {
	svc, api := newService(t)
	ctx := context.Background()

	jobs, err := svc.List(ctx, mo.None[domain.Status]())
	require.NoError(t, err)
	assert.Empty(t, jobs)

	res := svc.Create(ctx, acme())
	require.True(t, res.IsOk())
	created := res.MustGet()
	require.NotNil(t, created.ID)

	jobs, err = svc.List(ctx, mo.None[domain.Status]())
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, created.JobID(), jobs[0].JobID())
	assert.Equal(t, 2, api.Calls("getAll"))
}

func TestUpdate_RequiresID(t *testing.T) {
	svc, api := newService(t)

	res := svc.Update(context.Background(), acme())
	require.True(t, res.IsError())
	assert.Equal(t, KindValidation, KindOf(res.Error()))
	assert.Equal(t, 0, api.Calls("update"))
}

func TestMutation_ValidationNeverReachesAPI(t *testing.T) {
	svc, api := newService(t)
	bad := acme()
	bad.Company = "  "

	res := svc.Create(context.Background(), bad)
	require.True(t, res.IsError())
	assert.Equal(t, KindValidation, KindOf(res.Error()))
	assert.Contains(t, res.Error().Error(), "company")

	bad = acme()
	bad.Status = "LOST"
	res = svc.Create(context.Background(), bad)
	assert.Equal(t, KindValidation, KindOf(res.Error()))
	assert.Equal(t, 0, api.Calls("create"))
}

func TestMutation_FailureLeavesCacheUntouched(t *testing.T) {
	svc, api := newService(t, domain.Job{Company: "A", Position: "P", Location: "L", Status: domain.StatusApplied})
	ctx := context.Background()

	_, err := svc.List(ctx, mo.None[domain.Status]())
	require.NoError(t, err)

	api.SetFailMutations(true)
	res := svc.Delete(ctx, 1)
	require.True(t, res.IsError())
	assert.Equal(t, KindTransport, KindOf(res.Error()))
	assert.ErrorIs(t, res.Error(), jobsynctest.ErrInjected)

	_, fr := svc.Cache().Lookup(KeyFor(mo.None[domain.Status]()))
	assert.Equal(t, querycache.Fresh, fr)
}

func TestScenario_CreateUpdateFilterDelete(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	all := mo.None[domain.Status]()

	created := svc.Create(ctx, acme())
	require.True(t, created.IsOk())
	job := created.MustGet()

	jobs, err := svc.List(ctx, all)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Acme", jobs[0].Company)
	assert.Equal(t, domain.StatusApplied, jobs[0].Status)

	// warm both filters so the update has something to invalidate
	_, err = svc.List(ctx, mo.Some(domain.StatusApplied))
	require.NoError(t, err)

	form := job.FormData()
	form.Status = domain.StatusInterviewing
	updated := svc.Update(ctx, form)
	require.True(t, updated.IsOk())
	assert.Equal(t, job.JobID(), updated.MustGet().JobID())
	assert.Equal(t, job.CreatedAt, updated.MustGet().CreatedAt)

	interviewing, err := svc.List(ctx, mo.Some(domain.StatusInterviewing))
	require.NoError(t, err)
	require.Len(t, interviewing, 1)
	assert.Equal(t, job.JobID(), interviewing[0].JobID())

	applied, err := svc.List(ctx, mo.Some(domain.StatusApplied))
	require.NoError(t, err)
	assert.Empty(t, applied)

	deleted := svc.Delete(ctx, job.JobID())
	require.True(t, deleted.IsOk())
	for _, f := range []mo.Option[domain.Status]{all, mo.Some(domain.StatusInterviewing)} {
		jobs, err := svc.List(ctx, f)
		require.NoError(t, err)
		assert.Empty(t, jobs)
	}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNone, KindOf(nil))
	assert.Equal(t, KindTransport, KindOf(assert.AnError))
	assert.Equal(t, "validation", KindValidation.String())
}
