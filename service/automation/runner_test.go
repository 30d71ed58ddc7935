package automation

import (
	"ceramiqc/service/config"
	"ceramiqc/service/distributed_lock"
	"ceramiqc/service/qcerror"
	"ceramiqc/service/scheduling"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type MockServices struct {
	mock.Mock
}

func (m *MockServices) GenerateDailySchedule(ctx context.Context, date *time.Time) (scheduling.GenerateResult, error) {
	args := m.Called(date)
	return args.Get(0).(scheduling.GenerateResult), args.Error(1)
}

func (m *MockServices) GenerateWeeklySchedule(ctx context.Context) (scheduling.GenerateResult, error) {
	args := m.Called()
	return args.Get(0).(scheduling.GenerateResult), args.Error(1)
}

func (m *MockServices) MarkOverdueControls(ctx context.Context) (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockServices) CleanupSheets(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func newQCRunner(t *testing.T, svc *MockServices, now time.Time, opts ...Option) *Runner {
	t.Helper()
	r := NewRunner(time.UTC, opts...)
	cfg := config.Default().Automation
	require.NoError(t, RegisterAll(r, QCJobs(cfg, Deps{
		Scheduler: svc,
		Sweeper:   svc,
		Sheets:    svc,
		Now:       func() time.Time { return now },
	})))
	return r
}

func TestStatusListsJobsWithNextRun(t *testing.T) {
	r := newQCRunner(t, &MockServices{}, time.Now())
	assert.Equal(t, "stopped", r.Status().Status)

	r.Start()
	defer r.Stop()

	status := r.Status()
	assert.Equal(t, "running", status.Status)
	require.Len(t, status.Jobs, 4)
	ids := make([]string, 0, 4)
	for _, j := range status.Jobs {
		ids = append(ids, j.ID)
		assert.NotNil(t, j.NextRun, j.ID)
		assert.Nil(t, j.LastRun)
	}
	assert.Equal(t, []string{
		JobCleanupOldRecords, JobGenerateDailySchedule, JobGenerateWeeklySchedule, JobMarkOverdueControls,
	}, ids)
	assert.Equal(t, "cron[0 * * * *]", status.Jobs[3].Trigger)
}

func TestTriggerRunsJob(t *testing.T) {
	svc := &MockServices{}
	svc.On("MarkOverdueControls").Return(int64(3), nil).Once()
	svc.On("GenerateDailySchedule", (*time.Time)(nil)).Return(scheduling.GenerateResult{Date: "2025-03-02", ScheduledCount: 28}, nil).Once()
	svc.On("GenerateWeeklySchedule").Return(scheduling.GenerateResult{}, errors.New("db down")).Once()
	r := newQCRunner(t, svc, time.Now())
	ctx := context.Background()

	require.NoError(t, r.Trigger(ctx, JobMarkOverdueControls))
	require.NoError(t, r.Trigger(ctx, JobGenerateDailySchedule))
	assert.EqualError(t, r.Trigger(ctx, JobGenerateWeeklySchedule), "db down")
	assert.True(t, qcerror.IsType(r.Trigger(ctx, "nope"), qcerror.ErrorTypeNotFound))
	svc.AssertExpectations(t)

	for _, j := range r.Status().Jobs {
		switch j.ID {
		case JobMarkOverdueControls:
			assert.Equal(t, 1, j.Runs)
			assert.NotNil(t, j.LastRun)
			assert.Empty(t, j.LastError)
		case JobGenerateWeeklySchedule:
			assert.Equal(t, "db down", j.LastError)
		}
	}
	r.Stop()
}

func TestCleanupUsesRetention(t *testing.T) {
	now := time.Date(2025, 3, 1, 2, 0, 0, 0, time.UTC)
	svc := &MockServices{}
	svc.On("CleanupSheets", time.Date(2024, 3, 1, 2, 0, 0, 0, time.UTC)).Return(int64(2), nil).Once()
	r := newQCRunner(t, svc, now)

	require.NoError(t, r.Trigger(context.Background(), JobCleanupOldRecords))
	svc.AssertExpectations(t)
	r.Stop()
}

func TestLockedJobRunsOnce(t *testing.T) {
	lock := distributed_lock.NewMemoryLock()
	svc := &MockServices{}
	svc.On("MarkOverdueControls").Return(int64(0), nil).Once()
	r := newQCRunner(t, svc, time.Now(), WithLock(lock, time.Minute))
	ctx := context.Background()

	held, err := lock.TryLock(ctx, "job:"+JobMarkOverdueControls, time.Minute)
	require.NoError(t, err)
	require.True(t, held)
	require.NoError(t, r.Trigger(ctx, JobMarkOverdueControls))
	svc.AssertNotCalled(t, "MarkOverdueControls")

	require.NoError(t, lock.Unlock(ctx, "job:"+JobMarkOverdueControls))
	require.NoError(t, r.Trigger(ctx, JobMarkOverdueControls))
	svc.AssertExpectations(t)

	for _, j := range r.Status().Jobs {
		if j.ID == JobMarkOverdueControls {
			assert.Equal(t, 1, j.Skipped)
			assert.Equal(t, 2, j.Runs)
		}
	}
	r.Stop()
}

func TestPanickingJobIsRecovered(t *testing.T) {
	r := NewRunner(time.UTC)
	require.NoError(t, r.Register(Job{ID: "boom", Spec: "@daily", Run: func(context.Context) error {
		panic("kaboom")
	}}))
	err := r.Trigger(context.Background(), "boom")
	assert.ErrorContains(t, err, "kaboom")

	assert.Error(t, r.Register(Job{ID: "boom", Spec: "@daily"}))
	assert.Error(t, r.Register(Job{ID: "bad", Spec: "not a spec"}))
	r.Stop()
}
