package scheduling

import (
	"ceramiqc/service/catalog"
	"ceramiqc/service/models"
	"ceramiqc/service/qcerror"
	"ceramiqc/testutil"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type SchedulerTestSuite struct {
	suite.Suite
	testDB    *testutil.TestDB
	factory   *testutil.TestDataFactory
	clock     *testutil.Clock
	scheduler *Scheduler
	ctx       context.Context
}

func (s *SchedulerTestSuite) SetupTest() {
	s.testDB = testutil.NewTestDB()
	s.factory = testutil.NewTestDataFactory(s.testDB.DB)
	// Saturday
	s.clock = testutil.NewClock(testutil.At(2025, time.March, 1, 11, 0))
	s.scheduler = NewScheduler(s.testDB.DB, catalog.NewCatalog(s.testDB.DB), WithClock(s.clock.Now))
	s.ctx = context.Background()
}

func (s *SchedulerTestSuite) TearDownTest() {
	s.testDB.Close()
}

func TestSchedulerTestSuite(t *testing.T) {
	suite.Run(t, new(SchedulerTestSuite))
}

func (s *SchedulerTestSuite) seedCatalog() {
	_, err := catalog.NewCatalog(s.testDB.DB).InitializeDefaults(s.ctx)
	s.Require().NoError(err)
}

func (s *SchedulerTestSuite) TestGenerateDailyDefaultsToTomorrow() {
	s.seedCatalog()

	result, err := s.scheduler.GenerateDailySchedule(s.ctx, nil)
	s.Require().NoError(err)
	s.Equal("2025-03-02", result.Date)
	// 6 + 6 + 4 + 12, weekly parameters are skipped on a Sunday
	s.Equal(28, result.ScheduledCount)

	slots, err := s.scheduler.GetDailySchedule(s.ctx, "2025-03-02", nil)
	s.Require().NoError(err)
	s.Len(slots, 28)
	for i, slot := range slots {
		s.Equal(models.ScheduleStatusPending, slot.Status)
		s.Require().NotNil(slot.Parameter)
		s.Require().NotNil(slot.Parameter.Stage)
		if i > 0 {
			prev := slots[i-1]
			ordered := prev.ScheduledTime < slot.ScheduledTime ||
				(prev.ScheduledTime == slot.ScheduledTime && prev.Parameter.Code <= slot.Parameter.Code)
			s.True(ordered, "slot %d out of order", i)
		}
	}
}

func (s *SchedulerTestSuite) TestGenerateDailyAddsWeeklyOnMonday() {
	s.seedCatalog()
	monday := testutil.At(2025, time.March, 3, 0, 0)

	result, err := s.scheduler.GenerateDailySchedule(s.ctx, &monday)
	s.Require().NoError(err)
	s.Equal(30, result.ScheduledCount)

	var weekly []models.ScheduledControl
	s.Require().NoError(s.testDB.DB.
		Joins("JOIN control_parameters ON control_parameters.id = scheduled_controls.parameter_id").
		Where("control_parameters.weekly = ?", true).Find(&weekly).Error)
	s.Require().Len(weekly, 2)
	for _, slot := range weekly {
		s.Equal("09:00", slot.ScheduledTime)
		s.Equal(models.ShiftA, slot.Shift)
	}
}

func (s *SchedulerTestSuite) TestGenerateDailyIsIdempotent() {
	stage := s.factory.CreateStage()
	s.factory.CreateParameter(stage.ID, func(p *models.ControlParameter) { p.FrequencyPerDay = 4 })
	day := testutil.At(2025, time.March, 5, 0, 0)

	_, err := s.scheduler.GenerateDailySchedule(s.ctx, &day)
	s.Require().NoError(err)
	first, err := s.scheduler.GetDailySchedule(s.ctx, "2025-03-05", nil)
	s.Require().NoError(err)

	// an assignment on the replaced slots does not survive
	_, err = s.scheduler.AssignOperator(s.ctx, []string{first[0].ID}, "amine")
	s.Require().NoError(err)

	_, err = s.scheduler.GenerateDailySchedule(s.ctx, &day)
	s.Require().NoError(err)
	second, err := s.scheduler.GetDailySchedule(s.ctx, "2025-03-05", nil)
	s.Require().NoError(err)

	s.Require().Len(second, 4)
	var times []string
	for i, slot := range second {
		times = append(times, slot.ScheduledTime)
		s.Nil(slot.AssignedOperator)
		s.NotEqual(first[i].ID, slot.ID)
	}
	s.Equal([]string{"08:00", "12:00", "16:00", "20:00"}, times)
}

func (s *SchedulerTestSuite) TestGenerateDailyLeavesOtherDatesAlone() {
	stage := s.factory.CreateStage()
	param := s.factory.CreateParameter(stage.ID, func(p *models.ControlParameter) { p.FrequencyPerDay = 1 })
	kept := s.factory.CreateScheduledControl(param.ID, "2025-03-04", "10:00")

	day := testutil.At(2025, time.March, 5, 0, 0)
	_, err := s.scheduler.GenerateDailySchedule(s.ctx, &day)
	s.Require().NoError(err)

	var count int64
	s.testDB.DB.Model(&models.ScheduledControl{}).Where("id = ?", kept.ID).Count(&count)
	s.EqualValues(1, count)
}

func (s *SchedulerTestSuite) TestGenerateWeeklyTargetsNextMonday() {
	s.seedCatalog()

	result, err := s.scheduler.GenerateWeeklySchedule(s.ctx)
	s.Require().NoError(err)
	s.Equal("2025-03-03", result.Date)
	s.Equal(30, result.ScheduledCount)

	// on a Monday the next Monday is a week away
	s.clock.Set(testutil.At(2025, time.March, 3, 8, 0))
	result, err = s.scheduler.GenerateWeeklySchedule(s.ctx)
	s.Require().NoError(err)
	s.Equal("2025-03-10", result.Date)
}

func (s *SchedulerTestSuite) TestGetDailyScheduleShiftFilter() {
	stage := s.factory.CreateStage()
	s.factory.CreateParameter(stage.ID)
	day := testutil.At(2025, time.March, 5, 0, 0)
	_, err := s.scheduler.GenerateDailySchedule(s.ctx, &day)
	s.Require().NoError(err)

	shift := models.ShiftC
	slots, err := s.scheduler.GetDailySchedule(s.ctx, "2025-03-05", &shift)
	s.Require().NoError(err)
	s.Require().Len(slots, 2)
	s.Equal("02:00", slots[0].ScheduledTime)
	s.Equal("22:00", slots[1].ScheduledTime)
}

func (s *SchedulerTestSuite) TestGetScheduleSummary() {
	stage := s.factory.CreateStage()
	s.factory.CreateParameter(stage.ID)
	day := testutil.At(2025, time.March, 5, 0, 0)
	_, err := s.scheduler.GenerateDailySchedule(s.ctx, &day)
	s.Require().NoError(err)

	slots, err := s.scheduler.GetDailySchedule(s.ctx, "2025-03-05", nil)
	s.Require().NoError(err)
	_, err = s.scheduler.SkipControl(s.ctx, slots[0].ID, "line stopped")
	s.Require().NoError(err)

	summary, err := s.scheduler.GetScheduleSummary(s.ctx, "2025-03-05")
	s.Require().NoError(err)
	s.Equal(6, summary.Total)
	s.Equal(map[string]int{"A": 2, "B": 2, "C": 2}, summary.ByShift)
	s.Equal(map[string]int{"pending": 5, "completed": 0, "overdue": 0, "skipped": 1}, summary.ByStatus)

	empty, err := s.scheduler.GetScheduleSummary(s.ctx, "2030-01-01")
	s.Require().NoError(err)
	s.Zero(empty.Total)
	s.Equal(0, empty.ByShift["A"])
}

func (s *SchedulerTestSuite) TestAssignOperatorOnlyTouchesPending() {
	stage := s.factory.CreateStage()
	param := s.factory.CreateParameter(stage.ID)
	open := s.factory.CreateScheduledControl(param.ID, "2025-03-01", "10:00")
	done := s.factory.CreateScheduledControl(param.ID, "2025-03-01", "14:00", func(c *models.ScheduledControl) {
		c.Status = models.ScheduleStatusCompleted
	})

	n, err := s.scheduler.AssignOperator(s.ctx, []string{open.ID, done.ID, "missing"}, "amine")
	s.Require().NoError(err)
	s.EqualValues(1, n)

	var reloaded models.ScheduledControl
	s.Require().NoError(s.testDB.DB.First(&reloaded, "id = ?", done.ID).Error)
	s.Nil(reloaded.AssignedOperator)

	_, err = s.scheduler.AssignOperator(s.ctx, []string{open.ID}, "")
	s.True(qcerror.IsType(err, qcerror.ErrorTypeValidation))
}

func (s *SchedulerTestSuite) TestSkipControl() {
	stage := s.factory.CreateStage()
	param := s.factory.CreateParameter(stage.ID)
	slot := s.factory.CreateScheduledControl(param.ID, "2025-03-01", "10:00")

	skipped, err := s.scheduler.SkipControl(s.ctx, slot.ID, "press maintenance")
	s.Require().NoError(err)
	s.Equal(models.ScheduleStatusSkipped, skipped.Status)
	s.Equal("press maintenance", skipped.Notes)

	_, err = s.scheduler.SkipControl(s.ctx, slot.ID, "again")
	s.True(qcerror.IsType(err, qcerror.ErrorTypeConflict))

	_, err = s.scheduler.SkipControl(s.ctx, "missing", "")
	s.True(qcerror.IsType(err, qcerror.ErrorTypeNotFound))
}

func (s *SchedulerTestSuite) TestGetPendingControls() {
	stage := s.factory.CreateStage()
	param := s.factory.CreateParameter(stage.ID)
	operator := "amine"
	late := s.factory.CreateScheduledControl(param.ID, "2025-03-01", "18:00", func(c *models.ScheduledControl) {
		c.AssignedOperator = &operator
	})
	early := s.factory.CreateScheduledControl(param.ID, "2025-03-01", "06:00", func(c *models.ScheduledControl) {
		c.AssignedOperator = &operator
	})
	s.factory.CreateScheduledControl(param.ID, "2025-03-01", "10:00")
	s.factory.CreateScheduledControl(param.ID, "2025-03-02", "10:00")
	s.factory.CreateScheduledControl(param.ID, "2025-03-01", "14:00", func(c *models.ScheduledControl) {
		c.Status = models.ScheduleStatusSkipped
	})

	all, err := s.scheduler.GetPendingControls(s.ctx, "", nil)
	s.Require().NoError(err)
	s.Len(all, 3)

	mine, err := s.scheduler.GetPendingControls(s.ctx, operator, nil)
	s.Require().NoError(err)
	s.Require().Len(mine, 2)
	s.Equal(early.ID, mine[0].ID)
	s.Equal(late.ID, mine[1].ID)

	shift := models.ShiftB
	evening, err := s.scheduler.GetPendingControls(s.ctx, operator, &shift)
	s.Require().NoError(err)
	s.Require().Len(evening, 1)
	s.Equal(late.ID, evening[0].ID)
}

func TestGenerateDailyEmptyCatalog(t *testing.T) {
	testDB := testutil.NewTestDB()
	defer testDB.Close()
	s := NewScheduler(testDB.DB, catalog.NewCatalog(testDB.DB))

	day := testutil.At(2025, time.March, 5, 0, 0)
	result, err := s.GenerateDailySchedule(context.Background(), &day)
	require.NoError(t, err)
	assert.Equal(t, GenerateResult{Date: "2025-03-05", ScheduledCount: 0}, result)
}
