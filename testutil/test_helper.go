/*
 * @module testutil/test_helper
 * @description Test helpers: in-memory database, data factory, fixed clock and HTTP helpers
 * @architecture Test infrastructure
 * @stateFlow NewTestDB -> factory creates rows -> test runs -> Close
 * @rules Every test gets its own in-memory database; factories panic on setup failure
 * @dependencies gorm, sqlite, testify
 * @refs service/models
 */

package testutil

import (
	"bytes"
	"ceramiqc/service/database"
	"ceramiqc/service/models"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB wraps an in-memory database with the QC schema.
type TestDB struct {
	DB *gorm.DB
}

// NewTestDB creates an in-memory SQLite database with every QC table migrated.
func NewTestDB() *TestDB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to connect test database: %v", err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		panic(fmt.Sprintf("failed to access test database: %v", err))
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(database.Models()...); err != nil {
		panic(fmt.Sprintf("failed to migrate test database: %v", err))
	}
	return &TestDB{DB: db}
}

// CleanDB empties every QC table.
func (tdb *TestDB) CleanDB() {
	for _, table := range []string{
		"optimized_measurements",
		"scheduled_controls",
		"control_parameters",
		"control_stages",
		"specifications",
		"control_sheets",
	} {
		tdb.DB.Exec(fmt.Sprintf("DELETE FROM %s", table))
	}
}

// Close closes the connection.
func (tdb *TestDB) Close() {
	if db, err := tdb.DB.DB(); err == nil {
		db.Close()
	}
}

// Clock is a settable time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a clock stopped at t.
func NewClock(t time.Time) *Clock {
	return &Clock{now: t}
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// At builds a local time on a given day.
func At(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.Local)
}

// TestDataFactory creates QC rows with sensible defaults.
type TestDataFactory struct {
	DB *gorm.DB
}

// NewTestDataFactory creates a factory.
func NewTestDataFactory(db *gorm.DB) *TestDataFactory {
	return &TestDataFactory{DB: db}
}

// StageOption customizes CreateStage.
type StageOption func(*models.ControlStage)

// CreateStage creates an active stage.
func (f *TestDataFactory) CreateStage(opts ...StageOption) *models.ControlStage {
	stage := &models.ControlStage{
		Code:      "STAGE_" + generateSuffix(),
		Name:      "Test stage",
		SortOrder: 1,
		IsActive:  true,
	}
	for _, opt := range opts {
		opt(stage)
	}
	if err := f.DB.Create(stage).Error; err != nil {
		panic(fmt.Sprintf("failed to create test stage: %v", err))
	}
	return stage
}

// ParameterOption customizes CreateParameter.
type ParameterOption func(*models.ControlParameter)

// CreateParameter creates an active numeric parameter measured 6 times a day.
func (f *TestDataFactory) CreateParameter(stageID string, opts ...ParameterOption) *models.ControlParameter {
	param := &models.ControlParameter{
		StageID:         stageID,
		Code:            "PARAM_" + generateSuffix(),
		Name:            "Test parameter",
		Unit:            "%",
		FrequencyPerDay: 6,
		ControlType:     models.ControlTypeNumeric,
		IsActive:        true,
	}
	for _, opt := range opts {
		opt(param)
	}
	if err := f.DB.Create(param).Error; err != nil {
		panic(fmt.Sprintf("failed to create test parameter: %v", err))
	}
	return param
}

// SpecificationOption customizes CreateSpecification.
type SpecificationOption func(*models.Specification)

// CreateSpecification creates an active specification.
func (f *TestDataFactory) CreateSpecification(controlType, parameterName string, opts ...SpecificationOption) *models.Specification {
	spec := &models.Specification{
		ControlType:   controlType,
		ParameterName: parameterName,
		Unit:          "%",
		IsActive:      true,
		CreatedBy:     "test",
	}
	for _, opt := range opts {
		opt(spec)
	}
	if err := f.DB.Create(spec).Error; err != nil {
		panic(fmt.Sprintf("failed to create test specification: %v", err))
	}
	return spec
}

// ScheduledControlOption customizes CreateScheduledControl.
type ScheduledControlOption func(*models.ScheduledControl)

// CreateScheduledControl creates a pending slot.
func (f *TestDataFactory) CreateScheduledControl(parameterID, date, clock string, opts ...ScheduledControlOption) *models.ScheduledControl {
	shift, err := models.ShiftForClock(clock)
	if err != nil {
		panic(err)
	}
	slot := &models.ScheduledControl{
		ParameterID:   parameterID,
		ScheduledDate: date,
		ScheduledTime: clock,
		Shift:         shift,
		Status:        models.ScheduleStatusPending,
	}
	for _, opt := range opts {
		opt(slot)
	}
	if err := f.DB.Create(slot).Error; err != nil {
		panic(fmt.Sprintf("failed to create test scheduled control: %v", err))
	}
	return slot
}

// MeasurementOption customizes CreateMeasurement.
type MeasurementOption func(*models.OptimizedMeasurement)

// CreateMeasurement inserts a measurement row directly, bypassing the recorder.
func (f *TestDataFactory) CreateMeasurement(parameterID, date, clock string, value models.MeasurementValue, opts ...MeasurementOption) *models.OptimizedMeasurement {
	shift, err := models.ShiftForClock(clock)
	if err != nil {
		panic(err)
	}
	m := &models.OptimizedMeasurement{
		ParameterID:     parameterID,
		OperatorName:    "tester",
		MeasurementDate: date,
		MeasurementTime: clock,
		Shift:           shift,
		SampleSize:      1,
	}
	m.SetValue(value)
	for _, opt := range opts {
		opt(m)
	}
	if err := f.DB.Create(m).Error; err != nil {
		panic(fmt.Sprintf("failed to create test measurement: %v", err))
	}
	return m
}

var suffixSeq int64

func generateSuffix() string {
	return fmt.Sprintf("%d", atomic.AddInt64(&suffixSeq, 1))
}

// DoJSON sends body (if non-nil) as JSON to handler and returns the recorder.
func DoJSON(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// DecodeJSON decodes a recorder body into v.
func DecodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}
