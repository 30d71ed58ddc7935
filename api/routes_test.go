package api

import (
	"ceramiqc/api/controllers"
	qcmiddleware "ceramiqc/api/middleware"
	"ceramiqc/service"
	"ceramiqc/service/config"
	"ceramiqc/service/models"
	"ceramiqc/testutil"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
)

type RoutesTestSuite struct {
	suite.Suite
	testDB    *testutil.TestDB
	container *service.Container
	router    *chi.Mux
}

func (s *RoutesTestSuite) SetupTest() {
	s.testDB = testutil.NewTestDB()
	clock := testutil.NewClock(testutil.At(2025, time.March, 1, 10, 0))
	cfg := config.Default()
	cfg.Automation.Enabled = false

	var err error
	s.container, err = service.NewContainerWithDB(cfg, s.testDB.DB, nil, service.WithClock(clock.Now))
	s.Require().NoError(err)
	s.router = chi.NewRouter()
	InitRoute(s.router, s.container)
}

func (s *RoutesTestSuite) TearDownTest() {
	s.container.Close()
	s.testDB.Close()
}

func TestRoutesTestSuite(t *testing.T) {
	suite.Run(t, new(RoutesTestSuite))
}

type envelope struct {
	Status int             `json:"status"`
	Msg    string          `json:"msg"`
	Data   json.RawMessage `json:"data"`
	Total  int64           `json:"total"`
}

func (s *RoutesTestSuite) call(method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	rec := testutil.DoJSON(s.T(), s.router, method, path, body)
	var env envelope
	testutil.DecodeJSON(s.T(), rec, &env)
	return rec, env
}

func (s *RoutesTestSuite) seed() {
	rec, _ := s.call(http.MethodPost, "/catalog/initialize", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	rec, _ = s.call(http.MethodPost, "/specifications/reset-defaults", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
}

func (s *RoutesTestSuite) parameterID(stage, code string) string {
	_, env := s.call(http.MethodGet, "/catalog/parameters?stage="+stage, nil)
	var params []models.ControlParameter
	s.Require().NoError(json.Unmarshal(env.Data, &params))
	for _, p := range params {
		if p.Code == code {
			return p.ID
		}
	}
	s.FailNow("parameter not found", code)
	return ""
}

func (s *RoutesTestSuite) TestProbes() {
	rec := testutil.DoJSON(s.T(), s.router, http.MethodGet, "/health", nil)
	s.Equal(http.StatusOK, rec.Code)

	rec = testutil.DoJSON(s.T(), s.router, http.MethodGet, "/ready", nil)
	s.Equal(http.StatusOK, rec.Code)
	var health controllers.HealthResponse
	testutil.DecodeJSON(s.T(), rec, &health)
	s.Equal("ready", health.Status)
}

func (s *RoutesTestSuite) TestCatalogInitialize() {
	rec, env := s.call(http.MethodPost, "/catalog/initialize", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(0, env.Status)
	s.JSONEq(`{"stages_created":7,"parameters_created":6}`, string(env.Data))

	_, env = s.call(http.MethodGet, "/catalog/stages", nil)
	var stages []models.ControlStage
	s.Require().NoError(json.Unmarshal(env.Data, &stages))
	s.Len(stages, 7)
}

func (s *RoutesTestSuite) TestRecordOutOfSpecMeasurement() {
	s.seed()
	rec, _ := s.call(http.MethodPost, "/schedule/generate?date=2025-03-01", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	id := s.parameterID("CLAY", "CLAY_HUM_BEFORE")
	req := httptest.NewRequest(http.MethodPost, "/measurements",
		strings.NewReader(`{"parameter_id":"`+id+`","value":5.0}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(qcmiddleware.OperatorHeader, "amine")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var env envelope
	testutil.DecodeJSON(s.T(), w, &env)
	var res struct {
		Success            bool    `json:"success"`
		Status             string  `json:"status"`
		NCNumber           *string `json:"nc_number"`
		ScheduledControlID *string `json:"scheduled_control_id"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &res))
	s.True(res.Success)
	s.Equal("non_compliant", res.Status)
	s.Require().NotNil(res.NCNumber)
	s.Equal("NC-20250301-001", *res.NCNumber)
	s.NotNil(res.ScheduledControlID)

	var stored models.OptimizedMeasurement
	s.Require().NoError(s.testDB.DB.First(&stored).Error)
	s.Equal("amine", stored.OperatorName)

	rec, env = s.call(http.MethodGet, "/measurements?nc_only=true", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(int64(1), env.Total)
}

func (s *RoutesTestSuite) TestRecordErrorsMapToStatus() {
	s.seed()
	rec, env := s.call(http.MethodPost, "/measurements", map[string]interface{}{
		"parameter_id": "missing", "operator_name": "amine", "value": 1,
	})
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal(1, env.Status)

	id := s.parameterID("CLAY", "CLAY_HUM_BEFORE")
	rec, _ = s.call(http.MethodPost, "/measurements", map[string]interface{}{
		"parameter_id": id, "operator_name": "amine", "value": "wet",
	})
	s.Equal(http.StatusBadRequest, rec.Code)

	w := testutil.DoJSON(s.T(), s.router, http.MethodPost, "/measurements/bulk", map[string]interface{}{
		"measurements": []interface{}{},
	})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *RoutesTestSuite) TestBulkReportsEachEntry() {
	s.seed()
	id := s.parameterID("CLAY", "CLAY_HUM_BEFORE")
	rec, env := s.call(http.MethodPost, "/measurements/bulk", map[string]interface{}{
		"measurements": []map[string]interface{}{
			{"parameter_id": id, "operator_name": "amine", "value": 3.2},
			{"parameter_id": "missing", "operator_name": "amine", "value": 3.2},
		},
	})
	s.Equal(http.StatusOK, rec.Code)
	var res struct {
		TotalProcessed int `json:"total_processed"`
		Successful     int `json:"successful"`
		Failed         int `json:"failed"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &res))
	s.Equal(2, res.TotalProcessed)
	s.Equal(1, res.Successful)
	s.Equal(1, res.Failed)
}

func (s *RoutesTestSuite) TestScheduleQueries() {
	s.seed()
	s.call(http.MethodPost, "/schedule/generate", nil)

	rec, env := s.call(http.MethodGet, "/schedule/summary?date=2025-03-02", nil)
	s.Equal(http.StatusOK, rec.Code)
	var summary struct {
		Total   int            `json:"total"`
		ByShift map[string]int `json:"by_shift"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &summary))
	s.Greater(summary.Total, 0)
	s.Len(summary.ByShift, 3)

	rec, _ = s.call(http.MethodGet, "/schedule?date=2025-03-02&shift=Z", nil)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec, _ = s.call(http.MethodGet, "/schedule?date=03/02/2025", nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *RoutesTestSuite) TestSkipAndAssign() {
	s.seed()
	s.call(http.MethodPost, "/schedule/generate?date=2025-03-01", nil)
	slots, err := s.container.Scheduler.GetDailySchedule(context.Background(), "2025-03-01", nil)
	s.Require().NoError(err)
	s.Require().NotEmpty(slots)

	rec, _ := s.call(http.MethodPost, "/controls/"+slots[0].ID+"/skip", map[string]string{"reason": "line stopped"})
	s.Equal(http.StatusOK, rec.Code)
	rec, _ = s.call(http.MethodPost, "/controls/"+slots[0].ID+"/skip", nil)
	s.Equal(http.StatusConflict, rec.Code)
	rec, _ = s.call(http.MethodPost, "/controls/missing/skip", nil)
	s.Equal(http.StatusNotFound, rec.Code)

	rec, env := s.call(http.MethodPost, "/controls/assign", map[string]interface{}{
		"control_ids": []string{slots[0].ID, slots[1].ID}, "operator_name": "amine",
	})
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"assigned":1}`, string(env.Data))
}

func (s *RoutesTestSuite) TestSpecificationLifecycle() {
	rec, env := s.call(http.MethodPost, "/specifications", map[string]interface{}{
		"control_type": "press", "parameter_name": "thickness", "format_type": "25x40",
		"min_value": 6.8, "max_value": 7.4, "unit": "mm",
	})
	s.Require().Equal(http.StatusCreated, rec.Code)
	var spec models.Specification
	s.Require().NoError(json.Unmarshal(env.Data, &spec))
	s.Equal("system", spec.CreatedBy)

	rec, _ = s.call(http.MethodPost, "/specifications", map[string]interface{}{
		"control_type": "press", "parameter_name": "thickness", "format_type": "25x40",
		"min_value": 6.0, "max_value": 7.0, "unit": "mm",
	})
	s.Equal(http.StatusConflict, rec.Code)

	rec, env = s.call(http.MethodGet, "/specifications/resolve?control_type=press&parameter_name=thickness&format_type=25x40", nil)
	s.Equal(http.StatusOK, rec.Code)
	var resolved models.Specification
	s.Require().NoError(json.Unmarshal(env.Data, &resolved))
	s.Equal(spec.ID, resolved.ID)

	rec, _ = s.call(http.MethodPost, "/specifications/"+spec.ID+"/deactivate", nil)
	s.Equal(http.StatusOK, rec.Code)
	_, env = s.call(http.MethodGet, "/specifications/resolve?control_type=press&parameter_name=thickness&format_type=25x40", nil)
	s.Empty(env.Data)

	rec, _ = s.call(http.MethodGet, "/specifications/resolve?control_type=press", nil)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec, _ = s.call(http.MethodDelete, "/specifications/"+spec.ID, nil)
	s.Equal(http.StatusOK, rec.Code)
	rec, _ = s.call(http.MethodGet, "/specifications/"+spec.ID, nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *RoutesTestSuite) TestComplianceEvaluate() {
	s.seed()
	rec, env := s.call(http.MethodPost, "/compliance/evaluate", map[string]interface{}{
		"control_type": "clay",
		"observations": []map[string]interface{}{
			{"parameter_name": "humidity_before_prep", "value": 5.0},
		},
	})
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("non_compliant", env.Msg)

	rec, _ = s.call(http.MethodPost, "/compliance/evaluate", map[string]interface{}{})
	s.Equal(http.StatusBadRequest, rec.Code)

	id := s.parameterID("CLAY", "CLAY_HUM_BEFORE")
	rec, env = s.call(http.MethodPost, "/compliance/parameters/"+id+"/evaluate", map[string]interface{}{"value": 3.3})
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("compliant", env.Msg)

	var count int64
	s.testDB.DB.Model(&models.OptimizedMeasurement{}).Count(&count)
	s.Zero(count)
}

func (s *RoutesTestSuite) TestControlSheets() {
	s.seed()
	s.call(http.MethodPost, "/schedule/generate?date=2025-03-01", nil)

	rec, env := s.call(http.MethodGet, "/control-sheets/daily?shift=A", nil)
	s.Equal(http.StatusOK, rec.Code)
	var sheet struct {
		Date     string `json:"date"`
		FileName string `json:"file_name"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &sheet))
	s.Equal("control_sheet_20250301_A.xlsx", sheet.FileName)

	rec, env = s.call(http.MethodGet, "/control-sheets/weekly", nil)
	s.Equal(http.StatusOK, rec.Code)
	var weekly struct {
		StartDate string            `json:"start_date"`
		Days      []json.RawMessage `json:"days"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &weekly))
	s.Equal("2025-02-24", weekly.StartDate)
	s.Len(weekly.Days, 7)

	rec, _ = s.call(http.MethodGet, "/control-sheets/capability", nil)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec, _ = s.call(http.MethodGet, "/control-sheets/dashboard?date=2025-03-01", nil)
	s.Equal(http.StatusOK, rec.Code)

	rec, env = s.call(http.MethodGet, "/control-sheets/trend", nil)
	s.Equal(http.StatusOK, rec.Code)
	var trend []struct {
		Date string `json:"date"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &trend))
	s.Require().Len(trend, 7)
	s.Equal("2025-03-01", trend[6].Date)

	rec, env = s.call(http.MethodGet, "/control-sheets/defects?from=2025-03-01", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq("[]", string(env.Data))

	rec, env = s.call(http.MethodGet, "/control-sheets/formats", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq("[]", string(env.Data))

	rec, _ = s.call(http.MethodGet, "/control-sheets/formats?to=01/03/2025", nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *RoutesTestSuite) TestAutomationJobs() {
	rec, env := s.call(http.MethodGet, "/automation/jobs", nil)
	s.Equal(http.StatusOK, rec.Code)
	var status struct {
		Status string            `json:"status"`
		Jobs   []json.RawMessage `json:"jobs"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &status))
	s.Equal("stopped", status.Status)
	s.Len(status.Jobs, 4)

	rec, _ = s.call(http.MethodPost, "/automation/jobs/mark_overdue_controls/trigger", nil)
	s.Equal(http.StatusOK, rec.Code)
	rec, _ = s.call(http.MethodPost, "/automation/jobs/nope/trigger", nil)
	s.Equal(http.StatusNotFound, rec.Code)
}
