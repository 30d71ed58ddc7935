package specification

import (
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

type StoreTestSuite struct {
	suite.Suite
	testDB  *testutil.TestDB
	factory *testutil.TestDataFactory
	store   *Store
	ctx     context.Context
}

func (s *StoreTestSuite) SetupTest() {
	s.testDB = testutil.NewTestDB()
	s.factory = testutil.NewTestDataFactory(s.testDB.DB)
	s.store = NewStore(s.testDB.DB)
	s.ctx = context.Background()
}

func (s *StoreTestSuite) TearDownTest() {
	s.testDB.Close()
}

func withFormat(format string) testutil.SpecificationOption {
	return func(sp *models.Specification) { sp.FormatType = &format }
}

func withEnamel(enamel string) testutil.SpecificationOption {
	return func(sp *models.Specification) { sp.EnamelType = &enamel }
}

func withBounds(min, max float64) testutil.SpecificationOption {
	return func(sp *models.Specification) { sp.MinValue, sp.MaxValue = &min, &max }
}

func scope(ct, param, format, enamel string) models.SpecScope {
	return models.SpecScope{ControlType: ct, ParameterName: param, FormatType: models.StrPtr(format), EnamelType: models.StrPtr(enamel)}
}

func (s *StoreTestSuite) TestResolveNoMatchIsNil() {
	spec, err := s.store.Resolve(s.ctx, scope("clay", "unknown", "", ""))
	s.Require().NoError(err)
	s.Nil(spec)
}

func (s *StoreTestSuite) TestResolvePrefersFormatSpecificRow() {
	s.factory.CreateSpecification("press", "thickness", withBounds(6, 8))
	scoped := s.factory.CreateSpecification("press", "thickness", withBounds(6.8, 7.4), withFormat("25x40"))

	got, err := s.store.Resolve(s.ctx, scope("press", "thickness", "25x40", ""))
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(scoped.ID, got.ID)

	// other formats fall back to the wildcard row
	got, err = s.store.Resolve(s.ctx, scope("press", "thickness", "20x20", ""))
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Nil(got.FormatType)
}

func (s *StoreTestSuite) TestResolveScopedRowNeverMatchesMissingQueryDimension() {
	s.factory.CreateSpecification("press", "thickness", withBounds(6.8, 7.4), withFormat("25x40"))

	got, err := s.store.Resolve(s.ctx, scope("press", "thickness", "", ""))
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *StoreTestSuite) TestResolveMostSpecificAcrossTwoDimensions() {
	s.factory.CreateSpecification("enamel", "enamel_grammage", withBounds(0, 100))
	s.factory.CreateSpecification("enamel", "enamel_grammage", withBounds(10, 30), withFormat("20x20"))
	both := s.factory.CreateSpecification("enamel", "enamel_grammage", withBounds(20, 23), withFormat("20x20"), withEnamel("mate"))

	got, err := s.store.Resolve(s.ctx, scope("enamel", "enamel_grammage", "20x20", "mate"))
	s.Require().NoError(err)
	s.Equal(both.ID, got.ID)

	got, err = s.store.Resolve(s.ctx, scope("enamel", "enamel_grammage", "20x20", "engobe"))
	s.Require().NoError(err)
	s.Equal("20x20", *got.FormatType)
	s.Nil(got.EnamelType)
}

func (s *StoreTestSuite) TestResolveTieGoesToNewest() {
	older := s.factory.CreateSpecification("enamel", "density", withBounds(1, 2), withFormat("20x20"))
	newer := s.factory.CreateSpecification("enamel", "density", withBounds(3, 4), withEnamel("mate"))
	s.testDB.DB.Model(older).Update("created_at", time.Now().Add(-time.Hour))

	got, err := s.store.Resolve(s.ctx, scope("enamel", "density", "20x20", "mate"))
	s.Require().NoError(err)
	s.Equal(newer.ID, got.ID)
}

func (s *StoreTestSuite) TestInactiveRowsAreIgnored() {
	spec := s.factory.CreateSpecification("clay", "humidity_before_prep", withBounds(2.5, 4.1))
	s.Require().NoError(s.store.Deactivate(s.ctx, spec.ID))

	got, err := s.store.Resolve(s.ctx, scope("clay", "humidity_before_prep", "", ""))
	s.Require().NoError(err)
	s.Nil(got)

	s.Require().NoError(s.store.Activate(s.ctx, spec.ID))
	got, err = s.store.Resolve(s.ctx, scope("clay", "humidity_before_prep", "", ""))
	s.Require().NoError(err)
	s.NotNil(got)
}

func (s *StoreTestSuite) TestCreateRejectsActiveDuplicate() {
	_, err := s.store.Create(s.ctx, &models.Specification{
		ControlType: "press", ParameterName: "thickness", FormatType: models.StrPtr("25x40"), IsActive: true,
	})
	s.Require().NoError(err)

	_, err = s.store.Create(s.ctx, &models.Specification{
		ControlType: "press", ParameterName: "thickness", FormatType: models.StrPtr("25x40"), IsActive: true,
	})
	s.True(qcerror.IsType(err, qcerror.ErrorTypeConflict))

	// inactive duplicates are allowed but cannot be activated
	dup, err := s.store.Create(s.ctx, &models.Specification{
		ControlType: "press", ParameterName: "thickness", FormatType: models.StrPtr("25x40"), IsActive: false,
	})
	s.Require().NoError(err)
	err = s.store.Activate(s.ctx, dup.ID)
	s.True(qcerror.IsType(err, qcerror.ErrorTypeConflict))
}

func (s *StoreTestSuite) TestCreateValidatesBounds() {
	min, max := 5.0, 1.0
	_, err := s.store.Create(s.ctx, &models.Specification{
		ControlType: "clay", ParameterName: "x", MinValue: &min, MaxValue: &max, IsActive: true,
	})
	s.True(qcerror.IsType(err, qcerror.ErrorTypeValidation))
}

func (s *StoreTestSuite) TestUpdateRefreshesResolution() {
	spec := s.factory.CreateSpecification("clay", "humidity_after_prep", withBounds(5.3, 6.3))
	_, err := s.store.Resolve(s.ctx, scope("clay", "humidity_after_prep", "", ""))
	s.Require().NoError(err)

	updated, err := s.store.Update(s.ctx, spec.ID, UpdateInput{
		MinValue: models.Float64Ptr(5.0), Unit: "%", Description: "widened",
	})
	s.Require().NoError(err)
	s.Nil(updated.MaxValue)

	got, err := s.store.Resolve(s.ctx, scope("clay", "humidity_after_prep", "", ""))
	s.Require().NoError(err)
	s.Equal(5.0, *got.MinValue)
	s.Nil(got.MaxValue)
	s.Equal("widened", got.Description)
}

func (s *StoreTestSuite) TestUpdateUnknownIsNotFound() {
	_, err := s.store.Update(s.ctx, "missing", UpdateInput{})
	s.True(qcerror.IsType(err, qcerror.ErrorTypeNotFound))
}

func (s *StoreTestSuite) TestDelete() {
	spec := s.factory.CreateSpecification("clay", "calcium_carbonate")
	s.Require().NoError(s.store.Delete(s.ctx, spec.ID))
	s.True(qcerror.IsType(s.store.Delete(s.ctx, spec.ID), qcerror.ErrorTypeNotFound))
}

func (s *StoreTestSuite) TestListAndControlTypes() {
	s.factory.CreateSpecification("clay", "a")
	s.factory.CreateSpecification("clay", "b")
	s.factory.CreateSpecification("press", "c", func(sp *models.Specification) { sp.IsActive = false })

	specs, total, err := s.store.List(s.ctx, ListFilter{ControlType: "clay"}, 1, 1)
	s.Require().NoError(err)
	s.EqualValues(2, total)
	s.Len(specs, 1)
	s.Equal("a", specs[0].ParameterName)

	_, total, err = s.store.List(s.ctx, ListFilter{ActiveOnly: true}, 1, 10)
	s.Require().NoError(err)
	s.EqualValues(2, total)

	types, err := s.store.ControlTypes(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"clay", "press"}, types)
}

func (s *StoreTestSuite) TestResetDefaultsIsIdempotent() {
	created, err := s.store.ResetDefaults(s.ctx, "clay")
	s.Require().NoError(err)
	s.Equal(5, created)

	created, err = s.store.ResetDefaults(s.ctx, "clay")
	s.Require().NoError(err)
	s.Equal(0, created)

	created, err = s.store.ResetDefaults(s.ctx, "unknown_type")
	s.Require().NoError(err)
	s.Equal(0, created)

	got, err := s.store.Resolve(s.ctx, scope("clay", "humidity_before_prep", "", ""))
	s.Require().NoError(err)
	s.Equal(2.5, *got.MinValue)
	s.Equal(4.1, *got.MaxValue)
	s.Equal(3.3, *got.TargetValue)
}

func (s *StoreTestSuite) TestResetDefaultsSkipsDeactivatedRows() {
	_, err := s.store.ResetDefaults(s.ctx, "enamel")
	s.Require().NoError(err)

	var viscosity models.Specification
	s.Require().NoError(s.testDB.DB.Where("control_type = ? AND parameter_name = ?", "enamel", "viscosity").First(&viscosity).Error)
	s.Require().NoError(s.store.Deactivate(s.ctx, viscosity.ID))

	created, err := s.store.ResetDefaults(s.ctx, "")
	s.Require().NoError(err)
	s.Equal(len(DefaultSpecifications(""))-len(DefaultSpecifications("enamel")), created)

	got, err := s.store.Resolve(s.ctx, scope("enamel", "viscosity", "", ""))
	s.Require().NoError(err)
	s.Nil(got)
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func TestDefaultSpecificationsShape(t *testing.T) {
	all := DefaultSpecifications("")
	seen := make(map[string]bool)
	for _, spec := range all {
		require.NoError(t, spec.Validate(), spec.Scope().String())
		key := spec.Scope().String()
		assert.False(t, seen[key], "duplicate default scope %s", key)
		seen[key] = true
	}
	assert.Len(t, DefaultSpecifications("enamel"), 16)
	assert.Len(t, DefaultSpecifications("press"), 11)
	assert.Empty(t, DefaultSpecifications("nope"))
}
