package models

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

func TestFormatListSchema(t *testing.T) {
	s, err := schema.Parse(&ControlParameter{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	field := s.LookUpField("Formats")
	require.NotNil(t, field)
	assert.Equal(t, schema.DataType("text"), field.DataType)

	for _, model := range []interface{}{&Specification{}, &OptimizedMeasurement{}, &ScheduledControl{}} {
		_, err := schema.Parse(model, &sync.Map{}, schema.NamingStrategy{})
		assert.NoError(t, err)
	}
}

func TestFormatListRoundTrip(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&ControlStage{}, &ControlParameter{}))

	stage := &ControlStage{Code: "PRESS", Name: "Press", SortOrder: 2, IsActive: true}
	require.NoError(t, db.Create(stage).Error)
	param := &ControlParameter{
		StageID: stage.ID, Code: "PRESS_THICK", Name: "Thickness", Unit: "mm",
		FrequencyPerDay: 4, ControlType: ControlTypeNumeric, IsActive: true,
		Formats: FormatList{"20x20", "25x40"},
	}
	require.NoError(t, db.Create(param).Error)

	var got ControlParameter
	require.NoError(t, db.First(&got, "id = ?", param.ID).Error)
	assert.Equal(t, FormatList{"20x20", "25x40"}, got.Formats)
	assert.True(t, got.Formats.Contains("25x40"))
	assert.False(t, got.Formats.Contains("60x60"))
	assert.True(t, FormatList(nil).Contains("60x60"))
}
