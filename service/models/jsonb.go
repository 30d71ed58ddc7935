package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// JSONB is a free-form JSON object column, used for specification constraints.
type JSONB map[string]interface{}

// DefectMap maps a defect category to a percentage. It stores both the
// catalog thresholds of visual parameters and the observed percentages.
type DefectMap map[string]float64

// FormatList stores the applicable tile formats of a parameter. On
// PostgreSQL it is a native text[]; other dialects keep the array literal as text.
type FormatList pq.StringArray

func scanJSONBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, errors.New("type assertion failed: not []byte or string")
	}
}

// GormDataType implements schema.GormDataTypeInterface.
func (JSONB) GormDataType() string {
	return "json"
}

// Scan implements sql.Scanner.
func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, err := scanJSONBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, j)
}

// Value implements driver.Valuer.
func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// GormDataType implements schema.GormDataTypeInterface.
func (DefectMap) GormDataType() string {
	return "json"
}

// Scan implements sql.Scanner.
func (d *DefectMap) Scan(value interface{}) error {
	if value == nil {
		*d = nil
		return nil
	}
	bytes, err := scanJSONBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, d)
}

// Value implements driver.Valuer.
func (d DefectMap) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	return json.Marshal(d)
}

// Categories returns the category names in sorted order.
func (d DefectMap) Categories() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks the shape of a threshold or observation map: non-empty
// category names and finite, non-negative percentages.
func (d DefectMap) Validate() error {
	for _, name := range d.Categories() {
		if strings.TrimSpace(name) == "" {
			return errors.New("defect category name must not be empty")
		}
		v := d[name]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("defect category %q: value must be a finite number", name)
		}
		if v < 0 {
			return fmt.Errorf("defect category %q: percentage must not be negative", name)
		}
	}
	return nil
}

// GormDataType is the generic type gorm uses when parsing the schema.
func (FormatList) GormDataType() string {
	return "text"
}

// GormDBDataType picks the column type per dialect.
func (FormatList) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

// Scan implements sql.Scanner.
func (f *FormatList) Scan(src interface{}) error {
	return (*pq.StringArray)(f).Scan(src)
}

// Value implements driver.Valuer.
func (f FormatList) Value() (driver.Value, error) {
	return pq.StringArray(f).Value()
}

// Contains reports whether format is listed. An empty list applies to every format.
func (f FormatList) Contains(format string) bool {
	if len(f) == 0 {
		return true
	}
	for _, v := range f {
		if v == format {
			return true
		}
	}
	return false
}
