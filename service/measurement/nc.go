package measurement

import (
	"ceramiqc/service/models"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

const maxNCAttempts = 5

// NCPrefix returns the NC number prefix of a "YYYY-MM-DD" date.
func NCPrefix(date string) string {
	return "NC-" + strings.ReplaceAll(date, "-", "") + "-"
}

// FormatNCNumber renders the seq-th NC number of date, e.g. NC-20250301-001.
func FormatNCNumber(date string, seq int) string {
	return fmt.Sprintf("%s%03d", NCPrefix(date), seq)
}

// nextNCSequence returns one more than the highest sequence already issued
// on date.
func nextNCSequence(tx *gorm.DB, date string) (int, error) {
	prefix := NCPrefix(date)
	var numbers []string
	err := tx.Model(&models.OptimizedMeasurement{}).
		Where("nc_number LIKE ?", prefix+"%").
		Pluck("nc_number", &numbers).Error
	if err != nil {
		return 0, fmt.Errorf("read nc numbers: %w", err)
	}
	highest := 0
	for _, n := range numbers {
		seq, err := strconv.Atoi(strings.TrimPrefix(n, prefix))
		if err == nil && seq > highest {
			highest = seq
		}
	}
	return highest + 1, nil
}

// insertWithNCNumber numbers m within its measurement date and inserts it.
// A concurrent writer taking the same number trips the unique index; the
// insert is then rolled back to a savepoint and retried with a fresh number.
func insertWithNCNumber(tx *gorm.DB, m *models.OptimizedMeasurement) error {
	for attempt := 1; attempt <= maxNCAttempts; attempt++ {
		seq, err := nextNCSequence(tx, m.MeasurementDate)
		if err != nil {
			return err
		}
		nc := FormatNCNumber(m.MeasurementDate, seq)
		m.NCNumber = &nc

		savepoint := fmt.Sprintf("nc_attempt_%d", attempt)
		if err := tx.SavePoint(savepoint).Error; err != nil {
			return fmt.Errorf("savepoint: %w", err)
		}
		err = tx.Create(m).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		if rbErr := tx.RollbackTo(savepoint).Error; rbErr != nil {
			return fmt.Errorf("rollback to savepoint: %w", rbErr)
		}
	}
	return fmt.Errorf("could not allocate an nc number for %s after %d attempts", m.MeasurementDate, maxNCAttempts)
}
