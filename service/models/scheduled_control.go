/*
 * @module service/models/scheduled_control
 * @description One due measurement slot generated from a parameter frequency
 * @architecture Layered architecture - data model layer
 * @stateFlow pending -> completed (recorder) | overdue (sweep) | skipped (manual)
 * @rules Only pending slots transition; a day's slots are replaced wholesale on regeneration
 * @dependencies gorm.io/gorm, github.com/google/uuid
 * @refs service/scheduling/scheduler.go, service/measurement/recorder.go
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScheduledControl is a due-date/time placeholder for a measurement.
type ScheduledControl struct {
	ID               string            `gorm:"type:varchar(36);primaryKey" json:"id"`
	ParameterID      string            `gorm:"type:varchar(36);not null;index:idx_sched_param_date" json:"parameter_id"`
	Parameter        *ControlParameter `gorm:"foreignKey:ParameterID" json:"parameter,omitempty"`
	ScheduledDate    string            `gorm:"type:varchar(10);not null;index:idx_sched_param_date;index" json:"scheduled_date" example:"2025-03-01"`
	ScheduledTime    string            `gorm:"type:varchar(5);not null" json:"scheduled_time" example:"06:00"`
	Shift            Shift             `gorm:"type:varchar(2);not null" json:"shift" example:"A"`
	Status           ScheduleStatus    `gorm:"type:varchar(20);not null;index" json:"status" example:"pending"`
	AssignedOperator *string           `gorm:"type:varchar(100)" json:"assigned_operator,omitempty"`
	CompletedAt      *time.Time        `json:"completed_at,omitempty"`
	MeasurementID    *string           `gorm:"type:varchar(36)" json:"measurement_id,omitempty"`
	Notes            string            `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// TableName overrides the table name.
func (ScheduledControl) TableName() string {
	return "scheduled_controls"
}

// BeforeCreate assigns the primary key.
func (c *ScheduledControl) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// IsOverdueAt reports whether the slot is still pending past its due time.
// The same predicate is expressed in SQL by the overdue sweep.
func (c *ScheduledControl) IsOverdueAt(now time.Time) bool {
	if c.Status != ScheduleStatusPending {
		return false
	}
	today := FormatDate(now)
	if c.ScheduledDate < today {
		return true
	}
	if c.ScheduledDate != today {
		return false
	}
	clock, inclusive := ElapsedClock(now)
	if inclusive {
		return c.ScheduledTime <= clock
	}
	return c.ScheduledTime < clock
}

// ElapsedClock returns now as HH:MM and whether a slot due at exactly that
// minute has already passed, which is the case once seconds have elapsed.
func ElapsedClock(now time.Time) (string, bool) {
	return FormatClock(now), now.Second() != 0 || now.Nanosecond() != 0
}
