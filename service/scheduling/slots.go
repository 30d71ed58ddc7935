package scheduling

import "ceramiqc/service/models"

// WeeklySlotMinute is the Monday 09:00 slot used for weekly parameters.
const WeeklySlotMinute = 9 * 60

const minutesPerDay = 24 * 60

// fixedSlots holds the plant's hand-tuned slot tables, in minutes of the day.
var fixedSlots = map[int][]int{
	1:  {10 * 60},
	4:  {8 * 60, 12 * 60, 16 * 60, 20 * 60},
	6:  {6 * 60, 10 * 60, 14 * 60, 18 * 60, 22 * 60, 2 * 60},
	12: {6 * 60, 8 * 60, 10 * 60, 12 * 60, 14 * 60, 16 * 60, 18 * 60, 20 * 60, 22 * 60, 0, 2 * 60, 4 * 60},
}

// Slot is one generated time of day.
type Slot struct {
	Clock string       `json:"time"`
	Shift models.Shift `json:"shift"`
}

// SlotMinutes returns the minutes of day at which a parameter measured
// frequency times a day is due. Frequencies outside the fixed table are
// spread evenly from midnight at minute resolution; frequencies above one
// per minute are capped.
func SlotMinutes(frequency int) []int {
	if frequency <= 0 {
		return nil
	}
	if fixed, ok := fixedSlots[frequency]; ok {
		out := make([]int, len(fixed))
		copy(out, fixed)
		return out
	}
	if frequency > minutesPerDay {
		frequency = minutesPerDay
	}
	out := make([]int, frequency)
	for i := range out {
		out[i] = i * minutesPerDay / frequency
	}
	return out
}

// SlotsFor builds the slots of one day for a frequency.
func SlotsFor(frequency int) []Slot {
	minutes := SlotMinutes(frequency)
	slots := make([]Slot, len(minutes))
	for i, m := range minutes {
		slots[i] = Slot{Clock: models.ClockFromMinute(m), Shift: models.ShiftForMinute(m)}
	}
	return slots
}
