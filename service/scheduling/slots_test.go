package scheduling

import (
	"ceramiqc/service/models"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestSlotsForFixedTables(t *testing.T) {
	want := []Slot{
		{Clock: "06:00", Shift: models.ShiftA},
		{Clock: "10:00", Shift: models.ShiftA},
		{Clock: "14:00", Shift: models.ShiftB},
		{Clock: "18:00", Shift: models.ShiftB},
		{Clock: "22:00", Shift: models.ShiftC},
		{Clock: "02:00", Shift: models.ShiftC},
	}
	if diff := cmp.Diff(want, SlotsFor(6)); diff != "" {
		t.Errorf("SlotsFor(6) mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, []Slot{{Clock: "10:00", Shift: models.ShiftA}}, SlotsFor(1))
	assert.Len(t, SlotsFor(4), 4)
	assert.Len(t, SlotsFor(12), 12)
}

func TestSlotMinutesFallback(t *testing.T) {
	assert.Nil(t, SlotMinutes(0))
	assert.Nil(t, SlotMinutes(-3))
	assert.Equal(t, []int{0, 480, 960}, SlotMinutes(3))
	assert.Equal(t, []int{0, 288, 576, 864, 1152}, SlotMinutes(5))
	assert.Len(t, SlotMinutes(5000), minutesPerDay)
}

func TestSlotMinutesCountMatchesFrequency(t *testing.T) {
	for freq := 1; freq <= 48; freq++ {
		minutes := SlotMinutes(freq)
		assert.Len(t, minutes, freq, "frequency %d", freq)
		seen := map[int]bool{}
		for _, m := range minutes {
			assert.False(t, seen[m], "frequency %d repeats minute %d", freq, m)
			assert.True(t, m >= 0 && m < minutesPerDay)
			seen[m] = true
		}
	}
}

func TestSlotMinutesReturnsCopy(t *testing.T) {
	got := SlotMinutes(4)
	got[0] = 1
	assert.Equal(t, 8*60, SlotMinutes(4)[0])
}
