package vtop

import (
	"fmt"
	"strings"
	"time"
)

// A meeting is one weekly occurrence of a slot code.
type meeting struct {
	day      time.Weekday
	startMin int
	endMin   int
}

const theoryMinutes = 50

var morningHours = []int{8 * 60, 9 * 60, 10 * 60, 11 * 60, 12 * 60}
var afternoonHours = []int{14 * 60, 15 * 60, 16 * 60, 17 * 60, 18 * 60}

// Theory slots meet twice a week on a rotating (day, hour) pattern,
// addon "T" slots meet once. The pattern below mirrors the registrar's
// published grid, hour indices refer to morningHours/afternoonHours.
var theoryPattern = map[string][][2]int{
	"A": {{0, 0}, {2, 1}},
	"B": {{1, 0}, {3, 1}},
	"C": {{2, 0}, {4, 1}},
	"D": {{3, 0}, {0, 1}},
	"E": {{4, 0}, {1, 1}},
	"F": {{0, 2}, {2, 3}},
	"G": {{1, 2}, {3, 3}},

	"TA": {{2, 2}},
	"TB": {{3, 2}},
	"TC": {{4, 2}},
	"TD": {{0, 3}},
	"TE": {{1, 3}},
	"TF": {{2, 4}},
	"TG": {{3, 4}},
}

// Lab blocks per half-day. Odd/even lab slot pairs (L35+L36) occupy
// the same block, expansion collapses them to one meeting.
var morningLabBlocks = [][2]int{
	{8 * 60, 9*60 + 40},
	{9*60 + 51, 11*60 + 30},
	{11*60 + 40, 13*60 + 20},
}
var afternoonLabBlocks = [][2]int{
	{14 * 60, 15*60 + 40},
	{15*60 + 51, 17*60 + 30},
	{17*60 + 40, 19*60 + 30},
}

var slotTable = buildSlotTable()

func buildSlotTable() map[string][]meeting {
	table := make(map[string][]meeting)

	for prefix, occurrences := range theoryPattern {
		for track, hours := range map[string][]int{"1": morningHours, "2": afternoonHours} {
			code := prefix + track
			for _, o := range occurrences {
				start := hours[o[1]]
				table[code] = append(table[code], meeting{
					day:      time.Weekday(o[0] + 1),
					startMin: start,
					endMin:   start + theoryMinutes,
				})
			}
		}
	}

	for n := 1; n <= 60; n++ {
		blocks := morningLabBlocks
		m := n - 1
		if n > 30 {
			blocks = afternoonLabBlocks
			m = n - 31
		}
		block := blocks[(m%6)/2]
		table[fmt.Sprintf("L%d", n)] = []meeting{{
			day:      time.Weekday(m/6 + 1),
			startMin: block[0],
			endMin:   block[1],
		}}
	}

	return table
}

func clockString(minutes int) string {
	suffix := "AM"
	hour := minutes / 60
	if hour >= 12 {
		suffix = "PM"
	}
	display := hour % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%02d:%02d %s", display, minutes%60, suffix)
}

// ExpandSlots resolves a registration slot field ("L35+L36",
// "A1+TA1") into concrete weekly meetings. Components that map to the
// same block are collapsed, unknown codes are skipped.
func ExpandSlots(slotField string) []TimetableSlot {
	type key struct {
		day        time.Weekday
		start, end int
	}
	seen := make(map[key]bool)

	var out []TimetableSlot
	for _, code := range strings.Split(slotField, "+") {
		code = strings.TrimSpace(code)
		for _, m := range slotTable[code] {
			k := key{m.day, m.startMin, m.endMin}
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, TimetableSlot{
				Day:         m.day,
				Start:       clockString(m.startMin),
				End:         clockString(m.endMin),
				Slot:        slotField,
				startMinute: m.startMin,
			})
		}
	}
	return out
}
