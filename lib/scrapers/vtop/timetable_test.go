package vtop

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

func TestExpandLabSlotPair(t *testing.T) {
	// Odd/even lab pairs share one physical block, expanding both must
	// yield a single meeting.
	slots := ExpandSlots("L35+L36")
	expected := []TimetableSlot{{
		Day:   time.Monday,
		Start: "05:40 PM",
		End:   "07:30 PM",
		Slot:  "L35+L36",
	}}
	diff := cmp.Diff(expected, slots, cmpopts.IgnoreUnexported(TimetableSlot{}))
	require.Empty(t, diff)
}

func TestExpandTheorySlots(t *testing.T) {
	{
		// Base theory slots meet twice, the addon once.
		slots := ExpandSlots("A1+TA1")
		require.Len(t, slots, 3)
	}
	{
		slots := ExpandSlots("A1")
		require.Len(t, slots, 2)
		require.Equal(t, time.Monday, slots[0].Day)
		require.Equal(t, "08:00 AM", slots[0].Start)
		require.Equal(t, "08:50 AM", slots[0].End)
	}
	{
		require.Empty(t, ExpandSlots("Z9"))
	}
}

const timetableFixture = `
<table id="StudentCourseDetailDataTable">
	<tbody>
		<tr>
			<td>1</td>
			<td>VL2025260100123</td>
			<td>BCSE301L - Software Engineering</td>
			<td>A1+TA1 - SJT401</td>
			<td>AARTHI G - SCOPE</td>
		</tr>
		<tr>
			<td>2</td>
			<td>VL2025260100456</td>
			<td>BCSE301P - Software Engineering Lab</td>
			<td>L35+L36 - SJT117</td>
			<td>AARTHI G - SCOPE</td>
		</tr>
	</tbody>
</table>`

func TestParseTimetable(t *testing.T) {
	timetable, err := ParseTimetable([]byte(timetableFixture))
	if err != nil {
		t.Fatal(err)
	}

	// A1 meets Monday 8am, TA1 Wednesday, plus the lab block Monday
	// evening.
	monday := timetable[time.Monday]
	require.Len(t, monday, 2)
	require.Equal(t, "BCSE301L", monday[0].CourseCode)
	require.Equal(t, "08:00 AM", monday[0].Start)
	require.Equal(t, "BCSE301P", monday[1].CourseCode)
	require.Equal(t, "05:40 PM", monday[1].Start)
	require.Equal(t, "SJT117", monday[1].Venue)
	require.Equal(t, "AARTHI G", monday[1].Faculty)

	require.NotEmpty(t, timetable[time.Wednesday])
}

func TestParseTimetableStructureMissing(t *testing.T) {
	_, err := ParseTimetable([]byte(`<p>nothing here</p>`))
	var structure *StructureMissingError
	require.ErrorAs(t, err, &structure)
}
