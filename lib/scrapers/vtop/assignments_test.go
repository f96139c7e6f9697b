package vtop

import (
	"testing"
	"time"
	"vtopassist/lib/timezone"

	"github.com/stretchr/testify/require"
)

func TestDueStatus(t *testing.T) {
	now := time.Date(2026, time.March, 10, 18, 30, 0, 0, timezone.Location)

	{
		days, status := dueStatus("15-Mar-2026", now)
		require.Equal(t, 5, days)
		require.Equal(t, "5 days left", status)
	}
	{
		// Deadline day itself, even late in the evening.
		days, status := dueStatus("10-Mar-2026", now)
		require.Equal(t, 0, days)
		require.Equal(t, "Due today!", status)
	}
	{
		days, status := dueStatus("07-Mar-2026", now)
		require.Equal(t, -3, days)
		require.Equal(t, "3 days overdue", status)
	}
	{
		_, status := dueStatus("sometime soon", now)
		require.Equal(t, "unknown due date", status)
	}
}

const assignmentCoursesFixture = `
<table class="customTable">
	<tbody>
		<tr class="tableContent">
			<td>1</td>
			<td>VL2025260100123</td>
			<td>BCSE301L</td>
			<td>Software Engineering</td>
		</tr>
		<tr class="tableContent">
			<td>2</td>
			<td>VL2025260100456</td>
			<td>BMAT202L</td>
			<td>Probability and Statistics</td>
		</tr>
	</tbody>
</table>`

const assignmentListFixture = `
<table class="customTable"><tbody><tr><td>course header</td></tr></tbody></table>
<table class="customTable">
	<tbody>
		<tr class="tableContent">
			<td>1</td>
			<td>Module 3 Case Study</td>
			<td><span>15-Mar-2026</span></td>
		</tr>
	</tbody>
</table>`

func TestParseAssignments(t *testing.T) {
	courses, err := ParseAssignmentCourses([]byte(assignmentCoursesFixture))
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, courses, 2)
	require.Equal(t, "VL2025260100123", courses[0].ClassNbr)
	require.Equal(t, "Probability and Statistics", courses[1].CourseTitle)

	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, timezone.Location)
	items, err := ParseAssignmentList([]byte(assignmentListFixture), now)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, items, 1)
	require.Equal(t, "Module 3 Case Study", items[0].Title)
	require.Equal(t, "15-Mar-2026", items[0].DueDate)
	require.Equal(t, "5 days left", items[0].Status)
}

func TestParseAssignmentListWithoutAssignments(t *testing.T) {
	// Courses with nothing assigned render only the header table.
	markup := `<table class="customTable"><tbody><tr><td>course header</td></tr></tbody></table>`
	items, err := ParseAssignmentList([]byte(markup), timezone.Now())
	if err != nil {
		t.Fatal(err)
	}
	require.Empty(t, items)
}
