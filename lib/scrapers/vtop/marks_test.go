package vtop

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const marksFixture = `
<table class="customTable">
	<tbody>
		<tr class="tableContent">
			<td>1</td>
			<td>VL2025260100123</td>
			<td>BCSE301L</td>
			<td>Software Engineering</td>
			<td>Theory Only</td>
			<td>AARTHI G</td>
			<td>A1+TA1</td>
		</tr>
		<tr class="tableContent">
			<td colspan="7">
				<table class="customTable-level1">
					<tbody>
						<tr class="tableContent-level1">
							<td><output>1</output></td>
							<td><output>CAT-1</output></td>
							<td><output>50</output></td>
							<td><output>15</output></td>
							<td><output>x</output></td>
							<td><output>42.5</output></td>
							<td><output>12.75</output></td>
						</tr>
						<tr class="tableContent-level1">
							<td><output>2</output></td>
							<td><output>Quiz-1</output></td>
							<td><output>10</output></td>
							<td><output>10</output></td>
							<td><output>x</output></td>
							<td><output>9</output></td>
							<td><output>9</output></td>
						</tr>
					</tbody>
				</table>
			</td>
		</tr>
		<tr class="tableContent">
			<td>2</td>
			<td>VL2025260100456</td>
			<td>BMAT202L</td>
			<td>Probability and Statistics</td>
			<td>Theory Only</td>
			<td>KUMAR S</td>
			<td>B1</td>
		</tr>
	</tbody>
</table>`

func TestParseMarks(t *testing.T) {
	courses, err := ParseMarks([]byte(marksFixture))
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, courses, 2)

	first := courses[0]
	require.Equal(t, "BCSE301L", first.CourseCode)
	require.Equal(t, "AARTHI G", first.Faculty)
	require.Len(t, first.Assessments, 2)
	require.Equal(t, "CAT-1", first.Assessments[0].Title)
	require.Equal(t, "42.5", first.Assessments[0].Scored)
	require.Equal(t, "50", first.Assessments[0].Max)
	require.Equal(t, "12.75", first.Assessments[0].Percent)

	// No marks published yet for the second course.
	require.Empty(t, courses[1].Assessments)
}

func TestParseMarksStructureMissing(t *testing.T) {
	_, err := ParseMarks([]byte(`<div></div>`))
	var structure *StructureMissingError
	require.ErrorAs(t, err, &structure)
}
