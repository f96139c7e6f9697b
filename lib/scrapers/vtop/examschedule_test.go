package vtop

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const examScheduleFixture = `
<table class="customTable">
	<tbody>
		<tr class="tableContent">
			<td colspan="13" class="panelHead-secondary">CAT1</td>
		</tr>
		<tr class="tableContent">
			<td>1</td>
			<td>BCSE301L</td>
			<td>Software Engineering</td>
			<td>Theory</td>
			<td>VL2025260100123</td>
			<td>A1+TA1</td>
			<td>15-Sep-2026</td>
			<td>FN</td>
			<td>09:00 AM</td>
			<td>09:30 AM - 11:00 AM</td>
			<td>SJT</td>
			<td>401</td>
			<td>24</td>
		</tr>
		<tr class="tableContent">
			<td colspan="13" class="panelHead-secondary">FAT</td>
		</tr>
		<tr class="tableContent">
			<td>1</td>
			<td>BCSE301L</td>
			<td>Software Engineering</td>
			<td>Theory</td>
			<td>VL2025260100123</td>
			<td>A1+TA1</td>
			<td>20-Nov-2026</td>
			<td>AN</td>
			<td>01:30 PM</td>
			<td>02:00 PM - 05:00 PM</td>
			<td>MB</td>
			<td>212</td>
			<td>7</td>
		</tr>
	</tbody>
</table>`

func TestParseExamSchedule(t *testing.T) {
	schedule, err := ParseExamSchedule([]byte(examScheduleFixture))
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, schedule, 2)

	cat1 := schedule["CAT1"]
	require.Len(t, cat1, 1)
	require.Equal(t, "BCSE301L", cat1[0].CourseCode)
	require.Equal(t, "15-Sep-2026", cat1[0].Date)
	require.Equal(t, "09:30 AM - 11:00 AM", cat1[0].ExamTime)

	fat := schedule["FAT"]
	require.Len(t, fat, 1)
	require.Equal(t, "MB", fat[0].Venue)
	require.Equal(t, "7", fat[0].SeatNo)
}

func TestParseExamScheduleStructureMissing(t *testing.T) {
	_, err := ParseExamSchedule([]byte(`<table><tbody></tbody></table>`))
	var structure *StructureMissingError
	require.ErrorAs(t, err, &structure)
}
