package vtop

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"vtopassist/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// Attendance classification cutoffs. The portal debars below 75%, and
// anything within rounding distance of the line is flagged so a single
// missed class can't silently tip a student over.
const (
	attendanceFloor  = 0.7401
	attendanceTarget = 0.75
)

func (c *Client) Attendance(ctx context.Context, semesterId string) ([]AttendanceRow, error) {
	ctx, span := tracer.Start(ctx, "client:Attendance")
	defer span.End()

	res, err := c.postAuthenticated(ctx, "/vtop/processViewStudentAttendance", map[string]string{
		"semesterSubId": semesterId,
	})
	if err != nil {
		return nil, err
	}
	return ParseAttendance(res.Body())
}

func ParseAttendance(markup []byte) ([]AttendanceRow, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(markup))
	if err != nil {
		return nil, err
	}

	table := doc.Find("#AttendanceDetailDataTable")
	if table.Length() == 0 {
		return nil, &StructureMissingError{Resource: "attendance", Selector: "#AttendanceDetailDataTable"}
	}

	var rows []AttendanceRow
	table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 9 {
			return
		}

		courseDetail := htmlutil.CellText(cells, 1)
		attended, errA := strconv.Atoi(htmlutil.CellText(cells, 5))
		total, errT := strconv.Atoi(htmlutil.CellText(cells, 6))
		if errA != nil || errT != nil {
			return
		}

		row := AttendanceRow{
			SlNo:         htmlutil.CellText(cells, 0),
			CourseDetail: courseDetail,
			IsLab:        isLabCourse(courseDetail, htmlutil.CellText(cells, 3)),
			Attended:     attended,
			Total:        total,
			DebarStatus:  htmlutil.CellText(cells, 8),
		}
		classifyAttendance(&row)
		rows = append(rows, row)
	})
	return rows, nil
}

// Lab components meet in two-hour blocks, so one absence burns two of
// the portal's counted classes. The course type column says "Lab" for
// pure labs and the detail line carries "Embedded Lab" for hybrids.
func isLabCourse(courseDetail, courseType string) bool {
	return strings.Contains(strings.ToLower(courseType), "lab") ||
		strings.Contains(strings.ToLower(courseDetail), "lab")
}

func classifyAttendance(row *AttendanceRow) {
	if row.Total == 0 {
		row.Status = StatusSafe
		row.Action = "no classes held yet"
		return
	}
	ratio := float64(row.Attended) / float64(row.Total)
	row.Percentage = math.Round(ratio*10000) / 100

	switch {
	case ratio < attendanceFloor:
		row.Status = StatusDanger
		needed := int(math.Ceil(
			(attendanceTarget*float64(row.Total) - float64(row.Attended)) /
				(1 - attendanceTarget),
		))
		if row.IsLab {
			needed = (needed + 1) / 2
		}
		row.ClassesNeeded = needed
		row.Action = fmt.Sprintf("attend the next %d classes to get back to 75%%", needed)
	case ratio < attendanceTarget:
		row.Status = StatusCaution
		row.Action = "do not miss any more classes"
	default:
		row.Status = StatusSafe
		canSkip := int(math.Floor(
			float64(row.Attended)/attendanceTarget - float64(row.Total),
		))
		if row.IsLab {
			canSkip = canSkip / 2
		}
		row.CanSkip = canSkip
		row.Action = fmt.Sprintf("you may skip up to %d classes", canSkip)
	}
}
