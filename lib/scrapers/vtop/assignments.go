package vtop

import (
	"bytes"
	"context"
	"fmt"
	"time"
	"vtopassist/lib/htmlutil"
	"vtopassist/lib/timezone"

	"github.com/PuerkitoBio/goquery"
)

const dueDateLayout = "02-Jan-2006"

// Assignments lists every digital assignment across the semester's
// courses. The portal spreads these over one page per course, so this
// is a fan-in of N+1 requests.
func (c *Client) Assignments(ctx context.Context, semesterId string) ([]AssignmentCourse, error) {
	ctx, span := tracer.Start(ctx, "client:Assignments")
	defer span.End()

	res, err := c.postAuthenticated(ctx, "/vtop/examinations/doDigitalAssignment", map[string]string{
		"semesterSubId": semesterId,
	})
	if err != nil {
		return nil, err
	}
	courses, err := ParseAssignmentCourses(res.Body())
	if err != nil {
		return nil, err
	}

	for i := range courses {
		res, err := c.postAuthenticated(ctx, "/vtop/examinations/processDigitalAssignment", map[string]string{
			"classId": courses[i].ClassNbr,
		})
		if err != nil {
			return nil, err
		}
		courses[i].Assignments, err = ParseAssignmentList(res.Body(), timezone.Now())
		if err != nil {
			return nil, err
		}
	}
	return courses, nil
}

func ParseAssignmentCourses(markup []byte) ([]AssignmentCourse, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(markup))
	if err != nil {
		return nil, err
	}

	table := doc.Find("table.customTable").First()
	if table.Length() == 0 {
		return nil, &StructureMissingError{Resource: "assignments", Selector: "table.customTable"}
	}

	var courses []AssignmentCourse
	table.Find("tbody tr.tableContent").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 4 {
			return
		}
		courses = append(courses, AssignmentCourse{
			SlNo:        htmlutil.CellText(cells, 0),
			ClassNbr:    htmlutil.CellText(cells, 1),
			CourseCode:  htmlutil.CellText(cells, 2),
			CourseTitle: htmlutil.CellText(cells, 3),
		})
	})
	return courses, nil
}

// ParseAssignmentList reads the per-course page. Courses with nothing
// assigned render only the header table, that case is an empty list
// rather than an error.
func ParseAssignmentList(markup []byte, now time.Time) ([]Assignment, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(markup))
	if err != nil {
		return nil, err
	}

	tables := doc.Find("table.customTable")
	if tables.Length() < 2 {
		return nil, nil
	}

	var out []Assignment
	tables.Eq(1).Find("tbody tr.tableContent").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 3 {
			return
		}
		item := Assignment{
			SlNo:    htmlutil.CellText(cells, 0),
			Title:   htmlutil.CellText(cells, 1),
			DueDate: htmlutil.SpanText(cells, 2),
		}
		item.DaysLeft, item.Status = dueStatus(item.DueDate, now)
		out = append(out, item)
	})
	return out, nil
}

// dueStatus counts whole calendar days between now and the due date,
// both taken in the campus timezone so a 23:59 deadline doesn't flip a
// day early for UTC clocks.
func dueStatus(dueDate string, now time.Time) (int, string) {
	due, err := time.ParseInLocation(dueDateLayout, dueDate, timezone.Location)
	if err != nil {
		return 0, "unknown due date"
	}

	days := int(midnight(due).Sub(midnight(now.In(timezone.Location))).Hours() / 24)
	switch {
	case days < 0:
		return days, fmt.Sprintf("%d days overdue", -days)
	case days == 0:
		return days, "Due today!"
	default:
		return days, fmt.Sprintf("%d days left", days)
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
