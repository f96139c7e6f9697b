package vtop

import (
	"bytes"
	"context"
	"vtopassist/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

func (c *Client) Marks(ctx context.Context, semesterId string) ([]CourseMark, error) {
	ctx, span := tracer.Start(ctx, "client:Marks")
	defer span.End()

	res, err := c.postAuthenticated(ctx, "/vtop/examinations/doStudentMarkView", map[string]string{
		"semesterSubId": semesterId,
	})
	if err != nil {
		return nil, err
	}
	return ParseMarks(res.Body())
}

// ParseMarks walks the portal's nested marks table: one tableContent
// row per course, optionally followed by a customTable-level1 holding
// that course's assessments as rows of <output> elements.
func ParseMarks(markup []byte) ([]CourseMark, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(markup))
	if err != nil {
		return nil, err
	}

	table := doc.Find("table.customTable")
	if table.Length() == 0 {
		return nil, &StructureMissingError{Resource: "marks", Selector: "table.customTable"}
	}

	var courses []CourseMark
	table.First().Find("tbody > tr.tableContent").Each(func(_ int, tr *goquery.Selection) {
		if tr.Find("table.customTable-level1").Length() > 0 {
			// Assessment carrier row, belongs to the course above it.
			if len(courses) == 0 {
				return
			}
			last := &courses[len(courses)-1]
			tr.Find("tr.tableContent-level1").Each(func(_ int, sub *goquery.Selection) {
				outputs := sub.Find("output")
				if outputs.Length() < 7 {
					return
				}
				last.Assessments = append(last.Assessments, Assessment{
					Title:     htmlutil.Clean(outputs.Eq(1).Text()),
					Max:       htmlutil.Clean(outputs.Eq(2).Text()),
					Weightage: htmlutil.Clean(outputs.Eq(3).Text()),
					Scored:    htmlutil.Clean(outputs.Eq(5).Text()),
					Percent:   htmlutil.Clean(outputs.Eq(6).Text()),
				})
			})
			return
		}

		cells := tr.Find("td")
		if cells.Length() < 7 {
			return
		}
		courses = append(courses, CourseMark{
			SlNo:        htmlutil.CellText(cells, 0),
			CourseCode:  htmlutil.CellText(cells, 2),
			CourseTitle: htmlutil.CellText(cells, 3),
			Faculty:     htmlutil.CellText(cells, 5),
			Slot:        htmlutil.CellText(cells, 6),
		})
	})
	return courses, nil
}
