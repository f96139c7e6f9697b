package vtop

import (
	"bytes"
	"context"
	"vtopassist/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// ExamScheduleFor fetches the exam seating table. The portal needs the
// menu page requested first to prime its server-side state, skipping
// it yields an empty search response.
func (c *Client) ExamScheduleFor(ctx context.Context, semesterId string) (ExamSchedule, error) {
	ctx, span := tracer.Start(ctx, "client:ExamSchedule")
	defer span.End()

	_, err := c.postAuthenticated(ctx, "/vtop/examinations/StudExamSchedule", nil)
	if err != nil {
		return nil, err
	}
	res, err := c.postAuthenticated(ctx, "/vtop/examinations/doSearchExamScheduleForStudent", map[string]string{
		"semesterSubId": semesterId,
	})
	if err != nil {
		return nil, err
	}
	return ParseExamSchedule(res.Body())
}

// ParseExamSchedule groups rows under the single-cell header rows the
// portal interleaves for each exam type (FAT, CAT1, CAT2).
func ParseExamSchedule(markup []byte) (ExamSchedule, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(markup))
	if err != nil {
		return nil, err
	}

	rows := doc.Find("tbody tr.tableContent")
	if rows.Length() == 0 {
		return nil, &StructureMissingError{Resource: "exam schedule", Selector: "tbody tr.tableContent"}
	}

	schedule := make(ExamSchedule)
	examType := ""
	rows.Each(func(_ int, tr *goquery.Selection) {
		header := tr.Find("td.panelHead-secondary")
		if header.Length() > 0 {
			examType = htmlutil.Clean(header.Text())
			return
		}
		cells := tr.Find("td")
		if cells.Length() < 13 || examType == "" {
			return
		}
		schedule[examType] = append(schedule[examType], ExamEntry{
			SlNo:          htmlutil.CellText(cells, 0),
			CourseCode:    htmlutil.CellText(cells, 1),
			CourseTitle:   htmlutil.CellText(cells, 2),
			CourseType:    htmlutil.CellText(cells, 3),
			ClassID:       htmlutil.CellText(cells, 4),
			Slot:          htmlutil.CellText(cells, 5),
			Date:          htmlutil.CellText(cells, 6),
			Session:       htmlutil.CellText(cells, 7),
			ReportingTime: htmlutil.CellText(cells, 8),
			ExamTime:      htmlutil.CellText(cells, 9),
			Venue:         htmlutil.CellText(cells, 10),
			SeatLocation:  htmlutil.CellText(cells, 11),
			SeatNo:        htmlutil.CellText(cells, 12),
		})
	})
	return schedule, nil
}
