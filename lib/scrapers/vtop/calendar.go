package vtop

import (
	"bytes"
	"context"
	"vtopassist/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// AcademicCalendar fetches instructional day and holiday markings for
// the semester.
func (c *Client) AcademicCalendar(ctx context.Context, semesterId string) ([]CalendarEvent, error) {
	ctx, span := tracer.Start(ctx, "client:AcademicCalendar")
	defer span.End()

	res, err := c.postAuthenticated(ctx, "/vtop/academics/common/CalendarPreview", map[string]string{
		"semesterSubId": semesterId,
	})
	if err != nil {
		return nil, err
	}
	return ParseAcademicCalendar(res.Body())
}

func ParseAcademicCalendar(markup []byte) ([]CalendarEvent, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(markup))
	if err != nil {
		return nil, err
	}

	table := doc.Find("table.customTable")
	if table.Length() == 0 {
		return nil, &StructureMissingError{Resource: "academic calendar", Selector: "table.customTable"}
	}

	var out []CalendarEvent
	table.First().Find("tbody tr.tableContent").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 3 {
			return
		}
		out = append(out, CalendarEvent{
			Date:        htmlutil.CellText(cells, 0),
			Day:         htmlutil.CellText(cells, 1),
			Description: htmlutil.CellText(cells, 2),
		})
	})
	return out, nil
}
