package vtop

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"vtopassist/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

func (c *Client) Timetable(ctx context.Context, semesterId string) (Timetable, error) {
	ctx, span := tracer.Start(ctx, "client:Timetable")
	defer span.End()

	res, err := c.postAuthenticated(ctx, "/vtop/processViewTimeTable", map[string]string{
		"semesterSubId": semesterId,
	})
	if err != nil {
		return nil, err
	}
	return ParseTimetable(res.Body())
}

// ParseTimetable expands each registered course's slot field into
// weekly meetings and buckets them per weekday, sorted by start time.
func ParseTimetable(markup []byte) (Timetable, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(markup))
	if err != nil {
		return nil, err
	}

	table := doc.Find("#StudentCourseDetailDataTable")
	if table.Length() == 0 {
		return nil, &StructureMissingError{Resource: "timetable", Selector: "#StudentCourseDetailDataTable"}
	}

	timetable := make(Timetable)
	table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 5 {
			return
		}

		code, title := splitDashed(htmlutil.CellText(cells, 2))
		slotField, venue := splitDashed(htmlutil.CellText(cells, 3))
		faculty, _ := splitDashed(htmlutil.CellText(cells, 4))

		for _, slot := range ExpandSlots(slotField) {
			slot.CourseCode = code
			slot.CourseTitle = title
			slot.Venue = venue
			slot.Faculty = faculty
			timetable[slot.Day] = append(timetable[slot.Day], slot)
		}
	})

	for day := range timetable {
		entries := timetable[day]
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].startMinute < entries[j].startMinute
		})
	}
	return timetable, nil
}

// splitDashed splits the portal's "CODE - Long Name" cell convention
// on the first dash only, long names keep their own dashes.
func splitDashed(text string) (string, string) {
	left, right, found := strings.Cut(text, " - ")
	if !found {
		return strings.TrimSpace(text), ""
	}
	return strings.TrimSpace(left), strings.TrimSpace(right)
}
