package vtop

import (
	"bytes"
	"context"
	"strings"
	"vtopassist/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

func (c *Client) GradeHistory(ctx context.Context) (*GradeHistory, error) {
	ctx, span := tracer.Start(ctx, "client:GradeHistory")
	defer span.End()

	res, err := c.postAuthenticated(ctx, "/vtop/examinations/examGradeView/StudentGradeHistory", nil)
	if err != nil {
		return nil, err
	}
	return ParseGradeHistory(res.Body())
}

// ParseGradeHistory reads the transcript table plus the summary row
// the portal appends below it (credits registered, earned, CGPA).
func ParseGradeHistory(markup []byte) (*GradeHistory, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(markup))
	if err != nil {
		return nil, err
	}

	table := doc.Find("table.customTable")
	if table.Length() == 0 {
		return nil, &StructureMissingError{Resource: "grade history", Selector: "table.customTable"}
	}

	history := &GradeHistory{}
	table.First().Find("tbody tr.tableContent").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 6 {
			return
		}
		history.Records = append(history.Records, GradeRecord{
			CourseCode:  htmlutil.CellText(cells, 0),
			CourseTitle: htmlutil.CellText(cells, 1),
			CourseType:  htmlutil.CellText(cells, 2),
			Credits:     htmlutil.CellText(cells, 3),
			Grade:       htmlutil.CellText(cells, 4),
			ExamMonth:   htmlutil.CellText(cells, 5),
		})
	})

	doc.Find("td.panelHead-secondary").Each(func(_ int, td *goquery.Selection) {
		label := strings.ToLower(htmlutil.Clean(td.Text()))
		value := htmlutil.Clean(td.Next().Text())
		switch {
		case strings.Contains(label, "registered"):
			history.CreditsRegistered = value
		case strings.Contains(label, "earned"):
			history.CreditsEarned = value
		case strings.Contains(label, "cgpa"):
			history.CGPA = value
		}
	})
	return history, nil
}
