package vtop

import (
	"bytes"
	"context"
	"vtopassist/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// FacultyDirectory fetches the school-wide faculty listing used for
// fuzzy lookups.
func (c *Client) FacultyDirectory(ctx context.Context) ([]FacultyProfile, error) {
	ctx, span := tracer.Start(ctx, "client:FacultyDirectory")
	defer span.End()

	res, err := c.postAuthenticated(ctx, "/vtop/hrms/viewFacultyInfo", nil)
	if err != nil {
		return nil, err
	}
	return ParseFacultyDirectory(res.Body())
}

func ParseFacultyDirectory(markup []byte) ([]FacultyProfile, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(markup))
	if err != nil {
		return nil, err
	}

	table := doc.Find("table.customTable")
	if table.Length() == 0 {
		return nil, &StructureMissingError{Resource: "faculty directory", Selector: "table.customTable"}
	}

	var out []FacultyProfile
	table.First().Find("tbody tr.tableContent").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 6 {
			return
		}
		out = append(out, FacultyProfile{
			Name:        htmlutil.CellText(cells, 1),
			Designation: htmlutil.CellText(cells, 2),
			School:      htmlutil.CellText(cells, 3),
			Email:       htmlutil.CellText(cells, 4),
			Cabin:       htmlutil.CellText(cells, 5),
		})
	})
	return out, nil
}
