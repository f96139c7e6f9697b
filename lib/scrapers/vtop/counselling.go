package vtop

import (
	"bytes"
	"context"
	"vtopassist/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// CounsellingRank fetches the student's counselling rank card as
// label/value pairs.
func (c *Client) CounsellingRank(ctx context.Context) (map[string]string, error) {
	ctx, span := tracer.Start(ctx, "client:CounsellingRank")
	defer span.End()

	res, err := c.postAuthenticated(ctx, "/vtop/academics/common/StudentCounsellingRank", nil)
	if err != nil {
		return nil, err
	}
	return ParseCounsellingRank(res.Body())
}

func ParseCounsellingRank(markup []byte) (map[string]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(markup))
	if err != nil {
		return nil, err
	}

	rows := doc.Find("table.table tbody tr")
	if rows.Length() == 0 {
		return nil, &StructureMissingError{Resource: "counselling rank", Selector: "table.table tbody tr"}
	}

	out := make(map[string]string)
	rows.Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 2 {
			return
		}
		label := htmlutil.CellText(cells, 0)
		if label != "" {
			out[label] = htmlutil.CellText(cells, 1)
		}
	})
	return out, nil
}
