package vtop

import (
	"bytes"
	"context"
	"vtopassist/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// Proctor fetches the assigned faculty advisor's contact card. The
// portal renders it as label/value rows, so the result stays a map and
// survives the registrar reordering fields.
func (c *Client) Proctor(ctx context.Context) (map[string]string, error) {
	ctx, span := tracer.Start(ctx, "client:Proctor")
	defer span.End()

	res, err := c.postAuthenticated(ctx, "/vtop/proctor/viewProctorDetails", nil)
	if err != nil {
		return nil, err
	}
	return ParseProctor(res.Body())
}

func ParseProctor(markup []byte) (map[string]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(markup))
	if err != nil {
		return nil, err
	}

	rows := doc.Find("table.table tbody tr")
	if rows.Length() == 0 {
		return nil, &StructureMissingError{Resource: "proctor", Selector: "table.table tbody tr"}
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
