package vtop

import (
	"bytes"
	"context"
	"vtopassist/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// LoginHistory lists the portal's record of recent sign-ins, useful
// for spotting credential sharing.
func (c *Client) LoginHistory(ctx context.Context) ([]LoginHistoryEntry, error) {
	ctx, span := tracer.Start(ctx, "client:LoginHistory")
	defer span.End()

	res, err := c.postAuthenticated(ctx, "/vtop/show/login/history", nil)
	if err != nil {
		return nil, err
	}
	return ParseLoginHistory(res.Body())
}

func ParseLoginHistory(markup []byte) ([]LoginHistoryEntry, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(markup))
	if err != nil {
		return nil, err
	}

	table := doc.Find("table.customTable")
	if table.Length() == 0 {
		return nil, &StructureMissingError{Resource: "login history", Selector: "table.customTable"}
	}

	var out []LoginHistoryEntry
	table.First().Find("tbody tr.tableContent").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 5 {
			return
		}
		out = append(out, LoginHistoryEntry{
			Date:      htmlutil.CellText(cells, 1),
			Time:      htmlutil.CellText(cells, 2),
			IPAddress: htmlutil.CellText(cells, 3),
			Status:    htmlutil.CellText(cells, 4),
		})
	})
	return out, nil
}
