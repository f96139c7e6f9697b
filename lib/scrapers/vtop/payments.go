package vtop

import (
	"bytes"
	"context"
	"vtopassist/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

func (c *Client) PaymentReceipts(ctx context.Context) ([]PaymentReceipt, error) {
	ctx, span := tracer.Start(ctx, "client:PaymentReceipts")
	defer span.End()

	res, err := c.postAuthenticated(ctx, "/vtop/p2p/getReceiptsApplno", nil)
	if err != nil {
		return nil, err
	}
	return ParsePaymentReceipts(res.Body())
}

func ParsePaymentReceipts(markup []byte) ([]PaymentReceipt, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(markup))
	if err != nil {
		return nil, err
	}

	table := doc.Find("table.table")
	if table.Length() == 0 {
		return nil, &StructureMissingError{Resource: "payment receipts", Selector: "table.table"}
	}

	var out []PaymentReceipt
	table.First().Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 4 {
			return
		}
		out = append(out, PaymentReceipt{
			ReceiptNo: htmlutil.CellText(cells, 0),
			Date:      htmlutil.CellText(cells, 1),
			Amount:    htmlutil.CellText(cells, 2),
			Remarks:   htmlutil.CellText(cells, 3),
		})
	})
	return out, nil
}
