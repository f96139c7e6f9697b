package vtop

import (
	"bytes"
	"context"
	"vtopassist/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// LeaveRequests lists hostel leave and outing applications with their
// warden approval status.
func (c *Client) LeaveRequests(ctx context.Context) ([]LeaveRecord, error) {
	ctx, span := tracer.Start(ctx, "client:LeaveRequests")
	defer span.End()

	res, err := c.postAuthenticated(ctx, "/vtop/hostels/student/leave/1", nil)
	if err != nil {
		return nil, err
	}
	return ParseLeaveRequests(res.Body())
}

func ParseLeaveRequests(markup []byte) ([]LeaveRecord, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(markup))
	if err != nil {
		return nil, err
	}

	table := doc.Find("table.customTable")
	if table.Length() == 0 {
		return nil, &StructureMissingError{Resource: "leave requests", Selector: "table.customTable"}
	}

	var out []LeaveRecord
	table.First().Find("tbody tr.tableContent").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 7 {
			return
		}
		out = append(out, LeaveRecord{
			Place:    htmlutil.CellText(cells, 1),
			Reason:   htmlutil.CellText(cells, 2),
			From:     htmlutil.CellText(cells, 3),
			To:       htmlutil.CellText(cells, 4),
			Status:   htmlutil.CellText(cells, 5),
			Approver: htmlutil.CellText(cells, 6),
		})
	})
	return out, nil
}
