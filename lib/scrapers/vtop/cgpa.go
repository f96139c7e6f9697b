package vtop

import (
	"bytes"
	"context"
	"vtopassist/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// Cgpa fetches the dashboard credit widget: CGPA, credits registered,
// credits earned and whatever other counters the portal decides to
// render that day.
func (c *Client) Cgpa(ctx context.Context) (map[string]string, error) {
	ctx, span := tracer.Start(ctx, "client:Cgpa")
	defer span.End()

	res, err := c.postAuthenticated(ctx, "/vtop/get/dashboard/current/cgpa/credits", nil)
	if err != nil {
		return nil, err
	}
	return ParseCgpa(res.Body())
}

func ParseCgpa(markup []byte) (map[string]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(markup))
	if err != nil {
		return nil, err
	}

	items := doc.Find("li.list-group-item")
	if items.Length() == 0 {
		return nil, &StructureMissingError{Resource: "cgpa", Selector: "li.list-group-item"}
	}

	out := make(map[string]string, items.Length())
	items.Each(func(_ int, item *goquery.Selection) {
		label := htmlutil.Clean(item.Find("span.card-title").Text())
		value := htmlutil.Clean(item.Find("span.fontcolor3 span").First().Text())
		if label != "" {
			out[label] = value
		}
	})
	return out, nil
}
