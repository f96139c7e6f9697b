package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// Clean collapses inner whitespace and strips non-printable runes, the
// portal pads most cells with tabs and newlines.
func Clean(s string) string {
	s = removeNonPrintable(s)
	s = strings.Trim(s, " \t\n")
	return innerWhitespace.ReplaceAllString(s, " ")
}

// CellText extracts cleaned text from the nth <td> of a row selection.
func CellText(cells *goquery.Selection, n int) string {
	return Clean(cells.Eq(n).Text())
}

// SpanText prefers the text of a nested <span> over the cell's own text.
// several portal views render the interesting value inside a styled span
// and the raw cell text contains leftover markup noise.
func SpanText(cells *goquery.Selection, n int) string {
	cell := cells.Eq(n)
	span := Clean(cell.Find("span").Text())
	if span != "" {
		return span
	}
	return Clean(cell.Text())
}
