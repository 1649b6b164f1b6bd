package table

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ExtractHTML parses an HTML document and extracts the first <table> element
// as a Table.  Header cells (<th>) in the first row become Columns; all other
// rows become data rows.  Returns an error if the document contains no table.
func ExtractHTML(reader io.Reader) (*Table, error) {
	doc, err := html.Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("error parsing html: %w", err)
	}

	tableNode := findFirstElement(doc, "table")
	if tableNode == nil {
		return nil, fmt.Errorf("no table found in document")
	}

	result := &Table{}

	walkNodesPreOrder(tableNode, func(node *html.Node) bool {
		if node.Type != html.ElementNode || node.Data != "tr" {
			return true
		}

		cells, isHeader := rowCells(node)
		if isHeader && len(result.Columns) == 0 && len(result.Rows) == 0 {
			result.Columns = cells
		} else {
			result.Rows = append(result.Rows, cells)
		}

		// Don't descend into the row again - rowCells already consumed it.
		return false
	})

	return result, nil
}

// rowCells returns the text of each cell in a <tr>, and whether the row is
// made up entirely of <th> cells.
func rowCells(row *html.Node) (cells []string, isHeader bool) {
	isHeader = true
	for c := row.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "th":
			cells = append(cells, nodeTextContent(c))
		case "td":
			isHeader = false
			cells = append(cells, nodeTextContent(c))
		}
	}
	if len(cells) == 0 {
		isHeader = false
	}
	return cells, isHeader
}

// findFirstElement searches the tree rooted at node for the first element
// with the given tag name, pre-order.
func findFirstElement(node *html.Node, tag string) *html.Node {
	if node.Type == html.ElementNode && node.Data == tag {
		return node
	}
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirstElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// walkNodesPreOrder calls walker on each node in pre-order.  If walker
// returns false, the node's children are skipped.
func walkNodesPreOrder(node *html.Node, walker func(*html.Node) bool) {
	if !walker(node) {
		return
	}
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		walkNodesPreOrder(c, walker)
	}
}

// nodeTextContent returns the trimmed text content of a node.
func nodeTextContent(node *html.Node) string {
	result := strings.Builder{}

	walkNodesPreOrder(node, func(node *html.Node) bool {
		if node.Type == html.TextNode {
			result.WriteString(node.Data)
		}
		return true
	})

	return strings.TrimSpace(result.String())
}
