package segment

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLToText renders an HTML fragment as plain text. Images are skipped
// entirely, link text is kept but the href is dropped, and table cells are
// joined with spaces so a row becomes one line.
func HTMLToText(fragment string) string {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), bodyContext())
	if err != nil {
		// fall back to the raw text with tags stripped crudely
		return strings.TrimSpace(fragment)
	}

	var b strings.Builder
	for _, n := range nodes {
		renderText(&b, n)
	}
	return tidy(b.String())
}

func bodyContext() *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
}

var skippedTags = map[atom.Atom]bool{
	atom.Img:      true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Head:     true,
	atom.Iframe:   true,
	atom.Svg:      true,
	atom.Noscript: true,
}

var blockTags = map[atom.Atom]bool{
	atom.P:          true,
	atom.Div:        true,
	atom.Section:    true,
	atom.Article:    true,
	atom.Blockquote: true,
	atom.Pre:        true,
	atom.Ul:         true,
	atom.Ol:         true,
	atom.Li:         true,
	atom.Table:      true,
	atom.Tr:         true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
}

func renderText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(collapseSpace(n.Data))
		return

	case html.ElementNode:
		if skippedTags[n.DataAtom] {
			return
		}
		if n.DataAtom == atom.Br {
			b.WriteByte('\n')
			return
		}
		if blockTags[n.DataAtom] {
			b.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			renderText(b, c)
		}
		if n.DataAtom == atom.Td || n.DataAtom == atom.Th {
			b.WriteByte(' ')
		}
		if blockTags[n.DataAtom] {
			b.WriteByte('\n')
		}
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderText(b, c)
	}
}

// nodeText extracts the plain text of a single node and its descendants
func nodeText(n *html.Node) string {
	var b strings.Builder
	renderText(&b, n)
	return tidy(b.String())
}

// collapseSpace squeezes whitespace runs into single spaces while keeping
// boundary spaces so inline elements stay separated
func collapseSpace(s string) string {
	if s == "" {
		return ""
	}
	mid := strings.Join(strings.Fields(s), " ")
	if mid == "" {
		return " "
	}
	if s[0] == ' ' || s[0] == '\n' || s[0] == '\t' || s[0] == '\r' {
		mid = " " + mid
	}
	last := s[len(s)-1]
	if last == ' ' || last == '\n' || last == '\t' || last == '\r' {
		mid += " "
	}
	return mid
}

// tidy collapses runs of blank lines and trims the edges
func tidy(s string) string {
	lines := strings.Split(s, "\n")
	var out []string
	blank := true
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}
