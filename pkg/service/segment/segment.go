package segment

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Section is one heading-bounded region of a document
type Section struct {
	Title string
	Text  string
}

// Segments is the structural decomposition of one document: the full plain
// text plus its heading-level sections.
type Segments struct {
	FullText string
	Sections []Section
}

// Segment converts an HTML document body into plain text and splits it into
// sections at h2/h3 boundaries. A section spans from its heading to the next
// h2/h3 sibling. Sections whose text renders empty are dropped. A document
// with no headings becomes a single section titled with the document title.
func Segment(title, bodyHTML string) (*Segments, error) {
	nodes, err := html.ParseFragment(strings.NewReader(bodyHTML), bodyContext())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse document body", goerr.V("title", title))
	}

	fullText := HTMLToText(bodyHTML)
	if title != "" {
		if fullText != "" {
			fullText = title + "\n\n" + fullText
		} else {
			fullText = title
		}
	}

	var sections []Section
	for _, root := range nodes {
		walkHeadings(root, &sections)
	}

	if len(sections) == 0 && fullText != "" {
		sections = append(sections, Section{Title: title, Text: fullText})
	}

	return &Segments{
		FullText: fullText,
		Sections: sections,
	}, nil
}

func isSectionHeading(n *html.Node) bool {
	return n.Type == html.ElementNode && (n.DataAtom == atom.H2 || n.DataAtom == atom.H3)
}

// walkHeadings finds every h2/h3 and collects the sibling content that
// follows it, stopping at the next heading.
func walkHeadings(n *html.Node, sections *[]Section) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !isSectionHeading(c) {
			walkHeadings(c, sections)
			continue
		}

		title := nodeText(c)
		var b strings.Builder
		for sib := c.NextSibling; sib != nil && !isSectionHeading(sib); sib = sib.NextSibling {
			renderText(&b, sib)
		}
		text := tidy(b.String())
		if text == "" {
			continue
		}
		*sections = append(*sections, Section{Title: title, Text: text})
	}
}
