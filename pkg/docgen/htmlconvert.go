package docgen

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/CUSTIS-public/docgen/pkg/docgen/ooxml"
)

// listParagraphStyle is the paragraph style Word applies to list items.
const listParagraphStyle = "ListParagraph"

// listContext tracks the active list while converting an HTML fragment. The
// level follows nesting depth of ul/ol tags; dropping below zero closes the
// list.
type listContext struct {
	instanceID int
	level      int
}

// htmlConverter accumulates text between structural tags and flushes it into
// paragraphs. It is single-use: one converter per fragment.
type htmlConverter struct {
	alloc  *numberingAllocator
	blocks []*ooxml.Paragraph
	buf    strings.Builder
	list   *listContext
}

// convertHTML turns an HTML fragment into a sequence of paragraphs.
// Supported structure is p, br, ul, ol and li; any other tag is transparent
// and only contributes its text. List items become paragraphs referencing a
// numbering instance obtained from the allocator.
func convertHTML(fragment string, alloc *numberingAllocator) []*ooxml.Paragraph {
	c := &htmlConverter{alloc: alloc}
	z := html.NewTokenizer(strings.NewReader(fragment))

	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or a malformed token; either way the input is done
			c.flush()
			return c.blocks
		case html.TextToken:
			c.text(string(z.Text()))
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			c.openTag(strings.ToLower(string(name)))
		case html.EndTagToken:
			name, _ := z.TagName()
			c.closeTag(strings.ToLower(string(name)))
		}
	}
}

func (c *htmlConverter) text(s string) {
	if strings.TrimSpace(s) == "" {
		// Whitespace between tags collapses to a single space and never
		// opens a paragraph
		if c.buf.Len() > 0 && !strings.HasSuffix(c.buf.String(), " ") {
			c.buf.WriteByte(' ')
		}
		return
	}
	c.buf.WriteString(s)
}

func (c *htmlConverter) openTag(name string) {
	switch name {
	case "p", "li", "br":
		c.flush()
	case "ul":
		c.flush()
		if c.list == nil {
			c.list = &listContext{instanceID: c.alloc.AllocateBullet()}
		} else {
			c.list.level++
		}
	case "ol":
		c.flush()
		if c.list == nil {
			c.list = &listContext{instanceID: c.alloc.AllocateDecimal()}
		} else {
			c.list.level++
		}
	}
}

func (c *htmlConverter) closeTag(name string) {
	switch name {
	case "ul", "ol":
		c.flush()
		if c.list != nil {
			c.list.level--
			if c.list.level < 0 {
				c.list = nil
			}
		}
	}
}

// flush emits the buffered text as one paragraph. Empty buffers produce
// nothing, so consecutive structural tags do not create blank paragraphs.
func (c *htmlConverter) flush() {
	text := strings.TrimSpace(c.buf.String())
	c.buf.Reset()
	if text == "" {
		return
	}

	para := &ooxml.Paragraph{
		Content: []ooxml.ParagraphChild{
			&ooxml.Run{Content: []ooxml.RunChild{&ooxml.Text{Value: text}}},
		},
	}
	if c.list != nil {
		para.Properties = &ooxml.ParagraphProperties{
			Style: listParagraphStyle,
			Numbering: &ooxml.NumberingReference{
				Level: c.list.level,
				NumID: c.list.instanceID,
			},
		}
	}
	c.blocks = append(c.blocks, para)
}
