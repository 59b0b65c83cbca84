// Package markdown converts Markdown sources into training documents.
package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"trainings/internal/domain"
)

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Import parses src and maps it onto sections and blocks.
//
// Headings at the shallowest level used in the document (when that level is
// 1 or 2) open sections titled by the heading. Deeper headings become
// heading blocks. Content before the first section heading lands in a
// first section titled like a new document's.
func Import(src []byte) (*domain.Document, error) {
	root := md.Parser().Parse(text.NewReader(src))
	im := &importer{src: src, sectionLevel: sectionLevel(root)}
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		im.block(n)
	}
	if len(im.sections) > 0 && im.sections[0].Title == "" {
		im.sections[0].Title = domain.BootstrapSectionTitle
	}
	return domain.Normalize(&domain.Document{Sections: im.sections})
}

type importer struct {
	src          []byte
	sectionLevel int // 0 when headings do not open sections
	sections     []*domain.Section
}

func sectionLevel(root ast.Node) int {
	level := 0
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok && (level == 0 || h.Level < level) {
			level = h.Level
		}
	}
	if level > 2 {
		return 0
	}
	return level
}

func (im *importer) current() *domain.Section {
	if len(im.sections) == 0 {
		im.sections = append(im.sections, &domain.Section{})
	}
	return im.sections[len(im.sections)-1]
}

func (im *importer) add(b *domain.Block) {
	sec := im.current()
	sec.Blocks = append(sec.Blocks, b)
}

func (im *importer) block(n ast.Node) {
	switch n := n.(type) {
	case *ast.Heading:
		title := im.inline(n)
		if n.Level == im.sectionLevel {
			if len(im.sections) == 1 && im.sections[0].Title == "" && len(im.sections[0].Blocks) == 0 {
				im.sections[0].Title = title
				return
			}
			im.sections = append(im.sections, &domain.Section{Title: title})
			return
		}
		level := n.Level
		if im.sectionLevel > 0 {
			level = n.Level - im.sectionLevel + 1
		}
		im.add(&domain.Block{Type: domain.BlockTypeHeading, Content: title, Level: min(max(level, 1), 3)})

	case *ast.Paragraph, *ast.TextBlock:
		if img := im.soleImage(n); img != nil {
			im.add(&domain.Block{
				Type:     domain.BlockTypeImage,
				MediaURL: string(img.Destination),
				Caption:  im.inline(img),
			})
			return
		}
		if s := im.inline(n); s != "" {
			im.add(&domain.Block{Type: domain.BlockTypeText, Content: s})
		}

	case *ast.Blockquote:
		var parts []string
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if s := im.inline(c); s != "" {
				parts = append(parts, s)
			}
		}
		im.add(&domain.Block{Type: domain.BlockTypeQuote, Content: strings.Join(parts, "\n")})

	case *ast.List:
		items, checks, isTask := im.listItems(n)
		if isTask {
			im.add(&domain.Block{Type: domain.BlockTypeChecklist, CheckItems: checks})
			return
		}
		im.add(&domain.Block{Type: domain.BlockTypeList, ListItems: items})

	case *ast.ThematicBreak:
		im.add(domain.NewBlock(domain.BlockTypeDivider))

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		if s := strings.TrimRight(im.lines(n), "\n"); s != "" {
			im.add(&domain.Block{Type: domain.BlockTypeText, Content: s})
		}
	}
}

// listItems flattens nested lists into one item sequence.
func (im *importer) listItems(list *ast.List) ([]string, []domain.CheckItem, bool) {
	var items []string
	var checks []domain.CheckItem
	isTask := false
	for li := list.FirstChild(); li != nil; li = li.NextSibling() {
		for c := li.FirstChild(); c != nil; c = c.NextSibling() {
			if nested, ok := c.(*ast.List); ok {
				ni, nc, nt := im.listItems(nested)
				items, checks = append(items, ni...), append(checks, nc...)
				isTask = isTask || nt
				continue
			}
			s := im.inline(c)
			checked, task := taskState(c)
			isTask = isTask || task
			items = append(items, s)
			checks = append(checks, domain.CheckItem{Text: s, Checked: checked})
		}
	}
	return items, checks, isTask
}

func taskState(n ast.Node) (checked, ok bool) {
	if box, isBox := n.FirstChild().(*extast.TaskCheckBox); isBox {
		return box.IsChecked, true
	}
	return false, false
}

func (im *importer) soleImage(n ast.Node) *ast.Image {
	var img *ast.Image
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Image:
			if img != nil {
				return nil
			}
			img = c
		case *ast.Text:
			if len(strings.TrimSpace(string(c.Segment.Value(im.src)))) > 0 {
				return nil
			}
		default:
			return nil
		}
	}
	return img
}

// inline renders the inline content of n as plain text.
func (im *importer) inline(n ast.Node) string {
	var b strings.Builder
	im.writeInline(&b, n)
	return strings.TrimSpace(b.String())
}

func (im *importer) writeInline(b *strings.Builder, n ast.Node) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			b.Write(c.Segment.Value(im.src))
			if c.SoftLineBreak() || c.HardLineBreak() {
				b.WriteByte('\n')
			}
		case *ast.String:
			b.Write(c.Value)
		case *ast.AutoLink:
			b.Write(c.Label(im.src))
		case *extast.TaskCheckBox:
		default:
			im.writeInline(b, c)
		}
	}
}

func (im *importer) lines(n ast.Node) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(im.src))
	}
	return b.String()
}
