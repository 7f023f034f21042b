package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

const ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

const (
	maxHeadingLevel = 3
	maxListLevel    = 2
	listIndent      = 720
	textWidth       = 9026
)

var ErrEmpty = errors.New("docx: markdown is empty")

var md = goldmark.New(goldmark.WithExtensions(extension.Table, extension.Strikethrough))

type blockKind int

const (
	blockParagraph blockKind = iota
	blockHeading
	blockListItem
	blockListText
	blockCode
	blockQuote
	blockTable
)

type block struct {
	kind    blockKind
	level   int
	ordered bool
	runs    []run
	rows    [][][]run
}

type style struct {
	bold   bool
	italic bool
	code   bool
	strike bool
}

// run is a stretch of text with one style. brk puts a line break before it.
type run struct {
	style
	text string
	brk  bool
}

// parse turns markdown into the blocks the writer understands. Headings
// deeper than ### are rendered as ### and lists nest at most three levels.
func parse(markdown string) []block {
	p := &parser{src: []byte(strings.ReplaceAll(markdown, "\r\n", "\n"))}
	doc := md.Parser().Parse(text.NewReader(p.src))
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		p.block(n, 0, false)
	}
	return p.out
}

type parser struct {
	src []byte
	out []block
}

func (p *parser) block(n ast.Node, depth int, quote bool) {
	switch n := n.(type) {
	case *ast.Heading:
		p.out = append(p.out, block{kind: blockHeading, level: min(n.Level, maxHeadingLevel), runs: p.inline(n)})
	case *ast.Paragraph, *ast.TextBlock:
		kind := blockParagraph
		if quote {
			kind = blockQuote
		}
		p.out = append(p.out, block{kind: kind, runs: p.inline(n)})
	case *ast.List:
		p.list(n, depth, quote)
	case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
		p.code(n)
	case *ast.Blockquote:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			p.block(c, depth, true)
		}
	case *east.Table:
		p.table(n)
	case *ast.ThematicBreak:
	default:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			p.block(c, depth, quote)
		}
	}
}

// list emits one numbered or bulleted paragraph per item. Further paragraphs
// of an item stay indented under it, and nested lists go one level deeper.
func (p *parser) list(l *ast.List, depth int, quote bool) {
	level := min(depth, maxListLevel)
	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		lead := true
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			switch c := c.(type) {
			case *ast.Paragraph, *ast.TextBlock:
				kind := blockListText
				if lead {
					kind = blockListItem
				}
				p.out = append(p.out, block{kind: kind, level: level, ordered: l.IsOrdered(), runs: p.inline(c)})
			case *ast.List:
				if lead {
					p.out = append(p.out, block{kind: blockListItem, level: level, ordered: l.IsOrdered()})
				}
				p.list(c, depth+1, quote)
			default:
				p.block(c, depth+1, quote)
			}
			lead = false
		}
		if lead {
			p.out = append(p.out, block{kind: blockListItem, level: level, ordered: l.IsOrdered()})
		}
	}
}

func (p *parser) code(n ast.Node) {
	lines := n.Lines()
	rs := make([]run, 0, lines.Len())
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		line := strings.TrimRight(string(seg.Value(p.src)), "\n")
		rs = append(rs, run{style: style{code: true}, text: line, brk: i > 0})
	}
	if len(rs) > 0 {
		p.out = append(p.out, block{kind: blockCode, runs: rs})
	}
}

// table keeps the header as rows[0].
func (p *parser) table(t *east.Table) {
	b := block{kind: blockTable}
	for row := t.FirstChild(); row != nil; row = row.NextSibling() {
		var cells [][]run
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, p.inline(cell))
		}
		b.rows = append(b.rows, cells)
	}
	p.out = append(p.out, b)
}

func (p *parser) inline(n ast.Node) []run {
	var out []run
	p.walkInline(n, style{}, &out)
	return out
}

func (p *parser) walkInline(n ast.Node, st style, out *[]run) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			v := c.Segment.Value(p.src)
			if !st.code && !c.IsRaw() {
				v = util.ResolveEntityNames(util.ResolveNumericReferences(util.UnescapePunctuations(v)))
			}
			emit(out, st, string(v))
			switch {
			case c.HardLineBreak():
				*out = append(*out, run{style: st, brk: true})
			case c.SoftLineBreak():
				emit(out, st, " ")
			}
		case *ast.String:
			emit(out, st, string(c.Value))
		case *ast.CodeSpan:
			next := st
			next.code = true
			p.walkInline(c, next, out)
		case *ast.Emphasis:
			next := st
			if c.Level >= 2 {
				next.bold = true
			} else {
				next.italic = true
			}
			p.walkInline(c, next, out)
		case *east.Strikethrough:
			next := st
			next.strike = true
			p.walkInline(c, next, out)
		case *ast.AutoLink:
			emit(out, st, string(c.Label(p.src)))
		case *ast.RawHTML:
			for i := 0; i < c.Segments.Len(); i++ {
				seg := c.Segments.At(i)
				emit(out, st, string(seg.Value(p.src)))
			}
		default:
			// Links and images keep their text.
			p.walkInline(c, st, out)
		}
	}
}

// emit appends s, joining it to the previous run when the style matches.
func emit(out *[]run, st style, s string) {
	if s == "" {
		return
	}
	if n := len(*out); n > 0 && (*out)[n-1].style == st && (*out)[n-1].text != "" {
		(*out)[n-1].text += s
		return
	}
	if n := len(*out); n > 0 && (*out)[n-1].style == st && (*out)[n-1].brk {
		(*out)[n-1].text = s
		return
	}
	*out = append(*out, run{style: st, text: s})
}

// FromMarkdown renders markdown into a minimal WordprocessingML package.
func FromMarkdown(title, markdown string) ([]byte, error) {
	if strings.TrimSpace(markdown) == "" {
		return nil, ErrEmpty
	}
	blocks := parse(markdown)
	title = strings.TrimSpace(title)

	var body bytes.Buffer
	if title != "" {
		writeParagraph(&body, paraProps{style: "Title"}, []run{{text: title}})
	}
	for _, b := range blocks {
		writeBlock(&body, b)
	}
	// A table may not be the last thing before the section properties.
	if n := len(blocks); n > 0 && blocks[n-1].kind == blockTable {
		body.WriteString("<w:p/>")
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := []struct{ name, content string }{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", rootRelsXML},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"word/styles.xml", stylesXML},
		{"word/numbering.xml", numberingXML},
		{"word/document.xml", documentHeader + body.String() + documentFooter},
	}
	for _, f := range files {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: f.name, Method: zip.Deflate, Modified: time.Unix(0, 0).UTC()})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(f.content)); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeBlock(w *bytes.Buffer, b block) {
	switch b.kind {
	case blockHeading:
		writeParagraph(w, paraProps{style: "Heading" + strconv.Itoa(b.level)}, b.runs)
	case blockListItem:
		numID := "1"
		if b.ordered {
			numID = "2"
		}
		writeParagraph(w, paraProps{style: "ListParagraph", numID: numID, ilvl: b.level}, b.runs)
	case blockListText:
		writeParagraph(w, paraProps{style: "ListParagraph", indent: listIndent * (b.level + 1)}, b.runs)
	case blockCode:
		writeParagraph(w, paraProps{style: "Code"}, b.runs)
	case blockQuote:
		writeParagraph(w, paraProps{style: "Quote"}, b.runs)
	case blockTable:
		writeTable(w, b.rows)
	default:
		writeParagraph(w, paraProps{}, b.runs)
	}
}

type paraProps struct {
	style  string
	numID  string
	ilvl   int
	indent int
}

func writeParagraph(w *bytes.Buffer, pp paraProps, rs []run) {
	w.WriteString("<w:p>")
	if pp != (paraProps{}) {
		w.WriteString("<w:pPr>")
		if pp.style != "" {
			w.WriteString(`<w:pStyle w:val="` + pp.style + `"/>`)
		}
		if pp.numID != "" {
			w.WriteString(`<w:numPr><w:ilvl w:val="` + strconv.Itoa(pp.ilvl) + `"/><w:numId w:val="` + pp.numID + `"/></w:numPr>`)
		}
		if pp.indent > 0 {
			w.WriteString(`<w:ind w:left="` + strconv.Itoa(pp.indent) + `"/>`)
		}
		w.WriteString("</w:pPr>")
	}
	for _, r := range rs {
		writeRun(w, r)
	}
	w.WriteString("</w:p>")
}

func writeRun(w *bytes.Buffer, r run) {
	w.WriteString("<w:r>")
	if r.style != (style{}) {
		w.WriteString("<w:rPr>")
		if r.code {
			w.WriteString(`<w:rFonts w:ascii="Consolas" w:hAnsi="Consolas" w:cs="Consolas"/>`)
		}
		if r.bold {
			w.WriteString("<w:b/>")
		}
		if r.italic {
			w.WriteString("<w:i/>")
		}
		if r.strike {
			w.WriteString("<w:strike/>")
		}
		w.WriteString("</w:rPr>")
	}
	if r.brk {
		w.WriteString("<w:br/>")
	}
	if r.text != "" {
		w.WriteString(`<w:t xml:space="preserve">`)
		_ = xml.EscapeText(w, []byte(r.text))
		w.WriteString("</w:t>")
	}
	w.WriteString("</w:r>")
}

// writeTable renders rows as a bordered grid with the first row repeated as
// the header. Short rows are padded with empty cells.
func writeTable(w *bytes.Buffer, rows [][][]run) {
	cols := 0
	for _, row := range rows {
		cols = max(cols, len(row))
	}
	if cols == 0 {
		return
	}
	width := strconv.Itoa(textWidth / cols)
	w.WriteString(`<w:tbl><w:tblPr><w:tblStyle w:val="TableGrid"/><w:tblW w:w="0" w:type="auto"/></w:tblPr><w:tblGrid>`)
	for i := 0; i < cols; i++ {
		w.WriteString(`<w:gridCol w:w="` + width + `"/>`)
	}
	w.WriteString("</w:tblGrid>")
	for i, row := range rows {
		w.WriteString("<w:tr>")
		if i == 0 {
			w.WriteString("<w:trPr><w:tblHeader/></w:trPr>")
		}
		for c := 0; c < cols; c++ {
			var rs []run
			if c < len(row) {
				rs = row[c]
			}
			if i == 0 {
				bold := make([]run, len(rs))
				for j, r := range rs {
					r.bold = true
					bold[j] = r
				}
				rs = bold
			}
			w.WriteString(`<w:tc><w:tcPr><w:tcW w:w="` + width + `" w:type="dxa"/></w:tcPr>`)
			writeParagraph(w, paraProps{}, rs)
			w.WriteString("</w:tc>")
		}
		w.WriteString("</w:tr>")
	}
	w.WriteString("</w:tbl>")
}
