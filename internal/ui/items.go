package ui

import (
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/gubarz/mdscan/internal/highlight"
	"github.com/gubarz/mdscan/internal/index"
	"github.com/gubarz/mdscan/internal/parser"
)

// ============================================================================
// Browser Item
// ============================================================================

// item is one browsable piece of code: a whole indented or fenced block,
// or a single inline span
type item struct {
	doc    *index.Document
	kind   parser.Kind
	lang   string
	offset int
	line   int
	code   string
	search string // lowercased text the filter matches against
}

// location returns "dir/file.md:line"
func (it *item) location() string {
	dir := filepath.Base(filepath.Dir(it.doc.Path))
	return filepath.Join(dir, filepath.Base(it.doc.Path)) + ":" + strconv.Itoa(it.line)
}

// matchesQuery checks if the item matches all (lowercased) search words
func (it *item) matchesQuery(words []string) bool {
	for _, word := range words {
		if !strings.Contains(it.search, word) {
			return false
		}
	}
	return true
}

// buildItems lists every block and inline span of idx in document order
func buildItems(idx *index.Index) []*item {
	var items []*item
	for _, doc := range idx.Documents {
		start := len(items)
		for _, a := range doc.Artifacts {
			if a.Kind == parser.InlineCode {
				items = append(items, newItem(doc, a.Kind, "", a.Outer.Start, a.Text(doc.Text)))
			}
		}
		for _, b := range doc.Blocks {
			offset := b.Outer.Start
			if len(b.Lines) > 0 {
				offset = b.Lines[0].Outer.Start
			}
			items = append(items, newItem(doc, b.Kind, b.Language(), offset, b.Code(doc.Text)))
		}
		docItems := items[start:]
		sort.SliceStable(docItems, func(i, j int) bool { return docItems[i].offset < docItems[j].offset })
	}
	return items
}

func newItem(doc *index.Document, kind parser.Kind, lang string, offset int, code string) *item {
	it := &item{
		doc:    doc,
		kind:   kind,
		lang:   lang,
		offset: offset,
		line:   highlight.PositionOf(doc.Text, offset).Line,
		code:   code,
	}
	fields := []string{doc.Path, doc.Meta.Title, kind.String(), lang, code}
	fields = append(fields, doc.Meta.Tags...)
	it.search = strings.ToLower(strings.Join(fields, " "))
	return it
}
