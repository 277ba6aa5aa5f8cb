package index

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/gubarz/mdscan/internal/parser"
)

// ErrNoDocuments is returned when a path holds no Markdown files
var ErrNoDocuments = errors.New("no markdown documents found")

// FrontMatter is the YAML or TOML header of a document
type FrontMatter struct {
	Title string   `yaml:"title" toml:"title" json:"title,omitempty"`
	Tags  []string `yaml:"tags" toml:"tags" json:"tags,omitempty"`
}

// ParseFrontMatter reads the header of text. Text without a header yields an empty FrontMatter.
func ParseFrontMatter(text string) (FrontMatter, error) {
	var meta FrontMatter
	if _, err := frontmatter.Parse(strings.NewReader(text), &meta); err != nil {
		return FrontMatter{}, fmt.Errorf("parse frontmatter: %w", err)
	}
	return meta, nil
}

// Document is one scanned Markdown file
type Document struct {
	Path      string            `json:"path"`
	Text      string            `json:"-"`
	Meta      FrontMatter       `json:"meta"`
	Artifacts []parser.Artifact `json:"artifacts"`
	Blocks    []parser.Block    `json:"blocks"`
}

// Index holds all scanned documents, sorted by path
type Index struct {
	Documents []*Document
}

// NewIndex creates an empty index
func NewIndex() *Index {
	return &Index{
		Documents: make([]*Document, 0),
	}
}

// Count returns the number of artifacts of the given kind across all documents
func (idx *Index) Count(kind parser.Kind) int {
	n := 0
	for _, doc := range idx.Documents {
		for _, a := range doc.Artifacts {
			if a.Kind == kind {
				n++
			}
		}
	}
	return n
}

// Total returns the number of artifacts across all documents
func (idx *Index) Total() int {
	n := 0
	for _, doc := range idx.Documents {
		n += len(doc.Artifacts)
	}
	return n
}

// Filter returns a copy of the index keeping only artifacts and blocks of the given kinds.
// With no kinds the index is returned unchanged.
func (idx *Index) Filter(kinds ...parser.Kind) *Index {
	if len(kinds) == 0 {
		return idx
	}

	filtered := NewIndex()
	for _, doc := range idx.Documents {
		out := &Document{
			Path:      doc.Path,
			Text:      doc.Text,
			Meta:      doc.Meta,
			Artifacts: make([]parser.Artifact, 0, len(doc.Artifacts)),
			Blocks:    make([]parser.Block, 0, len(doc.Blocks)),
		}
		for _, a := range doc.Artifacts {
			if slices.Contains(kinds, a.Kind) {
				out.Artifacts = append(out.Artifacts, a)
			}
		}
		for _, b := range doc.Blocks {
			if slices.Contains(kinds, b.Kind) {
				out.Blocks = append(out.Blocks, b)
			}
		}
		filtered.Documents = append(filtered.Documents, out)
	}
	return filtered
}

// Indexer reads Markdown files from a file system and scans them
type Indexer struct {
	fs         afero.Fs
	log        *zap.SugaredLogger
	extensions []string
}

// New creates an indexer. Without extensions, ".md" and ".markdown" files are scanned.
func New(fs afero.Fs, logger *zap.SugaredLogger, extensions ...string) *Indexer {
	if len(extensions) == 0 {
		extensions = []string{".md", ".markdown"}
	}
	exts := make([]string, len(extensions))
	for i, ext := range extensions {
		exts[i] = strings.ToLower(ext)
	}
	return &Indexer{
		fs:         fs,
		log:        logger,
		extensions: exts,
	}
}

// NewOS creates an indexer over the real file system
func NewOS(logger *zap.SugaredLogger, extensions ...string) *Indexer {
	return New(afero.NewOsFs(), logger, extensions...)
}

// Parse scans path, which may be a directory or a single file
func (ix *Indexer) Parse(path string) (*Index, error) {
	info, err := ix.fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("path error: %w", err)
	}
	if info.IsDir() {
		return ix.ParseDirectory(path)
	}
	return ix.ParseSingleFile(path)
}

// ParseDirectory recursively scans all Markdown files under dir
func (ix *Indexer) ParseDirectory(dir string) (*Index, error) {
	idx := NewIndex()
	err := afero.Walk(ix.fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !ix.isMarkdown(path) {
			return nil
		}
		doc, err := ix.parseFile(path)
		if err != nil {
			return err
		}
		idx.Documents = append(idx.Documents, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(idx.Documents) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoDocuments, dir)
	}

	sort.Slice(idx.Documents, func(i, j int) bool {
		return idx.Documents[i].Path < idx.Documents[j].Path
	})
	ix.log.Debugw("indexed directory", "dir", dir, "documents", len(idx.Documents), "artifacts", idx.Total())
	return idx, nil
}

// ParseSingleFile scans one file regardless of its extension
func (ix *Indexer) ParseSingleFile(path string) (*Index, error) {
	doc, err := ix.parseFile(path)
	if err != nil {
		return nil, err
	}
	idx := NewIndex()
	idx.Documents = append(idx.Documents, doc)
	return idx, nil
}

func (ix *Indexer) parseFile(path string) (*Document, error) {
	data, err := afero.ReadFile(ix.fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	doc, err := parseDocument(path, string(data))
	if err != nil {
		ix.log.Warnw("ignoring front matter", "path", path, "error", err)
	}
	ix.log.Debugw("scanned document", "path", path, "bytes", len(data),
		"artifacts", len(doc.Artifacts), "blocks", len(doc.Blocks))
	return doc, nil
}

func (ix *Indexer) isMarkdown(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range ix.extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// ParseText scans text that did not come from the file system.
// A malformed front matter header leaves Meta empty; the text is still scanned whole.
func ParseText(path, text string) *Document {
	doc, _ := parseDocument(path, text)
	return doc
}

// parseDocument always returns a document; the error is the front matter's
func parseDocument(path, text string) (*Document, error) {
	res := parser.ParseAll(text)
	meta, err := ParseFrontMatter(text)
	return &Document{
		Path:      path,
		Text:      text,
		Meta:      meta,
		Artifacts: res.Artifacts,
		Blocks:    res.Blocks,
	}, err
}
