// Package parser finds code regions in Markdown text: inline code spans,
// indented code blocks and fenced code blocks, with blockquote nesting taken into account.
//
// Parsing never fails. Unterminated inline spans are ignored and an unterminated
// fence runs to the end of the text.
package parser

import "iter"

// Parse returns every artifact in text, in document order
func Parse(text string) []Artifact {
	artifacts := make([]Artifact, 0)
	for a := range All(text) {
		artifacts = append(artifacts, a)
	}
	return artifacts
}

// All returns a lazy sequence of the artifacts in text.
// Each pull resumes the scan where it paused; breaking out of the loop stops it.
func All(text string) iter.Seq[Artifact] {
	return func(yield func(Artifact) bool) {
		NewScanner(text).OnArtifact(yield).Run()
	}
}

// ParseBlocks returns every indented and fenced block in text, in document order.
// Inline spans are not blocks and are not included.
func ParseBlocks(text string) []Block {
	blocks := make([]Block, 0)
	NewScanner(text).OnBlock(func(b Block) bool {
		blocks = append(blocks, b)
		return true
	}).Run()
	return blocks
}

// Result holds both views of one scan
type Result struct {
	Artifacts []Artifact
	Blocks    []Block
}

// ParseAll scans text once and returns its artifacts and blocks
func ParseAll(text string) Result {
	res := Result{
		Artifacts: make([]Artifact, 0),
		Blocks:    make([]Block, 0),
	}
	NewScanner(text).
		OnArtifact(func(a Artifact) bool {
			res.Artifacts = append(res.Artifacts, a)
			return true
		}).
		OnBlock(func(b Block) bool {
			res.Blocks = append(res.Blocks, b)
			return true
		}).
		Run()
	return res
}
