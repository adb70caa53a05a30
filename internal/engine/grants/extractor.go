package grants

import (
	"regexp"
	"sort"
)

// GatedPrefix marks identifiers that belong to a permission-gated API
// family. A manifest entry without this prefix (wildcards, "none",
// window.* values) is never checked for use.
const GatedPrefix = "GM"

// Gated identifiers are a fixed two-character prefix followed by word
// characters. The shape is simple enough that a grammar parser is not
// warranted; a single pattern over the raw text is exact for this
// token family.
var gatedIdentRE = regexp.MustCompile(`\bGM\w+`)

type Location struct {
	File   string
	Line   int
	Column int
}

// Occurrence is one gated identifier with the location it was first
// seen at. The location is diagnostic garnish only; check semantics
// operate on the identifier set.
type Occurrence struct {
	Identifier string
	Location   Location
}

// ExtractIdentifiers returns the unique gated identifiers in text,
// sorted. Duplicate call sites collapse.
func ExtractIdentifiers(text string) []string {
	seen := make(map[string]struct{})
	for _, ident := range gatedIdentRE.FindAllString(text, -1) {
		seen[ident] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for ident := range seen {
		out = append(out, ident)
	}
	sort.Strings(out)
	return out
}

// extractOccurrences records each identifier in content once, keyed to
// its first match position. New identifiers are merged into seen.
func extractOccurrences(filePath string, content []byte, seen map[string]Occurrence) {
	if len(content) == 0 {
		return
	}
	text := string(content)
	index := buildLineIndex(content)
	for _, loc := range gatedIdentRE.FindAllStringIndex(text, -1) {
		ident := text[loc[0]:loc[1]]
		if _, ok := seen[ident]; ok {
			continue
		}
		line, col := index.lineCol(loc[0])
		seen[ident] = Occurrence{
			Identifier: ident,
			Location:   Location{File: filePath, Line: line, Column: col},
		}
	}
}

type lineIndex struct {
	starts []int
}

func buildLineIndex(content []byte) lineIndex {
	starts := []int{0}
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return lineIndex{starts: starts}
}

func (i lineIndex) lineCol(offset int) (int, int) {
	if offset < 0 {
		return 1, 1
	}
	line := sort.Search(len(i.starts), func(idx int) bool { return i.starts[idx] > offset }) - 1
	if line < 0 {
		line = 0
	}
	col := (offset - i.starts[line]) + 1
	if col < 1 {
		col = 1
	}
	return line + 1, col
}
