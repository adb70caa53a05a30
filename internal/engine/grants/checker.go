package grants

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"grantlint/internal/core/errors"
	"grantlint/internal/manifest"
)

// Config carries everything the checker needs explicitly; there are no
// implicit process-wide paths.
type Config struct {
	Suffixes     []string
	ExcludeDirs  []string
	ExcludeFiles []string
}

type Checker struct {
	suffixes  []string
	dirGlobs  []glob.Glob
	fileGlobs []glob.Glob
}

// Report is the outcome of one check run. Missing and Unused are
// sorted; each identifier appears at most once.
type Report struct {
	Missing      []string
	Unused       []string
	Occurrences  []Occurrence
	FilesScanned int
}

// Failed reports whether the run must exit non-zero. Unused grants are
// advisory and never fail a run.
func (r *Report) Failed() bool {
	return len(r.Missing) > 0
}

func (r *Report) IdentifierCount() int {
	return len(r.Occurrences)
}

func New(cfg Config) (*Checker, error) {
	suffixes := make([]string, 0, len(cfg.Suffixes))
	for _, suffix := range cfg.Suffixes {
		s := strings.ToLower(strings.TrimSpace(suffix))
		if s == "" {
			continue
		}
		suffixes = append(suffixes, s)
	}
	if len(suffixes) == 0 {
		suffixes = []string{".ts", ".js"}
	}

	dirGlobs, err := compileGlobs(cfg.ExcludeDirs, "exclude dir")
	if err != nil {
		return nil, err
	}
	fileGlobs, err := compileGlobs(cfg.ExcludeFiles, "exclude file")
	if err != nil {
		return nil, err
	}

	return &Checker{suffixes: suffixes, dirGlobs: dirGlobs, fileGlobs: fileGlobs}, nil
}

func compileGlobs(patterns []string, kind string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid %s pattern %q: %w", kind, pattern, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// Scan walks fsys depth-first and accumulates one occurrence per gated
// identifier across all qualifying files. The walk is sequential; the
// expected input is a small source tree.
func (c *Checker) Scan(fsys fs.FS) (map[string]Occurrence, int, error) {
	seen := make(map[string]Occurrence)
	filesScanned := 0

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		base := path.Base(p)
		if d.IsDir() {
			if p == "." {
				return nil
			}
			for _, g := range c.dirGlobs {
				if g.Match(base) {
					return fs.SkipDir
				}
			}
			return nil
		}

		if !c.qualifies(base) {
			return nil
		}

		content, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		extractOccurrences(p, content, seen)
		filesScanned++
		return nil
	})
	if err != nil {
		return nil, 0, errors.AddContext(
			errors.Wrap(err, errors.CodeNotFound, "scan source tree"),
			errors.CtxOperation, "scan")
	}

	return seen, filesScanned, nil
}

func (c *Checker) qualifies(base string) bool {
	lower := strings.ToLower(base)
	matched := false
	for _, suffix := range c.suffixes {
		if strings.HasSuffix(lower, suffix) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	for _, g := range c.fileGlobs {
		if g.Match(base) {
			return false
		}
	}
	return true
}

// Check runs the full pass: scan fsys, then diff the occurrence set
// against the manifest. missing = occurrences − grants; unused =
// gated grants − occurrences, excluding the "none" sentinel.
func (c *Checker) Check(fsys fs.FS, m *manifest.Manifest) (*Report, error) {
	seen, filesScanned, err := c.Scan(fsys)
	if err != nil {
		return nil, err
	}

	missing := make([]string, 0)
	occurrences := make([]Occurrence, 0, len(seen))
	for ident, occ := range seen {
		occurrences = append(occurrences, occ)
		if !m.Has(ident) {
			missing = append(missing, ident)
		}
	}

	unused := make([]string, 0)
	for _, grant := range m.Grants() {
		if grant == manifest.GrantNone {
			continue
		}
		if !strings.HasPrefix(grant, GatedPrefix) {
			continue
		}
		if _, ok := seen[grant]; !ok {
			unused = append(unused, grant)
		}
	}

	sort.Strings(missing)
	sort.Slice(occurrences, func(i, j int) bool {
		return occurrences[i].Identifier < occurrences[j].Identifier
	})

	return &Report{
		Missing:      missing,
		Unused:       unused,
		Occurrences:  occurrences,
		FilesScanned: filesScanned,
	}, nil
}

// FirstLocation returns the recorded location of ident, if any.
func (r *Report) FirstLocation(ident string) (Location, bool) {
	for _, occ := range r.Occurrences {
		if occ.Identifier == ident {
			return occ.Location, true
		}
	}
	return Location{}, false
}
