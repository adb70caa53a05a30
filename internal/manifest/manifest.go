package manifest

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	"grantlint/internal/core/errors"
)

// GrantNone is the sentinel grant declaring that the script requests
// no permissions at all. It never produces a missing or unused finding.
const GrantNone = "none"

// Manifest is the permission declaration consumed by the checker.
// Only the grant list is interpreted; all other manifest fields are
// ignored. Immutable after Load.
type Manifest struct {
	grants map[string]struct{}
}

type rawManifest struct {
	Grant []string `json:"grant"`
}

// Load reads and parses a JSON manifest. A missing grant field is an
// empty grant set; a missing or malformed file is a hard failure.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.AddContext(
				errors.Wrap(err, errors.CodeNotFound, "manifest file not found"),
				errors.CtxPath, path)
		}
		return nil, errors.AddContext(
			errors.Wrap(err, errors.CodeInternal, "read manifest"),
			errors.CtxPath, path)
	}
	return Parse(data, path)
}

// Parse decodes manifest bytes. The path is only used for diagnostics.
func Parse(data []byte, path string) (*Manifest, error) {
	var raw rawManifest
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.AddContext(
			errors.Wrap(err, errors.CodeParseError, "decode manifest"),
			errors.CtxPath, path)
	}

	grants := make(map[string]struct{}, len(raw.Grant))
	for _, grant := range raw.Grant {
		grant = strings.TrimSpace(grant)
		if grant == "" {
			continue
		}
		grants[grant] = struct{}{}
	}
	return &Manifest{grants: grants}, nil
}

func (m *Manifest) Has(grant string) bool {
	_, ok := m.grants[grant]
	return ok
}

func (m *Manifest) Len() int {
	return len(m.grants)
}

// Grants returns the declared grants in sorted order.
func (m *Manifest) Grants() []string {
	out := make([]string, 0, len(m.grants))
	for grant := range m.grants {
		out = append(out, grant)
	}
	sort.Strings(out)
	return out
}
