package report

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"grantlint/internal/engine/grants"
	"grantlint/internal/shared/version"
)

// SARIF v2.1.0 schema – see https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json

const (
	sarifSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
	sarifVersion = "2.1.0"

	ruleIDMissing = "GRANT001"
	ruleIDUnused  = "GRANT002"
)

// sarifReport is the top-level SARIF document.
type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	ShortDescription sarifMessage           `json:"shortDescription"`
	DefaultConfig    sarifRuleDefaultConfig `json:"defaultConfiguration"`
}

type sarifRuleDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
}

// GenerateSARIF builds a SARIF v2.1.0 document from a check report.
// File URIs are relative to sourceRoot; absolute paths are never
// included so that reports are safe to share.
func GenerateSARIF(sourceRoot string, checkReport *grants.Report) ([]byte, error) {
	rules := buildSARIFRules(checkReport)
	results := make([]sarifResult, 0, len(checkReport.Missing)+len(checkReport.Unused))

	// --- Missing grants → GRANT001 ---
	for _, ident := range checkReport.Missing {
		result := sarifResult{
			RuleID:  ruleIDMissing,
			Level:   "error",
			Message: sarifMessage{Text: fmt.Sprintf("Gated API %s is used but not declared in the grant manifest.", ident)},
		}
		if loc, ok := checkReport.FirstLocation(ident); ok {
			result.Locations = []sarifLocation{{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{
						URI:       relativeURI(sourceRoot, loc.File),
						URIBaseID: "%SRCROOT%",
					},
					Region: &sarifRegion{
						StartLine:   loc.Line,
						StartColumn: loc.Column,
					},
				},
			}}
		}
		results = append(results, result)
	}

	// --- Unused grants → GRANT002 ---
	for _, ident := range checkReport.Unused {
		results = append(results, sarifResult{
			RuleID:  ruleIDUnused,
			Level:   "warning",
			Message: sarifMessage{Text: fmt.Sprintf("Grant %s is declared in the manifest but never referenced.", ident)},
		})
	}

	doc := sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:    "grantlint",
						Version: version.Version,
						Rules:   rules,
					},
				},
				Results: results,
			},
		},
	}

	return json.MarshalIndent(doc, "", "  ")
}

// buildSARIFRules returns only the rules relevant for the findings.
func buildSARIFRules(checkReport *grants.Report) []sarifRule {
	rules := make([]sarifRule, 0, 2)
	if len(checkReport.Missing) > 0 {
		rules = append(rules, sarifRule{
			ID:               ruleIDMissing,
			Name:             "MissingGrant",
			ShortDescription: sarifMessage{Text: "A gated API is used without a matching manifest grant."},
			DefaultConfig:    sarifRuleDefaultConfig{Level: "error"},
		})
	}
	if len(checkReport.Unused) > 0 {
		rules = append(rules, sarifRule{
			ID:               ruleIDUnused,
			Name:             "UnusedGrant",
			ShortDescription: sarifMessage{Text: "A declared grant is never referenced in source."},
			DefaultConfig:    sarifRuleDefaultConfig{Level: "warning"},
		})
	}
	return rules
}

// relativeURI converts an absolute file path to a forward-slash
// relative URI anchored at sourceRoot. Already-relative paths pass
// through with forward slashes.
func relativeURI(sourceRoot, filePath string) string {
	if sourceRoot != "" && filepath.IsAbs(filePath) {
		rel, err := filepath.Rel(sourceRoot, filePath)
		if err == nil {
			filePath = rel
		}
	}
	// SARIF URIs use forward slashes.
	return filepath.ToSlash(filePath)
}
