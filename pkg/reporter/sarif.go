package reporter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/yaklabco/rsfmt/pkg/runner"
)

const (
	sarifVersion   = "2.1.0"
	sarifSchemaURI = "https://json.schemastore.org/sarif-2.1.0.json"
	sarifRuleID    = "rsfmt/format"
)

// SARIFOutput is the subset of a SARIF 2.1.0 log that rsfmt emits: one run,
// one rule, one result per mismatched line range or failed file.
type SARIFOutput struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

// SARIFRun is a single rsfmt invocation.
type SARIFRun struct {
	Tool struct {
		Driver SARIFDriver `json:"driver"`
	} `json:"tool"`
	Results []SARIFResult `json:"results"`
}

// SARIFDriver identifies rsfmt and declares its rule.
type SARIFDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []SARIFRule `json:"rules"`
}

// SARIFRule is the formatting rule every result refers to.
type SARIFRule struct {
	ID               string    `json:"id"`
	ShortDescription SARIFText `json:"shortDescription"`
	DefaultConfig    struct {
		Level string `json:"level"`
	} `json:"defaultConfiguration"`
}

// SARIFText is a plain text message.
type SARIFText struct {
	Text string `json:"text"`
}

// SARIFResult is a mismatch (level warning, with a fix) or a file that could
// not be formatted (level error).
type SARIFResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   SARIFText       `json:"message"`
	Locations []SARIFLocation `json:"locations"`
	Fixes     []SARIFFix      `json:"fixes,omitempty"`
}

// SARIFLocation points at a line range of a file.
type SARIFLocation struct {
	PhysicalLocation struct {
		ArtifactLocation SARIFArtifact `json:"artifactLocation"`
		Region           SARIFRegion   `json:"region"`
	} `json:"physicalLocation"`
}

// SARIFArtifact names a file relative to the working directory.
type SARIFArtifact struct {
	URI string `json:"uri"`
}

// SARIFRegion is a 1-based line range. EndLine is omitted for insertions.
type SARIFRegion struct {
	StartLine int `json:"startLine"`
	EndLine   int `json:"endLine,omitempty"`
}

// SARIFFix replaces the located lines with the formatted text.
type SARIFFix struct {
	Description     SARIFText             `json:"description"`
	ArtifactChanges []SARIFArtifactChange `json:"artifactChanges"`
}

// SARIFArtifactChange lists the replacements for one file.
type SARIFArtifactChange struct {
	ArtifactLocation SARIFArtifact      `json:"artifactLocation"`
	Replacements     []SARIFReplacement `json:"replacements"`
}

// SARIFReplacement deletes a region and inserts the formatted lines.
type SARIFReplacement struct {
	DeletedRegion   SARIFRegion `json:"deletedRegion"`
	InsertedContent *SARIFText  `json:"insertedContent,omitempty"`
}

// SARIFReporter writes results as a SARIF log for code scanning tools.
type SARIFReporter struct {
	opts Options
	out  io.Writer
}

// NewSARIFReporter creates a new SARIF reporter.
func NewSARIFReporter(opts Options) *SARIFReporter {
	return &SARIFReporter{opts: opts, out: opts.Writer}
}

// Report implements Reporter.
func (r *SARIFReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	run := SARIFRun{Results: []SARIFResult{}}
	run.Tool.Driver = SARIFDriver{
		Name:           "rsfmt",
		Version:        r.opts.Version,
		InformationURI: "https://github.com/yaklabco/rsfmt",
		Rules:          []SARIFRule{formatRule()},
	}

	changed := 0
	if result != nil {
		changed = result.Stats.FilesChanged
		for _, file := range result.Files {
			run.Results = append(run.Results, r.fileResults(file)...)
		}
	}

	encoder := json.NewEncoder(r.out)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	doc := SARIFOutput{Schema: sarifSchemaURI, Version: sarifVersion, Runs: []SARIFRun{run}}
	if err := encoder.Encode(doc); err != nil {
		return 0, fmt.Errorf("encode SARIF: %w", err)
	}
	return changed, nil
}

func formatRule() SARIFRule {
	rule := SARIFRule{
		ID:               sarifRuleID,
		ShortDescription: SARIFText{Text: "Source differs from its formatted form"},
	}
	rule.DefaultConfig.Level = "warning"
	return rule
}

func (r *SARIFReporter) fileResults(file runner.FileOutcome) []SARIFResult {
	uri := displayPath(r.opts.WorkingDir, file.Path)

	if file.Error != nil {
		return []SARIFResult{{
			RuleID:    sarifRuleID,
			Level:     "error",
			Message:   SARIFText{Text: file.Error.Error()},
			Locations: []SARIFLocation{sarifLocation(uri, SARIFRegion{StartLine: 1})},
		}}
	}
	if !file.Changed {
		return nil
	}

	mismatches := Mismatches(file.Source, file.Output)
	results := make([]SARIFResult, 0, len(mismatches))
	for _, m := range mismatches {
		results = append(results, mismatchResult(uri, m))
	}
	return results
}

// mismatchResult turns a mismatch into a warning with a replacement fix.
// A pure insertion has OriginalEnd < OriginalBegin and is anchored at the
// line the text goes before.
func mismatchResult(uri string, m Mismatch) SARIFResult {
	region := SARIFRegion{StartLine: m.OriginalBegin}
	if m.OriginalEnd >= m.OriginalBegin {
		region.EndLine = m.OriginalEnd
	}

	replacement := SARIFReplacement{DeletedRegion: region}
	if m.Expected != "" {
		replacement.InsertedContent = &SARIFText{Text: m.Expected + "\n"}
	}

	fix := SARIFFix{
		Description: SARIFText{Text: "Apply rsfmt formatting"},
		ArtifactChanges: []SARIFArtifactChange{{
			ArtifactLocation: SARIFArtifact{URI: uri},
			Replacements:     []SARIFReplacement{replacement},
		}},
	}

	return SARIFResult{
		RuleID:    sarifRuleID,
		Level:     "warning",
		Message:   SARIFText{Text: "Code is not formatted"},
		Locations: []SARIFLocation{sarifLocation(uri, region)},
		Fixes:     []SARIFFix{fix},
	}
}

func sarifLocation(uri string, region SARIFRegion) SARIFLocation {
	var loc SARIFLocation
	loc.PhysicalLocation.ArtifactLocation = SARIFArtifact{URI: uri}
	loc.PhysicalLocation.Region = region
	return loc
}
