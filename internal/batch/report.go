package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ReportConfig is the configuration section of a batch report
type ReportConfig struct {
	Provider    string `yaml:"provider"`
	Model       string `yaml:"model"`
	Prompt      string `yaml:"prompt"`
	JobsPath    string `yaml:"jobspath"`
	Concurrency int    `yaml:"concurrency"`
	Timestamp   string `yaml:"timestamp"`
}

// ReportSummary counts outcomes
type ReportSummary struct {
	Total     int            `yaml:"total"`
	Succeeded int            `yaml:"succeeded"`
	Failed    int            `yaml:"failed"`
	ByKind    map[string]int `yaml:"bykind,omitempty"`
}

// Report is the document written after a batch run
type Report struct {
	Config  ReportConfig  `yaml:"config"`
	Summary ReportSummary `yaml:"summary"`
	Results []Result      `yaml:"results"`
}

// Summarize counts successes and failures by kind
func Summarize(results []Result) ReportSummary {
	summary := ReportSummary{Total: len(results)}
	for _, r := range results {
		if r.OK() {
			summary.Succeeded++
			continue
		}
		summary.Failed++
		if summary.ByKind == nil {
			summary.ByKind = make(map[string]int)
		}
		summary.ByKind[r.Kind]++
	}
	return summary
}

// SaveReport writes the report as batch-<timestamp>.yaml in dir and returns its path
func SaveReport(dir string, cfg ReportConfig, results []Result) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	if cfg.Timestamp == "" {
		cfg.Timestamp = time.Now().Format("2006-01-02_15-04-05")
	}

	report := Report{
		Config:  cfg,
		Summary: Summarize(results),
		Results: results,
	}

	data, err := yaml.Marshal(&report)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}

	filename := filepath.Join(dir, fmt.Sprintf("batch-%s.yaml", cfg.Timestamp))
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write YAML file: %w", err)
	}

	return filename, nil
}
