package batch

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"
)

// Loader reads batch jobs from a JSONL or Parquet file
type Loader struct {
	path string
}

// NewLoader creates a new job loader
func NewLoader(path string) *Loader {
	return &Loader{
		path: path,
	}
}

// Load reads every job in the file. Jobs without an id get a generated one;
// jobs missing subject_path or style_url are rejected.
func (l *Loader) Load() ([]Job, error) {
	var (
		jobs []Job
		err  error
	)

	ext := strings.ToLower(filepath.Ext(l.path))
	switch ext {
	case ".parquet":
		jobs, err = l.loadParquet()
	case ".jsonl", ".json":
		jobs, err = l.loadJSONL()
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: .parquet, .jsonl)", ext)
	}
	if err != nil {
		return nil, err
	}

	for i := range jobs {
		if jobs[i].SubjectPath == "" || jobs[i].StyleURL == "" {
			return nil, fmt.Errorf("job %d: subject_path and style_url are required", i+1)
		}
		if jobs[i].ID == "" {
			jobs[i].ID = uuid.NewString()
		}
	}

	if err := validateIDs(jobs); err != nil {
		return nil, err
	}

	return jobs, nil
}

// validateIDs makes sure every id names a distinct file inside the output directory
func validateIDs(jobs []Job) error {
	seen := make(map[string]int, len(jobs))
	for i, job := range jobs {
		if job.ID == "" || job.ID == "." || job.ID == ".." ||
			strings.ContainsAny(job.ID, `/\`) || job.ID != filepath.Base(job.ID) {
			return fmt.Errorf("job %d: invalid id %q: must be a plain file name", i+1, job.ID)
		}
		if prev, ok := seen[job.ID]; ok {
			return fmt.Errorf("job %d: duplicate id %q (first used by job %d)", i+1, job.ID, prev)
		}
		seen[job.ID] = i + 1
	}
	return nil
}

func (l *Loader) loadJSONL() ([]Job, error) {
	slog.Debug("Opening JSONL file", "path", l.path)

	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open jobs file: %w", err)
	}
	defer file.Close()

	var jobs []Job
	scanner := bufio.NewScanner(file)

	// Increase buffer size to handle large JSON lines
	const maxCapacity = 10 * 1024 * 1024 // 10MB per line
	buf := make([]byte, maxCapacity)
	scanner.Buffer(buf, maxCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()

		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		var job Job
		if err := json.Unmarshal(line, &job); err != nil {
			return nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
		}
		jobs = append(jobs, job)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading jobs file: %w", err)
	}

	slog.Debug("Finished reading JSONL file", "total_jobs", len(jobs), "total_lines", lineNum)
	return jobs, nil
}

func (l *Loader) loadParquet() ([]Job, error) {
	slog.Debug("Opening Parquet file", "path", l.path)

	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	slog.Debug("Parquet file opened successfully", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[Job](pf)
	defer reader.Close()

	var jobs []Job
	rows := make([]Job, 128)

	for {
		n, err := reader.Read(rows)
		jobs = append(jobs, rows[:n]...)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}

	slog.Debug("Finished reading Parquet file", "total_jobs", len(jobs))
	return jobs, nil
}
