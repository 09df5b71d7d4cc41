package batch

import "time"

// Job is one swap to perform offline
type Job struct {
	ID          string `json:"id" parquet:"id,optional"`
	SubjectPath string `json:"subject_path" parquet:"subject_path"`
	StyleURL    string `json:"style_url" parquet:"style_url"`
}

// Result records what happened to a Job
type Result struct {
	ID          string        `yaml:"id"`
	SubjectPath string        `yaml:"subjectpath"`
	StyleURL    string        `yaml:"styleurl"`
	OutputPath  string        `yaml:"outputpath,omitempty"`
	Bytes       int           `yaml:"bytes,omitempty"`
	Kind        string        `yaml:"kind,omitempty"` // failure kind, empty on success
	Error       string        `yaml:"error,omitempty"`
	Duration    time.Duration `yaml:"duration"`
}

// OK reports whether the job produced an image
func (r Result) OK() bool {
	return r.Error == ""
}
