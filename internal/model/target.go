package model

import (
	"slices"
	"time"
)

// Target is one unit of ingestion work: a page, the named extraction spec to
// apply to it, and the label stamped on every record it yields.
type Target struct {
	URL   string `json:"url" yaml:"url" mapstructure:"url"`
	Spec  string `json:"spec" yaml:"spec" mapstructure:"spec"`
	Label string `json:"label" yaml:"label" mapstructure:"label"`
}

// TargetStatus is the terminal state of a target within a run.
type TargetStatus string

const (
	TargetStatusSucceeded TargetStatus = "succeeded"
	TargetStatusExhausted TargetStatus = "exhausted"
	TargetStatusSkipped   TargetStatus = "skipped"
)

// TargetResult records how a single target finished.
type TargetResult struct {
	Target   Target       `json:"target"`
	Status   TargetStatus `json:"status"`
	Attempts int          `json:"attempts"`
	Rows     int          `json:"rows"`
	Error    string       `json:"error,omitempty"`
	Duration int64        `json:"duration_ms"`
}

// RunReport is the outcome of one ingestion run.
type RunReport struct {
	Targets     []TargetResult `json:"targets"`
	Records     []Record       `json:"-"`
	Fields      []string       `json:"-"`
	InsertedIDs []string       `json:"inserted_ids,omitempty"`
	StartedAt   time.Time      `json:"started_at"`
	FinishedAt  time.Time      `json:"finished_at"`
}

// Count returns how many targets ended with status s.
func (r *RunReport) Count(s TargetStatus) int {
	n := 0
	for _, t := range r.Targets {
		if t.Status == s {
			n++
		}
	}
	return n
}

// AddFields appends the fields not already present, keeping first-seen order.
func (r *RunReport) AddFields(fields []string) {
	for _, f := range fields {
		if !slices.Contains(r.Fields, f) {
			r.Fields = append(r.Fields, f)
		}
	}
}

// RecordCount is the number of accumulated records.
func (r *RunReport) RecordCount() int {
	return len(r.Records)
}
