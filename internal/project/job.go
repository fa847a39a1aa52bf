// Package project persists packing jobs: the parts, boards and settings of
// one run, as JSON or YAML files.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/piwi3910/BoardFit/internal/model"
)

// JobVersion is the current job file format version.
const JobVersion = "1"

// ErrMissingVersion is returned for a job file without a version field.
var ErrMissingVersion = errors.New("invalid job file: missing version field")

// Job is a saved packing run.
type Job struct {
	Version   string             `json:"version" yaml:"version"`
	ID        string             `json:"id" yaml:"id"`
	Name      string             `json:"name" yaml:"name"`
	CreatedAt string             `json:"created_at" yaml:"created_at"`
	Parts     []model.Part       `json:"parts" yaml:"parts"`
	Boards    []model.StockBoard `json:"boards" yaml:"boards"`
	Settings  model.CutSettings  `json:"settings" yaml:"settings"`
}

// NewJob creates an empty job with default settings.
func NewJob(name string) Job {
	return Job{
		Version:   JobVersion,
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Parts:     []model.Part{},
		Boards:    []model.StockBoard{},
		Settings:  model.DefaultSettings(),
	}
}

// isYAML reports whether path names a YAML file.
func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// SaveJob writes a job to path, as YAML for .yaml/.yml files and JSON
// otherwise. It creates any missing parent directories.
func SaveJob(path string, job Job) error {
	if job.Version == "" {
		job.Version = JobVersion
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(job)
	} else {
		data, err = json.MarshalIndent(job, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create job directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write job file: %w", err)
	}
	return nil
}

// LoadJob reads a job written by SaveJob. Settings missing from the file keep
// their defaults.
func LoadJob(path string) (Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Job{}, fmt.Errorf("failed to read job file: %w", err)
	}

	job := Job{Settings: model.DefaultSettings()}
	if isYAML(path) {
		err = yaml.Unmarshal(data, &job)
	} else {
		err = json.Unmarshal(data, &job)
	}
	if err != nil {
		return Job{}, fmt.Errorf("failed to parse job file: %w", err)
	}
	if job.Version == "" {
		return Job{}, ErrMissingVersion
	}

	// Ensure collections are never nil
	if job.Parts == nil {
		job.Parts = []model.Part{}
	}
	if job.Boards == nil {
		job.Boards = []model.StockBoard{}
	}
	return job, nil
}
