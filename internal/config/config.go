package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"maps"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dkoosis/lineclass/pkg/render"
)

// Job names the analyzer and ignore rules for one kind of captured output.
type Job struct {
	Analyzer     string   `yaml:"analyzer,omitempty"`
	IgnoredLines []string `yaml:"ignored_lines,omitempty"`
}

// File is the content of one configuration file. Nil pointers and empty
// values mean "not set" and leave lower layers untouched.
type File struct {
	Summary       *bool          `yaml:"summary"`
	Wrap          *bool          `yaml:"wrap"`
	Reverse       *bool          `yaml:"reverse"`
	HelpLine      *bool          `yaml:"help_line"`
	GracePeriod   string         `yaml:"grace_period"`
	Theme         string         `yaml:"theme"`
	Format        string         `yaml:"format"`
	DefaultJob    string         `yaml:"default_job"`
	MaxLineLength int            `yaml:"max_line_length"`
	IgnoredLines  []string       `yaml:"ignored_lines"`
	Ignore        []string       `yaml:"ignore"`
	Jobs          map[string]Job `yaml:"jobs"`
}

// Args holds the command-line overrides. Paired flags let the command line
// turn a setting off as well as on.
type Args struct {
	Job       string
	Summary   bool
	NoSummary bool
	Wrap      bool
	NoWrap    bool
	Reverse   bool
	NoReverse bool
	Theme     string
	Format    string
}

// Constants for default values.
const (
	DefaultJobName       = "nextest"
	DefaultTheme         = "default"
	DefaultFormat        = "auto"
	DefaultMaxLineLength = 1024 * 1024
	FileName             = ".lineclass.yaml"
	PrefsFileName        = "prefs.yaml"
	DefaultGracePeriod   = 5 * time.Millisecond
)

var validFormats = []string{"auto", "terminal", "llm", "json"}

// Settings is the fully merged configuration. Load returns it by value and
// nothing mutates it afterwards; the job table is reachable only through
// copies returned by Jobs.
type Settings struct {
	Summary       bool
	Wrap          bool
	Reverse       bool
	HelpLine      bool
	GracePeriod   time.Duration
	Theme         string
	Format        string
	DefaultJob    string
	ArgJob        string
	MaxLineLength int
	IgnoredLines  []string
	jobs          map[string]Job
	// ConfigFiles lists every file applied, lowest priority first.
	ConfigFiles []string
	// ThemeSource records which layer chose the theme: "default", "file", "env" or "cli".
	ThemeSource string
}

// Defaults returns the hardcoded settings.
func Defaults() Settings {
	return Settings{
		Wrap:          true,
		HelpLine:      true,
		GracePeriod:   DefaultGracePeriod,
		Theme:         DefaultTheme,
		Format:        DefaultFormat,
		DefaultJob:    DefaultJobName,
		MaxLineLength: DefaultMaxLineLength,
		ThemeSource:   "default",
		jobs: map[string]Job{
			"nextest": {Analyzer: "nextest"},
			"check":   {Analyzer: "standard"},
		},
	}
}

// ReadFile reads, validates and decodes one configuration file.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Kind: KindIO, Path: path, Err: err}
	}
	return ParseFile(path, data)
}

// ParseFile validates and decodes configuration data. path is used for errors only.
func ParseFile(path string, data []byte) (*File, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &Error{Kind: KindParse, Path: path, Err: err}
	}
	if err := validateDocument(doc); err != nil {
		return nil, &Error{Kind: KindValidation, Path: path, Err: err}
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, &Error{Kind: KindParse, Path: path, Err: err}
	}
	return &f, nil
}

// applyFile overrides s with every value set in f. ignored_lines replaces
// the inherited list while ignore appends to it.
func (s *Settings) applyFile(path string, f *File) error {
	if f.Summary != nil {
		s.Summary = *f.Summary
	}
	if f.Wrap != nil {
		s.Wrap = *f.Wrap
	}
	if f.Reverse != nil {
		s.Reverse = *f.Reverse
	}
	if f.HelpLine != nil {
		s.HelpLine = *f.HelpLine
	}
	if f.GracePeriod != "" {
		d, err := time.ParseDuration(f.GracePeriod)
		if err != nil {
			return &Error{Kind: KindValidation, Path: path, Err: fmt.Errorf("grace_period: %w", err)}
		}
		s.GracePeriod = d
	}
	if f.Theme != "" {
		s.Theme = f.Theme
		s.ThemeSource = "file"
	}
	if f.Format != "" {
		s.Format = f.Format
	}
	if f.DefaultJob != "" {
		s.DefaultJob = f.DefaultJob
	}
	if f.MaxLineLength > 0 {
		s.MaxLineLength = f.MaxLineLength
	}
	if f.IgnoredLines != nil {
		s.IgnoredLines = slices.Clone(f.IgnoredLines)
	}
	s.IgnoredLines = append(s.IgnoredLines, f.Ignore...)
	for name, job := range f.Jobs {
		s.jobs[name] = job
	}
	return nil
}

// applyArgs overrides s with the command line.
func (s *Settings) applyArgs(a Args) {
	if a.Job != "" {
		s.ArgJob = a.Job
	}
	if a.NoSummary {
		s.Summary = false
	}
	if a.Summary {
		s.Summary = true
	}
	if a.NoWrap {
		s.Wrap = false
	}
	if a.Wrap {
		s.Wrap = true
	}
	if a.NoReverse {
		s.Reverse = false
	}
	if a.Reverse {
		s.Reverse = true
	}
	if a.Theme != "" {
		s.Theme = a.Theme
		s.ThemeSource = "cli"
	}
	if a.Format != "" {
		s.Format = a.Format
	}
}

// Check reports inconsistent settings.
func (s Settings) Check() error {
	if len(s.jobs) == 0 {
		return &Error{Kind: KindCheck, Err: errors.New("no job found")}
	}
	if _, ok := s.jobs[s.DefaultJob]; !ok {
		return &Error{Kind: KindCheck, Err: fmt.Errorf("default job (%q) not found in jobs", s.DefaultJob)}
	}
	if s.ArgJob != "" {
		if _, ok := s.jobs[s.ArgJob]; !ok {
			return &Error{Kind: KindCheck, Err: fmt.Errorf("job %q not found in jobs", s.ArgJob)}
		}
	}
	if !slices.Contains(render.ThemeNames, s.Theme) {
		return &Error{Kind: KindCheck, Err: fmt.Errorf("invalid theme %q (must be: default, orca, mono)", s.Theme)}
	}
	if !slices.Contains(validFormats, s.Format) {
		return &Error{Kind: KindCheck, Err: fmt.Errorf("invalid format %q (must be: auto, terminal, llm, json)", s.Format)}
	}
	if _, err := s.IgnoredPatterns(); err != nil {
		return &Error{Kind: KindCheck, Err: err}
	}
	return nil
}

// JobName returns the job selected on the command line, else the default job.
func (s Settings) JobName() string {
	if s.ArgJob != "" {
		return s.ArgJob
	}
	return s.DefaultJob
}

// Job returns the selected job.
func (s Settings) Job() Job {
	return s.jobs[s.JobName()]
}

// Jobs returns a copy of the job table.
func (s Settings) Jobs() map[string]Job {
	return maps.Clone(s.jobs)
}

// IgnoredPatterns compiles the ignored-line patterns of the selected job,
// falling back to the global list when the job has none.
func (s Settings) IgnoredPatterns() ([]*regexp.Regexp, error) {
	patterns := s.IgnoredLines
	if job := s.Job(); job.IgnoredLines != nil {
		patterns = job.IgnoredLines
	}
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid ignored line pattern %q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}
