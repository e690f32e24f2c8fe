package config

import (
	"errors"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"go.uber.org/zap"
)

// Environment variables consulted by Load.
const (
	EnvPrefs   = "LINECLASS_PREFS"
	EnvConfig  = "LINECLASS_CONFIG"
	EnvNoColor = "NO_COLOR"
)

// Sources locates the configuration inputs. Tests substitute every field.
type Sources struct {
	// UserConfigDir holds the global prefs directory; empty skips it.
	UserConfigDir string
	// Env looks up environment variables; nil means no environment.
	Env func(string) string
	// WorkDir is the project directory.
	WorkDir string
}

// DefaultSources returns the sources of the running process.
func DefaultSources() Sources {
	src := Sources{Env: os.Getenv}
	if dir, err := os.UserConfigDir(); err == nil {
		src.UserConfigDir = dir
	}
	if wd, err := os.Getwd(); err == nil {
		src.WorkDir = wd
	}
	return src
}

func (s Sources) getenv(key string) string {
	if s.Env == nil {
		return ""
	}
	return s.Env(key)
}

// layer is one candidate configuration file. Optional layers are skipped
// when the file does not exist; explicit ones (named by env) must exist.
type layer struct {
	path     string
	optional bool
}

// layers lists the configuration files from lowest to highest priority.
func (s Sources) layers() []layer {
	var out []layer
	if s.UserConfigDir != "" {
		out = append(out, layer{path: filepath.Join(s.UserConfigDir, "lineclass", PrefsFileName), optional: true})
	}
	if p := s.getenv(EnvPrefs); p != "" {
		out = append(out, layer{path: p})
	}
	if s.WorkDir != "" {
		if ws := workspaceFile(s.WorkDir); ws != "" {
			out = append(out, layer{path: ws, optional: true})
		}
		out = append(out, layer{path: filepath.Join(s.WorkDir, FileName), optional: true})
	}
	if p := s.getenv(EnvConfig); p != "" {
		out = append(out, layer{path: p})
	}
	return out
}

// workspaceFile returns the config file of the nearest ancestor of dir that
// has one, or "" when none does.
func workspaceFile(dir string) string {
	dir = filepath.Clean(dir)
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
}

// Load builds the settings by layering defaults, config files, the
// environment and the command line, then checks the result.
func Load(args Args, src Sources, logger *zap.Logger) (Settings, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	settings := Defaults()

	for _, l := range src.layers() {
		f, err := ReadFile(l.path)
		if err != nil {
			if l.optional && errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Settings{}, err
		}
		if err := settings.applyFile(l.path, f); err != nil {
			return Settings{}, err
		}
		settings.ConfigFiles = append(settings.ConfigFiles, l.path)
		logger.Debug("applied config file", zap.String("path", l.path))
	}

	if src.getenv(EnvNoColor) != "" {
		settings.Theme = "mono"
		settings.ThemeSource = "env"
	}
	settings.applyArgs(args)

	if err := settings.Check(); err != nil {
		return Settings{}, err
	}
	logger.Debug("settings resolved",
		zap.String("job", settings.JobName()),
		zap.Strings("jobs", slices.Sorted(maps.Keys(settings.Jobs()))),
		zap.String("theme", settings.Theme),
		zap.String("theme_source", settings.ThemeSource),
		zap.String("format", settings.Format),
		zap.Int("config_files", len(settings.ConfigFiles)))
	return settings, nil
}
