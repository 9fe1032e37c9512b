package config

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"robot-controller/internal/board"
	"robot-controller/internal/lua"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. ROBOT_WIFI_SSID.
const EnvPrefix = "ROBOT_"

// Option customises Load.
type Option func(*loader)

type loader struct {
	ctx    context.Context
	base   Settings
	board  board.Profile
	file   string
	lookup func(string) (string, bool)
}

// WithFile overlays the values found in path (.json, .yaml, .yml or .lua).
func WithFile(path string) Option {
	return func(l *loader) { l.file = strings.TrimSpace(path) }
}

// WithEnv overlays ROBOT_* variables resolved through lookup (usually os.LookupEnv).
func WithEnv(lookup func(string) (string, bool)) Option {
	return func(l *loader) { l.lookup = lookup }
}

// WithBoard validates against a board other than the ESP8266.
func WithBoard(profile board.Profile) Option {
	return func(l *loader) { l.board = profile }
}

// WithBase replaces the compiled-in template as the lowest layer.
func WithBase(s Settings) Option {
	return func(l *loader) { l.base = s }
}

// WithContext bounds script evaluation.
func WithContext(ctx context.Context) Option {
	return func(l *loader) { l.ctx = ctx }
}

// Load builds the configuration set: template, then file, then environment.
// Any invariant violation fails with ErrInvalidConfiguration; nothing is
// returned half-valid.
func Load(opts ...Option) (*Config, error) {
	l := &loader{
		ctx:   context.Background(),
		base:  Defaults(),
		board: board.ESP8266,
	}
	for _, opt := range opts {
		opt(l)
	}
	log := logrus.WithField("component", "config")

	s := l.base
	if l.file != "" {
		if err := l.mergeFile(&s); err != nil {
			return nil, err
		}
		log.Debugf("Merged configuration file %s", l.file)
	}
	if l.lookup != nil {
		if err := l.mergeEnv(&s); err != nil {
			return nil, err
		}
	}

	cfg, err := NewForBoard(s, l.board)
	if err != nil {
		return nil, err
	}
	if cfg.HasPlaceholderCredentials() {
		log.Warn("WiFi credentials still hold the template placeholders")
	}
	return cfg, nil
}

func (l *loader) mergeFile(s *Settings) error {
	ext := strings.ToLower(filepath.Ext(l.file))
	if ext == ".lua" {
		return l.mergeLua(s)
	}

	data, err := os.ReadFile(l.file)
	if err != nil {
		return fmt.Errorf("failed to read config file '%s': %w", l.file, err)
	}

	switch ext {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(s); err != nil {
			return fmt.Errorf("failed to decode json '%s': %w", l.file, err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to decode yaml '%s': %w", l.file, err)
		}
	default:
		return fmt.Errorf("unsupported config file extension %q", ext)
	}
	return nil
}

func (l *loader) mergeLua(s *Settings) error {
	names := make([]string, 0, len(registry))
	for _, f := range registry {
		names = append(names, string(f.name))
	}

	values, err := lua.NewEngine(l.board).EvaluateFile(l.ctx, l.file, names)
	if err != nil {
		return fmt.Errorf("failed to evaluate config script: %w", err)
	}

	var p problems
	for _, f := range registry {
		v, ok := values[string(f.name)]
		if !ok {
			continue
		}
		if err := f.assign(s, v, l.board); err != nil {
			p.add(f.name, v, InvariantParse, "%v", err)
		}
	}
	return p.err()
}

// mergeEnv applies environment overrides, which have the highest precedence.
func (l *loader) mergeEnv(s *Settings) error {
	var p problems
	for _, f := range registry {
		raw, ok := l.lookup(f.name.EnvName())
		if !ok {
			continue
		}
		if err := f.parse(s, raw, l.board); err != nil {
			p.add(f.name, raw, InvariantParse, "%s: %v", f.name.EnvName(), err)
		}
	}
	return p.err()
}
