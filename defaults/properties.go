package defaults

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Where a resolved value came from.
const (
	sourceSetting     = "setting"
	sourceEnvironment = "environment"
	sourceFile        = "properties file"
	sourceNone        = "none"
)

// propertySource layers explicit settings over environment variables over a
// properties stream. Keys are case-insensitive.
type propertySource struct {
	v      *viper.Viper
	envs   map[string]string
	pinned map[string]bool
}

func newPropertySource() *propertySource {
	v := viper.New()
	v.SetConfigType("properties")
	return &propertySource{
		v:      v,
		envs:   make(map[string]string),
		pinned: make(map[string]bool),
	}
}

// bindEnv makes the environment variable env answer for key.
func (s *propertySource) bindEnv(key, env string) {
	// BindEnv only errors on an empty key list.
	_ = s.v.BindEnv(key, env)
	s.envs[strings.ToLower(key)] = env
}

// set pins key to value when value is not blank.
func (s *propertySource) set(key, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	s.v.Set(key, value)
	s.pinned[strings.ToLower(key)] = true
}

// load replaces the file layer with the properties read from r.
func (s *propertySource) load(r io.Reader) error {
	if err := s.v.ReadConfig(r); err != nil {
		return fmt.Errorf("parse properties: %w", err)
	}
	return nil
}

// loadFile loads path into the file layer. A missing file is not an error.
func (s *propertySource) loadFile(path string) (bool, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if err := s.load(f); err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}
	return true, nil
}

// lookup returns the trimmed value for key if any layer holds a non-blank one.
func (s *propertySource) lookup(key string) (string, bool) {
	if !s.v.IsSet(key) {
		return "", false
	}
	value := strings.TrimSpace(s.v.GetString(key))
	return value, value != ""
}

// source reports which layer answers for key.
func (s *propertySource) source(key string) string {
	key = strings.ToLower(key)
	if _, ok := s.lookup(key); !ok {
		return sourceNone
	}
	if s.pinned[key] {
		return sourceSetting
	}
	if env, ok := s.envs[key]; ok {
		if v, set := os.LookupEnv(env); set && strings.TrimSpace(v) != "" {
			return sourceEnvironment
		}
	}
	return sourceFile
}
