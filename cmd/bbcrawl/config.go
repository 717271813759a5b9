package main

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the configuration file looked up in the working
// and home directories.
const DefaultConfigFile = ".bbcrawl.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File holds crawl defaults read from YAML. Unset fields keep the built-in
// defaults; flags and environment variables override both.
type File struct {
	Limit       *int     `yaml:"limit"`
	Concurrency *int     `yaml:"concurrency"`
	Timeout     string   `yaml:"timeout"`
	RPS         *float64 `yaml:"rps"`
	Extractor   string   `yaml:"extractor"`
	Render      string   `yaml:"render"`
	UserAgent   string   `yaml:"user_agent"`
	Browser     string   `yaml:"browser"`
	History     string   `yaml:"history"`
}

// LoadConfigFile loads crawl defaults from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .bbcrawl.yaml in the current directory
// 3. Look for .bbcrawl.yaml in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}

// Vars returns kong interpolation variables for the CLI defaults, with the
// file's values taking the place of the built-in ones.
func (f *File) Vars() map[string]string {
	vars := defaultVars()
	if f == nil {
		return vars
	}
	if f.Limit != nil {
		vars["limit"] = strconv.Itoa(*f.Limit)
	}
	if f.Concurrency != nil {
		vars["concurrency"] = strconv.Itoa(*f.Concurrency)
	}
	if f.Timeout != "" {
		vars["timeout"] = f.Timeout
	}
	if f.RPS != nil {
		vars["rps"] = strconv.FormatFloat(*f.RPS, 'f', -1, 64)
	}
	if f.Extractor != "" {
		vars["extractor"] = f.Extractor
	}
	if f.Render != "" {
		vars["render"] = f.Render
	}
	if f.UserAgent != "" {
		vars["user_agent"] = f.UserAgent
	}
	if f.Browser != "" {
		vars["browser"] = f.Browser
	}
	if f.History != "" {
		vars["history"] = f.History
	}
	return vars
}

// configFlag returns the value of --config in args, if present.
// It runs before kong so that the file can supply kong's defaults.
func configFlag(args []string) string {
	for i, arg := range args {
		switch {
		case arg == "--":
			return ""
		case arg == "--config" && i+1 < len(args):
			return args[i+1]
		case strings.HasPrefix(arg, "--config="):
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}
