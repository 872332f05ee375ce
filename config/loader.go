package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/fusekit/errors"
	"github.com/kbukum/fusekit/logger"
)

// FileSystem abstracts the file operations of the loader.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem is the FileSystem of the running process.
type RealFileSystem struct{}

func (RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Resolver finds the config and env files of a service.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles holds the files a load reads. Empty means none was found.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles returns the explicit paths of opts, searching for the ones
// left empty.
func (r *Resolver) ResolveFiles(serviceName string, opts LoaderConfig) ResolvedFiles {
	files := ResolvedFiles{ConfigFile: opts.ConfigFile, EnvFile: opts.EnvFile}
	if files.ConfigFile == "" {
		files.ConfigFile = r.first(configCandidates(serviceName))
	}
	if files.EnvFile == "" {
		files.EnvFile = r.first(envCandidates(serviceName))
	}
	return files
}

func (r *Resolver) first(paths []string) string {
	for _, p := range paths {
		if r.FileSystem.Exists(p) {
			return p
		}
	}
	return ""
}

// serviceDirs lists the directories a service's files may live in, from
// the most specific: cmd/<service>, cmd/<suffix> for "org-etl" style names,
// then the config dir, each from the working directory and up to two
// parents.
func serviceDirs(serviceName string) []string {
	names := []string{serviceName}
	if i := strings.LastIndex(serviceName, "-"); i != -1 {
		names = append(names, serviceName[i+1:])
	}

	var dirs []string
	for _, up := range []string{".", "..", "../.."} {
		for _, name := range names {
			dirs = append(dirs, up+"/cmd/"+name)
		}
	}
	for _, up := range []string{".", ".."} {
		dirs = append(dirs, up+"/config/"+serviceName, up+"/config")
	}
	return dirs
}

func configCandidates(serviceName string) []string {
	var paths []string
	for _, dir := range serviceDirs(serviceName) {
		paths = append(paths, dir+"/config.yml")
	}
	return append(paths, "./config.yml")
}

func envCandidates(serviceName string) []string {
	var paths []string
	for _, file := range []string{".env." + serviceName, ".env"} {
		for _, dir := range serviceDirs(serviceName) {
			paths = append(paths, dir+"/"+file)
		}
		paths = append(paths, file, "../"+file, "../../"+file)
	}
	return paths
}

// LoaderConfig holds the loader dependencies and file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// Loadable is a configuration struct that can fill its defaults and
// validate itself.
type Loadable interface {
	ApplyDefaults()
	Validate() error
}

// LoadConfig loads configuration for a service into cfg: the resolved
// config.yml first, then the environment, including variables from the
// resolved .env file.
func LoadConfig(serviceName string, cfg any, opts ...LoaderOption) error {
	lc := LoaderConfig{FileSystem: RealFileSystem{}}
	for _, opt := range opts {
		opt(&lc)
	}

	r := &Resolver{FileSystem: lc.FileSystem}
	return load(serviceName, cfg, r.ResolveFiles(serviceName, lc), lc.FileSystem)
}

// Load runs LoadConfig, applies defaults and validates the result.
//
//	var cfg config.StreamConfig
//	if err := config.Load("etl", &cfg); err != nil {
//	    return err
//	}
func Load(serviceName string, cfg Loadable, opts ...LoaderOption) error {
	if err := LoadConfig(serviceName, cfg, opts...); err != nil {
		return err
	}
	cfg.ApplyDefaults()
	return cfg.Validate()
}

func load(serviceName string, cfg any, files ResolvedFiles, fs FileSystem) error {
	log := logger.WithComponent("config")
	v := viper.New()

	if files.ConfigFile != "" && fs.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			log.Warn("failed to read config file", logger.Fields("file", files.ConfigFile, logger.FieldError, err.Error()))
		}
	}

	if files.EnvFile != "" && fs.Exists(files.EnvFile) {
		if err := fs.LoadEnv(files.EnvFile); err != nil {
			log.Warn("failed to load env file", logger.Fields("file", files.EnvFile, logger.FieldError, err.Error()))
		}
	}
	v.AutomaticEnv()
	bindEnv(v, os.Environ())

	if err := v.Unmarshal(cfg); err != nil {
		return errors.InvalidConfig(fmt.Sprintf("failed to unmarshal config for service %s", serviceName)).WithCause(err)
	}
	return nil
}

// bindEnv sets every KEY=value pair under each nested key it may stand for.
func bindEnv(v *viper.Viper, environ []string) {
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		for _, k := range generateEnvKeyVariants(key) {
			v.Set(k, value)
		}
	}
}

// generateEnvKeyVariants maps an environment key onto the config keys it
// may stand for, since underscores separate both levels and words:
//
//	TELEMETRY_SAMPLE_RATE -> telemetry_sample_rate, telemetry.sample.rate,
//	                         telemetry.sample_rate, telemetry_sample.rate
func generateEnvKeyVariants(envKey string) []string {
	key := strings.ToLower(envKey)
	parts := strings.Split(key, "_")
	if len(parts) == 1 {
		return []string{key}
	}

	variants := []string{key, strings.Join(parts, ".")}
	for i := 1; i < len(parts); i++ {
		head, tail := parts[:i], parts[i:]
		variants = append(variants,
			strings.Join(head, ".")+"."+strings.Join(tail, "_"),
			strings.Join(head, "_")+"."+strings.Join(tail, "."),
		)
	}
	slices.Sort(variants)
	return slices.Compact(variants)
}
