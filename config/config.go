package config

import (
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug               = "debug"
	ConfigDataPath            = "data-path"
	ConfigTriePath            = "trie-path"
	ConfigSequenceLogPath     = "sequence-log-path"
	ConfigSequenceLogBackend  = "sequence-log-backend"
	ConfigSearchDepth         = "search-depth"
	ConfigPriorSide           = "prior-side"
	ConfigMaxSequenceLength   = "max-sequence-length"
	ConfigSampleToTrio        = "sample-to-trio"
	ConfigSelfplayThreads     = "selfplay-threads"
	ConfigSelfplaySummaryPath = "selfplay-summary-path"
	ConfigEvalCache           = "eval-cache"
	ConfigCPUProfile          = "cpu-profile"
	ConfigMemProfile          = "mem-profile"
)

// Config wraps a viper instance. Settings come from (in increasing order of
// precedence) defaults, BOOP_-prefixed environment variables, and
// command-line flags.
type Config struct {
	viper.Viper
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(ConfigDebug, false)
	v.SetDefault(ConfigDataPath, "./data")
	v.SetDefault(ConfigTriePath, "sampling_trie.bin")
	v.SetDefault(ConfigSequenceLogPath, "sequences.txt")
	v.SetDefault(ConfigSequenceLogBackend, "file")
	v.SetDefault(ConfigSearchDepth, 3)
	v.SetDefault(ConfigPriorSide, "a")
	v.SetDefault(ConfigMaxSequenceLength, 60)
	v.SetDefault(ConfigSampleToTrio, true)
	v.SetDefault(ConfigSelfplayThreads, 4)
	v.SetDefault(ConfigSelfplaySummaryPath, "")
	v.SetDefault(ConfigEvalCache, true)
	v.SetDefault(ConfigCPUProfile, "")
	v.SetDefault(ConfigMemProfile, "")
}

// DefaultConfig returns a config with every setting at its default. It is
// mostly meant for tests.
func DefaultConfig() *Config {
	c := &Config{Viper: *viper.New()}
	setDefaults(&c.Viper)
	return c
}

// Load parses the given command-line arguments and environment.
func (c *Config) Load(args []string) error {
	c.Viper = *viper.New()
	setDefaults(&c.Viper)

	fs := pflag.NewFlagSet("boop", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.String(ConfigDataPath, "./data", "directory holding the trie and the sequence log")
	fs.String(ConfigTriePath, "sampling_trie.bin", "persisted sequence trie, relative to data-path")
	fs.String(ConfigSequenceLogPath, "sequences.txt", "sequence log, relative to data-path")
	fs.String(ConfigSequenceLogBackend, "file", "sequence log backend: file or sqlite")
	fs.Int(ConfigSearchDepth, 3, "minimax search depth in plies")
	fs.String(ConfigPriorSide, "a", "side that consults the trie: a, b, or none")
	fs.Int(ConfigMaxSequenceLength, 60, "longest self-play sequence that is kept")
	fs.Bool(ConfigSampleToTrio, true, "record self-play sequences only up to the first trio")
	fs.Int(ConfigSelfplayThreads, 4, "number of concurrent self-play games")
	fs.String(ConfigSelfplaySummaryPath, "", "if set, write a YAML self-play summary here")
	fs.Bool(ConfigEvalCache, true, "memoize leaf evaluations during search")
	fs.String(ConfigCPUProfile, "", "write a CPU profile to this file")
	fs.String(ConfigMemProfile, "", "write a heap profile to this file")
	// Unknown flags are the shell's business (e.g. a one-shot command line).
	fs.ParseErrorsWhitelist.UnknownFlags = true

	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	c.SetEnvPrefix("boop")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()
	return nil
}

// AdjustRelativePaths resolves the data path against the executable's
// directory if it is not absolute.
func (c *Config) AdjustRelativePaths(basePath string) {
	dp := c.GetString(ConfigDataPath)
	if !filepath.IsAbs(dp) {
		c.Set(ConfigDataPath, filepath.Join(basePath, dp))
	}
}

// TrieFile is the full path of the persisted trie.
func (c *Config) TrieFile() string {
	return c.resolve(c.GetString(ConfigTriePath))
}

// SequenceLogFile is the full path of the sequence log.
func (c *Config) SequenceLogFile() string {
	return c.resolve(c.GetString(ConfigSequenceLogPath))
}

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.GetString(ConfigDataPath), p)
}
