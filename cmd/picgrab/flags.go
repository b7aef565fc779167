package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/picgrab/internal/config"
	"github.com/nao1215/picgrab/internal/log"
	"github.com/nao1215/picgrab/internal/policy"
)

// Log output formats accepted by --log-format.
const (
	logFormatText = "text"
	logFormatJSON = "json"
)

// addConfigFlags registers the flags that make up a config.Config.
// Pattern flags are string arrays so that commas inside a regular
// expression are kept.
func addConfigFlags(cmd *cobra.Command) {
	f := cmd.Flags()

	f.StringArrayP("url", "u", nil, "URL to start the traversal (repeatable, positional arguments work too)")
	f.StringArrayP("follow", "f", config.DefaultFollow(), "Regex for URLs to follow (repeatable)")
	f.StringArrayP("no-follow", "n", config.DefaultNoFollow(), "Regex for URLs not to follow, takes precedence over --follow (repeatable)")
	f.StringArrayP("download", "d", config.DefaultDownload(), "Regex for files to download (repeatable)")
	f.StringP("target", "t", config.DefaultTarget, "Directory to hold the downloaded files")
	f.StringArrayP("ignore-duplicates-in", "i", config.DefaultIgnoreDuplicatesIn(),
		"Skip a download when a file with the same name exists in this directory (repeatable)")
	f.BoolP("allow-netloc-change", "a", false, "Follow links to hosts other than the page they were found on")
	f.String("visited-file", "", "JSON file the visited set is loaded from and saved to")
	f.String("frontier-file", "", "JSON file the frontier is loaded from and saved to")
	f.Int("save-every", config.DefaultSaveFrequency, "Save state after this many processed URLs (0 disables periodic saves)")
	f.String("user-agent", config.DefaultUserAgent, "User-Agent header sent with every request")
	f.Duration("timeout", config.DefaultTimeout, "Timeout for each request (0 means none)")
	f.String("proxy", "", "SOCKS5 proxy address (host:port)")
	f.Int64("max-body-size", config.DefaultMaxBodySize, "Maximum bytes read per response (0 means unlimited)")
	f.Bool("no-history", false, "Do not record the run in the history database")
	f.String("history-dir", config.XDGDataDir(), "Directory holding the history database")
	f.StringP("log", "l", config.DefaultLogLevel, "Log level: DEBUG, INFO, WARNING, ERROR or CRITICAL")
	f.String("log-format", logFormatText, "Log format: text or json")
	f.StringP("config", "c", "",
		"Configuration file (default: "+config.DefaultConfigFile+" in the current directory or config.yaml in the XDG config directory)")
}

// buildConfig creates a Config from flags, positional URLs and the
// configuration file. URLs on the command line win over the file; for
// every other option a value in the file wins.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	urls, err := flags.GetStringArray("url")
	if err != nil {
		return nil, err
	}
	cfg.URLs = append(append([]string{}, args...), urls...)

	if cfg.Follow, err = flags.GetStringArray("follow"); err != nil {
		return nil, err
	}
	if cfg.NoFollow, err = flags.GetStringArray("no-follow"); err != nil {
		return nil, err
	}
	if cfg.Download, err = flags.GetStringArray("download"); err != nil {
		return nil, err
	}
	if cfg.Target, err = flags.GetString("target"); err != nil {
		return nil, err
	}
	if cfg.IgnoreDuplicatesIn, err = flags.GetStringArray("ignore-duplicates-in"); err != nil {
		return nil, err
	}
	if cfg.AllowCrossOrigin, err = flags.GetBool("allow-netloc-change"); err != nil {
		return nil, err
	}
	if cfg.VisitedFile, err = flags.GetString("visited-file"); err != nil {
		return nil, err
	}
	if cfg.FrontierFile, err = flags.GetString("frontier-file"); err != nil {
		return nil, err
	}
	if cfg.SaveFrequency, err = flags.GetInt("save-every"); err != nil {
		return nil, err
	}
	if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.Proxy, err = flags.GetString("proxy"); err != nil {
		return nil, err
	}
	if cfg.MaxBodySize, err = flags.GetInt64("max-body-size"); err != nil {
		return nil, err
	}
	noHistory, err := flags.GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.History = !noHistory
	if cfg.HistoryDir, err = flags.GetString("history-dir"); err != nil {
		return nil, err
	}
	if cfg.LogLevel, err = flags.GetString("log"); err != nil {
		return nil, err
	}
	if getVerboseFlag(cmd) {
		cfg.LogLevel = "DEBUG"
	}

	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}

	// An explicitly named file must exist; a discovered one is optional.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		if err := file.Apply(cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
		}
		cfg.ConfigFilePath = configPath
	case explicitConfigPath:
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates the redacting logger for cfg.
func setupLogger(cmd *cobra.Command, w io.Writer, cfg *config.Config) (*slog.Logger, error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", config.ErrInvalidLogLevel, cfg.LogLevel)
	}

	format, err := cmd.Flags().GetString("log-format")
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(format) {
	case logFormatText, "":
		return log.NewLogger(w, level), nil
	case logFormatJSON:
		return log.NewJSONLogger(w, level), nil
	default:
		return nil, fmt.Errorf("unsupported log format %q", format)
	}
}

// buildMatcher compiles the pattern lists and the extra rules of cfg.
func buildMatcher(cfg *config.Config) (*policy.Matcher, error) {
	m, err := policy.New(policy.Lists{
		Follow:   cfg.Follow,
		NoFollow: cfg.NoFollow,
		Download: cfg.Download,
	})
	if err != nil {
		return nil, err
	}
	for _, r := range cfg.Rules {
		if err := m.AddNamed(r.Action, r.Pattern); err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.Pattern, err)
		}
	}
	return m, nil
}

// reportFormat returns the report format selected by --json/--markdown.
func reportFormat(cmd *cobra.Command) (string, error) {
	jsonOut, err := cmd.Flags().GetBool("json")
	if err != nil {
		return "", err
	}
	markdownOut, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return "", err
	}
	switch {
	case jsonOut && markdownOut:
		return "", errors.New("--json and --markdown are mutually exclusive")
	case jsonOut:
		return "json", nil
	case markdownOut:
		return "markdown", nil
	default:
		return "text", nil
	}
}
