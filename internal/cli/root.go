// Package cli implements the command-line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/hightemp/countrykit/internal/config"
	"github.com/hightemp/countrykit/internal/countries"
	"github.com/hightemp/countrykit/internal/logging"
	"github.com/hightemp/countrykit/internal/metadata"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
)

var (
	// Version information (set at build time)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Global state, set up before any command runs.
var (
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
	catalog    *countries.Catalog
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "countrykit [query]",
	Short: "Country catalog - list, filter and sort countries and territories",
	Long: `countrykit lists the countries and territories a country picker offers,
filtered by category and free text and sorted by name, code, area or time zone.

List every sovereign state, largest first:
  countrykit --include sovereign --sort area

Search, requiring every term:
  countrykit --policy and new zealand

Show one country:
  countrykit show NZ

Resolve codes and locales from stdin:
  cat ids.txt | countrykit lookup`,
	Args:              cobra.ArbitraryArgs,
	PersistentPreRunE: setup,
	RunE:              runList,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	d := config.DefaultConfig()

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file (default: countrykit.yaml in the user config dir or working dir)")
	pf.String(config.KeyLang, d.Lang, "language of country names (BCP 47 tag)")
	pf.String(config.KeyResources, "", "directory with locales.csv and wiki.csv overriding the bundled metadata")
	pf.Bool(config.KeyJSON, false, "output in JSON format")
	pf.String(config.KeyLogLevel, d.LogLevel, "log level: debug, info, warn or error")

	// List-specific flags
	f := rootCmd.Flags()
	f.String(config.KeyInclude, d.Include, "categories to offer: all, sovereign, commonwealth, dependent, unpopulated, disputed")
	f.StringSlice(config.KeyRoster, nil, "offer only these alpha-2 codes (@file reads one code per line)")
	f.StringSlice(config.KeyExclude, nil, "never offer these alpha-2 codes (@file reads one code per line)")
	f.String(config.KeySort, d.Sort, "sort policy: name, alpha2, area, timezone or pinned")
	f.StringSlice(config.KeyPin, d.Pin, "alpha-2 codes listed first by the pinned sort")
	f.String(config.KeyPolicy, d.Policy, "search policy: or (any term) or and (every term)")
	f.String(config.KeyHighlight, d.Highlight, "match highlighting: none, brackets or ansi")
	f.Bool(config.KeyWorldwide, false, "offer the Worldwide entry")
	f.Bool(config.KeyUnknown, false, "offer the Unknown entry")

	// Add subcommands
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads the configuration, installs the logger and builds the
// enriched catalog.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cmd, configPath)
	if err != nil {
		exitWithCode(ExitInvalidInput, fmt.Sprintf("Error: %v", err))
		return nil
	}

	logger, err = logging.Setup(cfg.LogLevel)
	if err != nil {
		exitWithCode(ExitInvalidInput, fmt.Sprintf("Error: %v", err))
		return nil
	}

	tag, err := language.Parse(strings.ReplaceAll(cfg.Lang, "_", "-"))
	if err != nil {
		exitWithCode(ExitInvalidInput, fmt.Sprintf("Invalid language %q: %v", cfg.Lang, err))
		return nil
	}

	catalog = buildCatalog(tag, cfg.Resources, logger)
	return nil
}

func buildCatalog(tag language.Tag, resources string, logger *slog.Logger) *countries.Catalog {
	base := countries.New(countries.WithLanguage(tag), countries.WithLogger(logger))

	var provider metadata.Provider = metadata.EmbeddedProvider{}
	if resources != "" {
		provider = metadata.FallbackProvider{metadata.DirProvider{Dir: resources}, metadata.EmbeddedProvider{}}
	}

	loader := metadata.NewLoader(base, metadata.WithLogger(logger))
	loader.Load(provider)
	stats := loader.Stats()
	logger.Debug("metadata loaded",
		"language", tag.String(),
		"wiki", stats.WikiRows,
		"wiki_skipped", stats.WikiSkipped,
		"locales", stats.LocaleRows,
		"locales_skipped", stats.LocalesSkipped,
	)
	return loader.Apply()
}

// ExitCode constants
const (
	ExitSuccess      = 0
	ExitInvalidInput = 2
	ExitNotFound     = 4
)

func exitWithCode(code int, msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(code)
}
