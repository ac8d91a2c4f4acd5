package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/hightemp/countrykit/internal/batch"
	"github.com/hightemp/countrykit/internal/config"
	"github.com/hightemp/countrykit/internal/output"
	"github.com/spf13/cobra"
)

var concurrency int

var showCmd = &cobra.Command{
	Use:   "show CODE",
	Short: "Show the details of one country",
	Long: `Show the details of one country. CODE is an alpha-2 code, an alpha-3
code or a locale such as en_GB. WW shows the Worldwide entry.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

var lookupCmd = &cobra.Command{
	Use:   "lookup [id...]",
	Short: "Resolve country codes and locales",
	Long: `Resolve alpha-2 codes, alpha-3 codes and locales to countries.

Identifiers are taken from the arguments, or from stdin one per line:
  cat ids.txt | countrykit lookup`,
	RunE: runLookup,
}

func init() {
	lookupCmd.Flags().IntVar(&concurrency, "concurrency", config.DefaultConcurrency, "number of concurrent lookups (1 streams results line by line)")
}

func runShow(cmd *cobra.Command, args []string) error {
	c := catalog.FindAny(args[0])
	if c.IsUnknown() {
		exitWithCode(ExitNotFound, fmt.Sprintf("Unknown country: %s", args[0]))
		return nil
	}

	w := cmd.OutOrStdout()
	if cfg.JSON {
		jsonStr, err := output.FormatCountryJSON(c)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, jsonStr)
		return nil
	}
	fmt.Fprintln(w, output.FormatCountry(c))
	return nil
}

func runLookup(cmd *cobra.Command, args []string) error {
	processor := batch.NewProcessor(catalog, batch.WithConcurrency(concurrency), batch.WithLogger(logger))

	if len(args) > 0 {
		input := strings.NewReader(strings.Join(args, "\n"))
		return processor.Process(cmd.Context(), input, cmd.OutOrStdout(), cfg.JSON)
	}

	// Check if stdin is a terminal
	stat, _ := os.Stdin.Stat()
	if (stat.Mode() & os.ModeCharDevice) != 0 {
		// stdin is a terminal, show help
		return cmd.Help()
	}

	// Batch mode from stdin
	return processor.Process(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), cfg.JSON)
}
