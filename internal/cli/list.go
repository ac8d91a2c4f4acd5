package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hightemp/countrykit/internal/config"
	"github.com/hightemp/countrykit/internal/countries"
	"github.com/hightemp/countrykit/internal/inclusion"
	"github.com/hightemp/countrykit/internal/output"
	"github.com/hightemp/countrykit/internal/picker"
	"github.com/hightemp/countrykit/internal/search"
	"github.com/hightemp/countrykit/internal/sorting"
	"github.com/spf13/cobra"
)

func runList(cmd *cobra.Command, args []string) error {
	pcfg, err := pickerConfig(cfg)
	if err != nil {
		exitWithCode(ExitInvalidInput, fmt.Sprintf("Error: %v", err))
		return nil
	}
	style, err := output.ParseHighlightStyle(cfg.Highlight)
	if err != nil {
		exitWithCode(ExitInvalidInput, fmt.Sprintf("Error: %v", err))
		return nil
	}

	query := strings.Join(args, " ")
	result, err := list(cmd.Context(), pcfg, query)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if cfg.JSON {
		jsonStr, err := result.FormatJSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, jsonStr)
		return nil
	}
	if len(result.Rows) > 0 {
		fmt.Fprintln(w, result.FormatText(style))
	}
	return nil
}

// pickerConfig translates the runtime configuration into a picker session
// configuration. Searches run without debounce.
func pickerConfig(c *config.Config) (picker.Config, error) {
	opts, err := inclusion.ParseOptions(c.Include)
	if err != nil {
		return picker.Config{}, err
	}
	sortPolicy, err := sorting.Named(c.Sort, catalog.Language(), c.Pin)
	if err != nil {
		return picker.Config{}, err
	}
	searchPolicy, err := search.ParsePolicy(c.Policy)
	if err != nil {
		return picker.Config{}, err
	}
	roster, err := expandCodes(c.Roster)
	if err != nil {
		return picker.Config{}, err
	}
	excluded, err := expandCodes(c.Exclude)
	if err != nil {
		return picker.Config{}, err
	}

	return picker.Config{
		Rules: inclusion.Rules{
			Options:  opts,
			Roster:   roster,
			Excluded: excluded,
		},
		Sort:          sortPolicy,
		Search:        searchPolicy,
		Debounce:      -1,
		ShowWorldwide: c.Worldwide,
		ShowUnknown:   c.Unknown,
	}, nil
}

// expandCodes replaces "@path" entries with the codes listed in that file.
func expandCodes(entries []string) ([]string, error) {
	var codes []string
	for _, e := range entries {
		path, ok := strings.CutPrefix(strings.TrimSpace(e), "@")
		if !ok {
			codes = append(codes, e)
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read code list: %w", err)
		}
		list, err := countries.ParseCodeList(string(data))
		if err != nil {
			return nil, fmt.Errorf("failed to parse code list %s: %w", path, err)
		}
		codes = append(codes, list...)
	}
	return codes, nil
}

// list runs one picker session: the initial load, then query when it is
// not empty.
func list(ctx context.Context, pcfg picker.Config, query string) (*output.ListResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	session := picker.New(catalog, pcfg, picker.WithLogger(logger))
	session.Start(ctx)
	defer session.Close()

	want := picker.Loaded
	if strings.TrimSpace(query) != "" {
		session.Search(query)
		want = picker.Searched
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case ev, ok := <-session.Events():
			if !ok {
				return nil, fmt.Errorf("picker session %s closed early", session.ID())
			}
			if ev.Kind != want {
				continue
			}
			result := &output.ListResult{Query: ev.Query, SearchMode: ev.SearchMode}
			for _, sec := range ev.Sections {
				for _, r := range sec.Results {
					result.Rows = append(result.Rows, output.NewRow(sec.Kind.String(), r))
				}
			}
			if result.Rows == nil {
				result.Rows = []output.Row{}
			}
			return result, nil
		}
	}
}
