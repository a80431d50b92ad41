package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/rostersync/internal/core"
	"github.com/JonMunkholm/rostersync/internal/roster"
)

type exportOptions struct {
	sheetID string
	tab     string
	records string
	runID   string
	mapping []string
	preset  string
	owner   string
	colors  []string
	xlsx    string
	json    bool
}

func exportCmd() *cobra.Command {
	var opts exportOptions
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write records to a spreadsheet tab or an xlsx file",
		Example: `  rostersync import --file ward10.csv -m lastName=B -m mrn=C --json > ward10.json
  rostersync export --records ward10.json --sheet 1AbC... --tab "Ward 10" -m lastName=A -m mrn=B
  rostersync export --records ward10.json --xlsx ward10.xlsx -m lastName=A --color "Dr. Smith=#1E88E5"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.sheetID, "sheet", "", "destination spreadsheet id")
	f.StringVar(&opts.tab, "tab", "", "destination tab (default from SHEETS_DEFAULT_TAB)")
	f.StringVar(&opts.records, "records", "", "JSON file with records or an import result")
	f.StringVar(&opts.runID, "run", "", "re-export the records of a stored import run")
	f.StringArrayVarP(&opts.mapping, "map", "m", nil, "field=Column mapping entry (repeatable)")
	f.StringVar(&opts.preset, "preset", "", "mapping preset id, used when no --map is given")
	f.StringVar(&opts.owner, "owner", "", "use the stored doctor colors of this user")
	f.StringArrayVar(&opts.colors, "color", nil, "Physician=#RRGGBB doctor color (repeatable)")
	f.StringVar(&opts.xlsx, "xlsx", "", "write a local workbook instead of a spreadsheet")
	f.BoolVar(&opts.json, "json", false, "print the result as JSON")
	cmd.MarkFlagsMutuallyExclusive("records", "run")
	cmd.MarkFlagsMutuallyExclusive("sheet", "xlsx")
	return cmd
}

func parseColors(entries []string) (map[string]string, error) {
	colors := make(map[string]string, len(entries))
	for _, e := range entries {
		physician, hex, ok := strings.Cut(e, "=")
		if !ok || strings.TrimSpace(physician) == "" {
			return nil, fmt.Errorf("invalid color %q: expected Physician=#RRGGBB", e)
		}
		colors[strings.TrimSpace(physician)] = strings.TrimSpace(hex)
	}
	return colors, nil
}

func runExport(cmd *cobra.Command, opts exportOptions) error {
	if opts.sheetID == "" && opts.xlsx == "" {
		return errors.New("one of --sheet or --xlsx is required")
	}

	req := core.ExportRequest{
		SpreadsheetID: opts.sheetID,
		Tab:           opts.tab,
		PresetID:      opts.preset,
		RunID:         opts.runID,
		Owner:         opts.owner,
	}
	if len(opts.mapping) > 0 {
		m, err := roster.ParseMapping(opts.mapping)
		if err != nil {
			return err
		}
		req.Mapping = m
	}
	colors, err := parseColors(opts.colors)
	if err != nil {
		return err
	}
	req.DoctorColors = colors

	if opts.records != "" {
		data, err := os.ReadFile(opts.records)
		if err != nil {
			return err
		}
		if req.Records, err = readRecords(data); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if opts.xlsx != "" {
		f, err := os.Create(opts.xlsx)
		if err != nil {
			return err
		}
		n, err := a.Service.ExportXLSX(ctx, f, req)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return userError(err)
		}
		slog.Info("workbook written", "path", opts.xlsx, "rows", n)
		return nil
	}

	out, err := a.Service.Export(ctx, req)
	if err != nil {
		return userError(err)
	}
	if opts.json {
		if err := printJSON(cmd.OutOrStdout(), out); err != nil {
			return err
		}
	}
	if !out.Result.Success {
		return userError(errors.New(out.Result.Error))
	}
	if !opts.json {
		fmt.Fprintf(cmd.OutOrStdout(), "run %s: wrote %d rows to %s\n", out.Run.ID, out.Result.RowsWritten, out.Run.Tab)
	}
	return nil
}
