package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/rostersync/internal/core"
	"github.com/JonMunkholm/rostersync/internal/roster"
)

type importOptions struct {
	sheetID   string
	gid       string
	rng       string
	file      string
	worksheet string
	mapping   []string
	preset    string
	json      bool
}

func importCmd() *cobra.Command {
	var opts importOptions
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a roster from a spreadsheet or a local file",
		Example: `  rostersync import --sheet 1AbC... --map bedNumber=A --map lastName=B --map mrn=C
  rostersync import --file ward10.xlsx --worksheet Nights --preset 6f1c...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.sheetID, "sheet", "", "spreadsheet id to fetch")
	f.StringVar(&opts.gid, "gid", "", "tab id for the public csv export")
	f.StringVar(&opts.rng, "range", "", "A1 range or tab name for the authenticated api")
	f.StringVar(&opts.file, "file", "", "local csv, tsv or xlsx file")
	f.StringVar(&opts.worksheet, "worksheet", "", "worksheet to read from an xlsx file")
	f.StringArrayVarP(&opts.mapping, "map", "m", nil, "field=Column mapping entry (repeatable)")
	f.StringVar(&opts.preset, "preset", "", "mapping preset id, used when no --map is given")
	f.BoolVar(&opts.json, "json", false, "print the result as JSON")
	cmd.MarkFlagsMutuallyExclusive("sheet", "file")
	return cmd
}

func runImport(cmd *cobra.Command, opts importOptions) error {
	if opts.sheetID == "" && opts.file == "" {
		return errors.New("one of --sheet or --file is required")
	}

	var mapping roster.Mapping
	if len(opts.mapping) > 0 {
		m, err := roster.ParseMapping(opts.mapping)
		if err != nil {
			return err
		}
		mapping = m
	}

	ctx := cmd.Context()
	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	var res *core.ImportResult
	if opts.file != "" {
		f, err := os.Open(opts.file)
		if err != nil {
			return err
		}
		defer f.Close()

		res, err = a.Service.ImportFile(ctx, core.FileImportRequest{
			FileName: filepath.Base(opts.file),
			Sheet:    opts.worksheet,
			Mapping:  mapping,
			PresetID: opts.preset,
		}, f)
		if err != nil {
			return userError(err)
		}
	} else {
		res, err = a.Service.Import(ctx, core.ImportRequest{
			SpreadsheetID: opts.sheetID,
			GID:           opts.gid,
			Range:         opts.rng,
			Mapping:       mapping,
			PresetID:      opts.preset,
		})
		if err != nil {
			return userError(err)
		}
	}

	if opts.json {
		return printJSON(cmd.OutOrStdout(), res)
	}
	return printImport(cmd.OutOrStdout(), res)
}

// userError swaps a recognized err for its mapped message, code and action.
// Unrecognized errors pass through unchanged.
func userError(err error) error {
	if !core.IsUserFacing(err) {
		return err
	}
	return cliError{core.NewUserError(err)}
}

// cliError prints the formatted user message followed by the technical
// error. errors.As reaches the UserError and errors.Is the technical error.
type cliError struct {
	*core.UserError
}

func (e cliError) Error() string {
	return core.FormatUserError(e.Technical) + "\n" + e.Technical.Error()
}

func (e cliError) Unwrap() error { return e.UserError }
