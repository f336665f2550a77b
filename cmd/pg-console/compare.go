package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bovinemagnet/pg-console/internal/compare"
	"github.com/bovinemagnet/pg-console/internal/output"
	"github.com/bovinemagnet/pg-console/internal/profile"
)

// errBreakingChanges makes `pg-console compare` usable as a CI gate:
// a run that finds breaking differences exits non-zero.
var errBreakingChanges = errors.New("breaking changes detected")

func compareCmd() *cobra.Command {
	var (
		sourceDSN    string
		destDSN      string
		sourceSchema string
		destSchema   string
		format       string
		filter       compare.Filter
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare two live schemas and report structural differences",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if destSchema == "" {
				destSchema = sourceSchema
			}

			p := &profile.Profile{
				Source:      profile.Endpoint{DSN: sourceDSN, Schema: sourceSchema},
				Destination: profile.Endpoint{DSN: destDSN, Schema: destSchema},
				Filter:      filter,
			}

			result := profile.NewRunner(nil, log).RunProfile(cmd.Context(), p)

			formatter, err := output.NewFormatter(format)
			if err != nil {
				return err
			}
			text, err := formatter.Format(result)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)

			if !result.Success {
				return errors.New(result.ErrorMessage)
			}
			if result.HasBreakingChanges() {
				return errBreakingChanges
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceDSN, "source-dsn", "", "source instance connection string")
	cmd.Flags().StringVar(&destDSN, "dest-dsn", "", "destination instance connection string")
	cmd.Flags().StringVar(&sourceSchema, "source-schema", "public", "schema to snapshot on the source")
	cmd.Flags().StringVar(&destSchema, "dest-schema", "", "schema to snapshot on the destination (defaults to source schema)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json, or summary")

	cmd.Flags().StringSliceVar(&filter.Schemas, "schemas", nil, "restrict comparison to these schemas")
	cmd.Flags().StringSliceVar(&filter.ExcludeTables, "exclude-table", nil, "tables to exclude from the comparison")
	cmd.Flags().BoolVar(&filter.SkipIndexes, "skip-indexes", false, "do not compare indexes")
	cmd.Flags().BoolVar(&filter.SkipConstraints, "skip-constraints", false, "do not compare constraints")
	cmd.Flags().BoolVar(&filter.SkipTriggers, "skip-triggers", false, "do not compare triggers")
	cmd.Flags().BoolVar(&filter.SkipSequences, "skip-sequences", false, "do not compare sequences")

	_ = cmd.MarkFlagRequired("source-dsn")
	_ = cmd.MarkFlagRequired("dest-dsn")

	return cmd
}
