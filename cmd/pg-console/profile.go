package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bovinemagnet/pg-console/internal/output"
	"github.com/bovinemagnet/pg-console/internal/profile"
)

func profileCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage and run saved comparison profiles",
	}
	cmd.PersistentFlags().StringVar(&file, "file", "profiles.toml", "profiles TOML file")

	list := &cobra.Command{
		Use:   "list",
		Short: "List saved profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles, err := profile.NewStore(file).List()
			if err != nil {
				return err
			}
			if len(profiles) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no profiles")
				return nil
			}
			for _, p := range profiles {
				line := fmt.Sprintf("%s: %s -> %s", p.Name, p.Source.Schema, p.Destination.Schema)
				if p.LastRun != nil {
					line += fmt.Sprintf(" (last run %s, %d differences)",
						p.LastRunAt.Format("2006-01-02 15:04"), p.LastRun.TotalDifferences())
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}

	var format string
	run := &cobra.Command{
		Use:   "run <name>",
		Short: "Run a saved profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			store := profile.NewStore(file)
			result, err := profile.NewRunner(store, log).Run(cmd.Context(), args[0])
			if err != nil {
				return err
			}

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
	run.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json, or summary")

	cmd.AddCommand(list, run)
	return cmd
}
