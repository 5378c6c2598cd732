package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"seedtracker-api/internal/config"
	"seedtracker-api/internal/normalize"
	"seedtracker-api/internal/observability"
	"seedtracker-api/internal/repository"
	"seedtracker-api/internal/service"
)

func newLoadCmd() *cobra.Command {
	var configDir, speciesPath, collectionsPath string

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Replace the dataset from the source spreadsheets",
		Long: `Read the species and collection sheets (.csv or .xlsx), normalize them
and replace both tables in one transaction.

Paths default to the data section of the config.

Examples:
  importer load
  importer load --species data/cultivationinfo.xlsx --collections data/seedcollection.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(configDir)
			if err != nil {
				return err
			}
			if speciesPath == "" {
				speciesPath = cfg.Data.SpeciesPath()
			}
			if collectionsPath == "" {
				collectionsPath = cfg.Data.CollectionsPath()
			}

			logger := observability.NewLogger(cfg.Log.Level, cfg.Log.Format)
			hemispheres, err := cfg.Coordinates.Defaults()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := repository.Open(ctx, cfg.Database.Driver, cfg.Database.Source)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer store.Close()

			svc := service.NewCollectionService(store,
				service.WithNormalizer(normalize.New(
					normalize.WithHemispheres(hemispheres),
					normalize.WithWorkers(cfg.Normalize.Workers),
				)),
				service.WithLogger(logger),
				service.WithTimeouts(cfg.Database.QueryTimeout, cfg.Database.ReloadTimeout),
			)

			result, err := svc.LoadFiles(ctx, speciesPath, collectionsPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			st := result.CollectionStats
			fmt.Fprintf(out, "Loaded %d species and %d collections\n", result.Species, result.Collections)
			fmt.Fprintf(out, "  coordinates: %d parsed, %d invalid, %d missing\n",
				st.CoordinatesParsed, st.CoordinatesInvalid, st.CoordinatesMissing)
			fmt.Fprintf(out, "  degraded fields: %d numbers, %d dates\n", st.InvalidNumbers, st.InvalidDates)
			return nil
		},
	}

	cmd.Flags().StringVar(&configDir, "config", "./configs", "directory containing app.yaml")
	cmd.Flags().StringVar(&speciesPath, "species", "", "species sheet (.csv or .xlsx)")
	cmd.Flags().StringVar(&collectionsPath, "collections", "", "collection sheet (.csv or .xlsx)")
	return cmd
}
