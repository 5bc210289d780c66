package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"zoohousing/internal/adapters/httpapi"
	"zoohousing/internal/catalog/codec"
	"zoohousing/internal/catalog/sqlite"
	"zoohousing/internal/core"
)

func evaluateCommand(app *App) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "evaluate SPECIES QUANTITY",
		Short: "List enclosures able to take the animals",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := app.Service.ParseRequest(args[0], args[1])
			if err != nil {
				return err
			}
			placements, err := app.Service.FindViableEnclosures(cmd.Context(), args[0], quantity)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(httpapi.PlacementsResponse{Viable: core.FormatPlacements(placements), Placements: placements})
			}
			for _, line := range core.FormatPlacements(placements) {
				if _, err := fmt.Fprintln(out, line); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}

func explainCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "explain SPECIES QUANTITY",
		Short: "Show the verdict of every enclosure",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := app.Service.ParseRequest(args[0], args[1])
			if err != nil {
				return err
			}
			assessments, err := app.Service.AssessEnclosures(cmd.Context(), args[0], quantity)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RECINTO\tBIOMA\tTOTAL\tOCUPADO\tLIVRE\tVIAVEL\tREGRA")
			for _, a := range assessments {
				rule := "-"
				if a.Violation != nil {
					rule = a.Violation.Rule
				}
				fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%t\t%s\n", a.EnclosureID, a.Biome, a.TotalCapacity, a.OccupiedSpace, a.FreeSpace, a.Viable, rule)
			}
			return tw.Flush()
		},
	}
}

func serveCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			e := httpapi.NewHandler(app.Service, app.Logger, app.Registry).NewServer()
			errCh := make(chan error, 1)
			go func() {
				app.Logger.Info("http server listening", zap.String("addr", app.Config.HTTP.Addr))
				errCh <- e.Start(app.Config.HTTP.Addr)
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			app.Logger.Info("http server shutting down")
			return e.Shutdown(shutdownCtx)
		},
	}
}

func catalogCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect or export the reference catalog",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the loaded catalog as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return codec.Encode(cmd.OutOrStdout(), app.Service.Catalog())
		},
	})

	var sqlitePath string
	seed := &cobra.Command{
		Use:   "seed",
		Short: "Write the loaded catalog into a SQLite reference database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, err := sqlite.Open(cmd.Context(), sqlitePath)
			if err != nil {
				return err
			}
			defer func() { _ = src.Close() }()
			if err := src.Seed(cmd.Context(), app.Service.Catalog()); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "catalog written to %s\n", sqlitePath)
			return err
		},
	}
	seed.Flags().StringVar(&sqlitePath, "sqlite", "zoo.db", "Destination SQLite file")
	cmd.AddCommand(seed)
	return cmd
}
