package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/sgeraldes/hidock-next-sub000/internal/bootstrap"
	"github.com/sgeraldes/hidock-next-sub000/internal/config"
	"github.com/sgeraldes/hidock-next-sub000/internal/dto"
	"github.com/sgeraldes/hidock-next-sub000/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "cleanup",
		Short: "Review and reclaim storage held by aged recordings",
	}

	var tier string
	var overrides dto.RetentionOverrides
	list := &cobra.Command{
		Use:   "list",
		Short: "List recordings past their tier's retention",
		Long: `List every tiered recording older than its tier's retention window,
oldest first. Retention can be overridden per tier for one run.

Examples:
  cleanup list
  cleanup list --tier cold
  cleanup list --hot-days 30`,
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := open()
			if err != nil {
				return err
			}
			defer container.Close()

			ctx := context.Background()
			var suggestions []dto.CleanupSuggestionResponse
			if tier != "" {
				suggestions, err = container.StorageService.GetCleanupSuggestionsForTier(ctx, tier, &overrides)
			} else {
				suggestions, err = container.StorageService.GetCleanupSuggestions(ctx, &overrides)
			}
			if err != nil {
				return err
			}

			displaySuggestions(suggestions)
			return nil
		},
	}
	list.Flags().StringVar(&tier, "tier", "", "only this tier (hot, warm, cold, archive)")
	list.Flags().IntVar(&overrides.HotDays, "hot-days", 0, "override hot retention")
	list.Flags().IntVar(&overrides.WarmDays, "warm-days", 0, "override warm retention")
	list.Flags().IntVar(&overrides.ColdDays, "cold-days", 0, "override cold retention")
	list.Flags().IntVar(&overrides.ArchiveDays, "archive-days", 0, "override archive retention")

	var archive bool
	execute := &cobra.Command{
		Use:   "execute <recording-id>...",
		Short: "Delete local copies, or archive with --archive",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]uuid.UUID, 0, len(args))
			for _, arg := range args {
				id, err := uuid.Parse(arg)
				if err != nil {
					return fmt.Errorf("invalid recording id %q: %w", arg, err)
				}
				ids = append(ids, id)
			}

			container, err := open()
			if err != nil {
				return err
			}
			defer container.Close()

			res, err := container.StorageService.ExecuteCleanup(context.Background(), &dto.ExecuteCleanupRequest{
				RecordingIds: ids,
				Archive:      archive,
			})
			if err != nil {
				return err
			}

			for _, id := range res.Deleted {
				color.Green("deleted   %s", id)
			}
			for _, id := range res.Archived {
				color.Green("archived  %s", id)
			}
			for _, f := range res.Failed {
				color.Red("failed    %s: %s", f.Id, f.Reason)
			}
			return nil
		},
	}
	execute.Flags().BoolVar(&archive, "archive", false, "move to the archive tier instead of deleting the local copy")

	root.AddCommand(list, execute)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func open() (*bootstrap.Container, error) {
	cfg := config.Load()
	db, err := database.Open(cfg.Database.Driver, cfg.Database.Connection)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return bootstrap.NewContainer(db, cfg)
}

func displaySuggestions(suggestions []dto.CleanupSuggestionResponse) {
	if len(suggestions) == 0 {
		color.Green("Nothing to clean up.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFILENAME\tTIER\tQUALITY\tAGE\tLOCAL\tREASON")
	var reclaimable int64
	for _, s := range suggestions {
		quality := "-"
		if s.Quality != nil {
			quality = *s.Quality
		}
		local := color.New(color.FgHiBlack).Sprint("no")
		if s.OnLocal {
			local = color.New(color.FgYellow).Sprint("yes")
			reclaimable += s.FileSize
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%dd\t%s\t%s\n", s.RecordingId, s.Filename, s.Tier, quality, s.AgeInDays, local, s.Reason)
	}
	w.Flush()

	color.Cyan("\n%d recording(s), %d bytes held locally", len(suggestions), reclaimable)
}
