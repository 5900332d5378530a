package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/ludonova/internal/client/listing"
	pkgapi "github.com/iudanet/ludonova/pkg/api"
)

// libraryView is the data of libraryListTemplate
type libraryView struct {
	Status pkgapi.GameStatus
	Items  []pkgapi.GameInstance
	Page   int
	Pages  int
	Total  int
}

func (c *Cli) runLibrary(ctx context.Context, args []string) error {
	fs := newFlagSet("library")
	page := fs.Int("page", 1, "page number")
	size := fs.Int("size", listing.DefaultPageSize, "page size")
	statusFlag := fs.String("status", "", "show only games with this status")

	if _, err := parseInterspersed(fs, args); err != nil {
		return err
	}
	if *page < 1 {
		return fmt.Errorf("invalid page: %d", *page)
	}

	var status pkgapi.GameStatus
	if *statusFlag != "" {
		var ok bool
		if status, ok = pkgapi.ParseGameStatus(*statusFlag); !ok {
			return fmt.Errorf("unknown status: %s", *statusFlag)
		}
	}

	// API нумерует страницы с нуля
	resp, err := c.client.ListLibrary(ctx, *page-1, *size)
	if err != nil {
		return err
	}

	items := resp.Content
	if status != "" {
		items = listing.Filter(items, func(gi pkgapi.GameInstance) bool { return gi.Status == status })
	}

	return c.render("library", libraryListTemplate, libraryView{
		Items:  items,
		Status: status,
		Page:   resp.Number + 1,
		Pages:  resp.TotalPages,
		Total:  resp.TotalElements,
	})
}

func (c *Cli) runLibraryAdd(ctx context.Context, args []string) error {
	fs := newFlagSet("library-add")
	statusFlag := fs.String("status", string(pkgapi.GameStatusPlanToPlay), "initial status")
	notes := fs.String("notes", "", "notes")

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if err := requireArgs(positional, 1, "library-add <gameID> [--status STATUS] [--notes TEXT]"); err != nil {
		return err
	}
	gameID, err := parseID("game ID", positional[0])
	if err != nil {
		return err
	}
	status, ok := pkgapi.ParseGameStatus(*statusFlag)
	if !ok {
		return fmt.Errorf("unknown status: %s", *statusFlag)
	}

	input := pkgapi.GameInstanceInput{GameID: gameID, Status: status}
	if *notes != "" {
		input.Notes = notes
	}

	instance, err := c.client.AddToLibrary(ctx, input)
	if err != nil {
		return err
	}

	c.io.Printf("✓ Added %q to your library (entry %d, %s)\n",
		instance.GameTitle, instance.ID, instance.Status.DisplayName())
	return nil
}

func (c *Cli) runLibraryUpdate(ctx context.Context, args []string) error {
	fs := newFlagSet("library-update")
	statusFlag := fs.String("status", "", "new status")
	progress := fs.Int("progress", -1, "progress percentage (0-100)")
	playTime := fs.Int("playtime", -1, "play time in minutes")
	notes := fs.String("notes", "", "notes")

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if err := requireArgs(positional, 1, "library-update <entryID> [--status S] [--progress N] [--playtime MIN] [--notes TEXT]"); err != nil {
		return err
	}
	id, err := parseID("library entry ID", positional[0])
	if err != nil {
		return err
	}

	var input pkgapi.GameInstanceInput
	if *statusFlag != "" {
		status, ok := pkgapi.ParseGameStatus(*statusFlag)
		if !ok {
			return fmt.Errorf("unknown status: %s", *statusFlag)
		}
		input.Status = status
	}
	if *progress >= 0 {
		if *progress > 100 {
			return fmt.Errorf("progress must be between 0 and 100, got %d", *progress)
		}
		input.ProgressPercentage = progress
	}
	if *playTime >= 0 {
		input.PlayTime = playTime
	}
	if *notes != "" {
		input.Notes = notes
	}

	instance, err := c.client.UpdateLibraryEntry(ctx, id, input)
	if err != nil {
		return err
	}

	c.io.Printf("✓ Updated %q: %s, %d%%\n",
		instance.GameTitle, instance.Status.DisplayName(), instance.ProgressPercentage)
	return nil
}

func (c *Cli) runLibraryRemove(ctx context.Context, args []string) error {
	if err := requireArgs(args, 1, "library-remove <entryID>"); err != nil {
		return err
	}
	id, err := parseID("library entry ID", args[0])
	if err != nil {
		return err
	}

	if err := c.client.RemoveFromLibrary(ctx, id); err != nil {
		return err
	}

	c.io.Printf("✓ Library entry %d removed\n", id)
	return nil
}

// statsView is the data of statsTemplate
type statsView struct {
	*pkgapi.LibraryStats
	Statuses []pkgapi.GameStatus
}

func (c *Cli) runStats(ctx context.Context) error {
	stats, err := c.client.LibraryStats(ctx)
	if err != nil {
		return err
	}

	return c.render("stats", statsTemplate, statsView{
		LibraryStats: stats,
		Statuses: []pkgapi.GameStatus{
			pkgapi.GameStatusPlaying,
			pkgapi.GameStatusPlanToPlay,
			pkgapi.GameStatusCompleted,
			pkgapi.GameStatusDropped,
		},
	})
}

func (c *Cli) runSyncSteam(ctx context.Context) error {
	c.io.Println("=== Steam Library Sync ===")
	c.io.Println()
	c.io.Println("Importing games from Steam...")

	games, err := c.client.SyncSteamLibrary(ctx)
	if err != nil {
		return err
	}

	if len(games) == 0 {
		c.io.Println("No new games found.")
		return nil
	}

	c.io.Printf("✓ Imported %d game(s):\n", len(games))
	for _, g := range games {
		c.io.Printf("  - %s\n", g.Title)
	}
	return nil
}
