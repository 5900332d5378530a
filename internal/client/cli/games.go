package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/iudanet/ludonova/internal/client/listing"
	pkgapi "github.com/iudanet/ludonova/pkg/api"
)

// gamesView is the data of gamesListTemplate
type gamesView struct {
	Query  string
	Pages  []int
	Result listing.Page[pkgapi.Game]
}

func (c *Cli) runGames(ctx context.Context, args []string) error {
	fs := newFlagSet("games")
	sortBy := fs.String("sort", "title", "sort key: title, rating, release")
	desc := fs.Bool("desc", false, "descending order")
	page := fs.Int("page", 1, "page number")
	size := fs.Int("size", listing.DefaultPageSize, "page size")

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	query := strings.Join(positional, " ")

	games, err := c.client.ListGames(ctx)
	if err != nil {
		return err
	}

	games = listing.Search(games, query, func(g pkgapi.Game) []string {
		return append([]string{g.Title, g.Description}, g.Genres...)
	})

	dir := listing.Asc
	if *desc {
		dir = listing.Desc
	}
	switch *sortBy {
	case "title":
		games = listing.SortBy(games, func(g pkgapi.Game) string { return strings.ToLower(g.Title) }, dir)
	case "rating":
		games = listing.SortBy(games, func(g pkgapi.Game) float64 { return g.Rating }, dir)
	case "release":
		games = listing.SortBy(games, func(g pkgapi.Game) string {
			if g.ReleaseDate == nil {
				return ""
			}
			return *g.ReleaseDate
		}, dir)
	default:
		return fmt.Errorf("unknown sort key: %s. Use: title, rating, release", *sortBy)
	}

	p := listing.Paginate(games, *page, *size)
	return c.render("games", gamesListTemplate, gamesView{
		Query:  query,
		Result: p,
		Pages:  listing.PageNumbers(p.Page, p.TotalPages),
	})
}

// gameView is the data of gameDetailsTemplate
type gameView struct {
	Game    *pkgapi.Game
	Reviews []pkgapi.Review
	Average float64
}

func (c *Cli) runGame(ctx context.Context, args []string) error {
	if err := requireArgs(args, 1, "game <id>"); err != nil {
		return err
	}
	id, err := parseID("game ID", args[0])
	if err != nil {
		return err
	}

	game, err := c.client.GetGame(ctx, id)
	if err != nil {
		return err
	}

	reviews, err := c.client.ListGameReviews(ctx, id)
	if err != nil {
		// отзывы не обязательны для карточки игры
		c.logger.Warn("failed to load reviews", "game_id", id, "error", err)
	}

	view := gameView{Game: game, Reviews: reviews}
	if len(reviews) > 0 {
		sum := 0
		for _, r := range reviews {
			sum += r.Rating
		}
		view.Average = float64(sum) / float64(len(reviews))
	}

	return c.render("game", gameDetailsTemplate, view)
}
