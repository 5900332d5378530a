package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/iudanet/ludonova/internal/client/listing"
	"github.com/iudanet/ludonova/internal/validation"
	pkgapi "github.com/iudanet/ludonova/pkg/api"
)

// reviewsView is the data of reviewsListTemplate
type reviewsView struct {
	Title   string
	Reviews []pkgapi.Review
}

// runReviews показывает отзывы об игре, а без аргументов - собственные отзывы
func (c *Cli) runReviews(ctx context.Context, args []string) error {
	if len(args) == 0 {
		page, err := c.client.ListUserReviews(ctx, 0, listing.DefaultPageSize, 0)
		if err != nil {
			return err
		}
		return c.render("reviews", reviewsListTemplate, reviewsView{
			Title:   "My Reviews",
			Reviews: page.Content,
		})
	}

	gameID, err := parseID("game ID", args[0])
	if err != nil {
		return err
	}

	reviews, err := c.client.ListGameReviews(ctx, gameID)
	if err != nil {
		return err
	}

	reviews = listing.SortBy(reviews, func(r pkgapi.Review) int64 { return r.CreatedAt.Unix() }, listing.Desc)
	return c.render("reviews", reviewsListTemplate, reviewsView{
		Title:   "Reviews for game " + strconv.FormatInt(gameID, 10),
		Reviews: reviews,
	})
}

func (c *Cli) runReviewAdd(ctx context.Context, args []string) error {
	if err := requireArgs(args, 3, "review-add <gameID> <rating 1-5> <text>"); err != nil {
		return err
	}
	gameID, err := parseID("game ID", args[0])
	if err != nil {
		return err
	}
	rating, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid rating: %q", args[1])
	}
	if err := validation.ValidateRating(rating); err != nil {
		return err
	}

	review, err := c.client.CreateReview(ctx, pkgapi.ReviewInput{
		GameID:  gameID,
		Rating:  rating,
		Content: strings.Join(args[2:], " "),
	})
	if err != nil {
		return err
	}

	c.io.Printf("✓ Review %d published\n", review.ID)
	return nil
}

func (c *Cli) runReviewDelete(ctx context.Context, args []string) error {
	if err := requireArgs(args, 1, "review-delete <reviewID>"); err != nil {
		return err
	}
	id, err := parseID("review ID", args[0])
	if err != nil {
		return err
	}

	if err := c.client.DeleteReview(ctx, id); err != nil {
		return err
	}

	c.io.Printf("✓ Review %d deleted\n", id)
	return nil
}
