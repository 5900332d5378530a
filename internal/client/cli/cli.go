package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"text/template"

	"github.com/iudanet/ludonova/internal/client/api"
	"github.com/iudanet/ludonova/internal/client/auth"
	"github.com/iudanet/ludonova/internal/client/iocli"
	pkgapi "github.com/iudanet/ludonova/pkg/api"
)

// Client is the part of the API client the commands use
type Client interface {
	ListGames(ctx context.Context) ([]pkgapi.Game, error)
	GetGame(ctx context.Context, id int64) (*pkgapi.Game, error)

	ListLibrary(ctx context.Context, page, size int) (*pkgapi.Page[pkgapi.GameInstance], error)
	AddToLibrary(ctx context.Context, input pkgapi.GameInstanceInput) (*pkgapi.GameInstance, error)
	UpdateLibraryEntry(ctx context.Context, id int64, input pkgapi.GameInstanceInput) (*pkgapi.GameInstance, error)
	RemoveFromLibrary(ctx context.Context, id int64) error
	LibraryStats(ctx context.Context) (*pkgapi.LibraryStats, error)
	SyncSteamLibrary(ctx context.Context) ([]pkgapi.Game, error)

	ListUserReviews(ctx context.Context, page, size int, gameID int64) (*pkgapi.Page[pkgapi.Review], error)
	ListGameReviews(ctx context.Context, gameID int64) ([]pkgapi.Review, error)
	CreateReview(ctx context.Context, input pkgapi.ReviewInput) (*pkgapi.Review, error)
	DeleteReview(ctx context.Context, id int64) error

	ListUsers(ctx context.Context) (*pkgapi.Page[pkgapi.User], error)
	DeleteUser(ctx context.Context, id int64) error
}

var _ Client = (*api.Client)(nil)

type Cli struct {
	io          iocli.IO
	authService auth.Service
	client      Client
	logger      *slog.Logger
}

func New(io iocli.IO, authService auth.Service, client Client, logger *slog.Logger) *Cli {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cli{
		io:          io,
		authService: authService,
		client:      client,
		logger:      logger,
	}
}

// Run выполняет команду. Ошибка истекшей сессии уже показана пользователю
// через LoginNotice, поэтому здесь она только дополняется подсказкой.
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	err := c.dispatch(ctx, command, args)
	if errors.Is(err, api.ErrAuthenticationExpired) {
		return fmt.Errorf("%w (run 'ludonova login')", err)
	}
	return err
}

func (c *Cli) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return c.runRegister(ctx)
	case "login":
		return c.runLogin(ctx, args)
	case "steam-login":
		return c.runSteamLogin(ctx)
	case "steam-callback":
		return c.runSteamCallback(ctx, args)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx)
	case "games":
		return c.runGames(ctx, args)
	case "game":
		return c.runGame(ctx, args)
	case "library":
		return c.runLibrary(ctx, args)
	case "library-add":
		return c.runLibraryAdd(ctx, args)
	case "library-update":
		return c.runLibraryUpdate(ctx, args)
	case "library-remove":
		return c.runLibraryRemove(ctx, args)
	case "stats":
		return c.runStats(ctx)
	case "sync-steam":
		return c.runSyncSteam(ctx)
	case "reviews":
		return c.runReviews(ctx, args)
	case "review-add":
		return c.runReviewAdd(ctx, args)
	case "review-delete":
		return c.runReviewDelete(ctx, args)
	case "users":
		return c.runUsers(ctx)
	case "user-delete":
		return c.runUserDelete(ctx, args)
	case "help":
		return c.PrintUsage()
	default:
		_ = c.PrintUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

// PrintUsage печатает справку
func (c *Cli) PrintUsage() error {
	return c.render("usage", usageTemplate, nil)
}

func (c *Cli) render(name, text string, data any) error {
	tmpl, err := template.New(name).Funcs(templateFuncs).Parse(text)
	if err != nil {
		return fmt.Errorf("failed to parse %s template: %w", name, err)
	}
	if err := tmpl.Execute(c.io, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	return nil
}

// requireAdmin проверяет роль по сохраненной сессии; сервер все равно проверит сам
func (c *Cli) requireAdmin(ctx context.Context) error {
	cur, err := c.authService.Current(ctx)
	if err != nil {
		return err
	}
	if !cur.Authenticated {
		return fmt.Errorf("not authenticated. Please run 'ludonova login' first")
	}
	if !cur.User.IsAdmin() {
		return fmt.Errorf("this command requires the %s role", pkgapi.RoleAdmin)
	}
	return nil
}
