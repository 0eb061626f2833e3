package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/docopt/docopt-go"
	"github.com/joho/godotenv"

	"spws/application"
	"spws/database"
	"spws/domain/contracts"
	"spws/infrastructure/config"
	"spws/infrastructure/export"
	infrafactories "spws/infrastructure/factories"
	"spws/infrastructure/repositories"
	"spws/interfaces/web/presenters"
	"spws/logging"
	"spws/spauth"
)

const SpwsCtlVersion = "0.1.0"

const usage = `SharePoint Lists control.

Credentials and site are read from the environment (or .env):
    SP_AUTH_STRATEGY, SP_SITE_URL, SP_TENANT_ID, SP_CLIENT_ID, ...

Usage:
    spwsctl lists [--hidden] [--search=<text>]
    spwsctl list <list>
    spwsctl items <list> [--view=<view>] [--row-limit=<n>] [--folder=<folder>]
        [--caml=<file>] [--no-recursive] [--no-utc]
    spwsctl update <list> <mutations> [--on-error=<policy>] [--view=<view>]
        [--list-version=<version>]
    spwsctl export <list> <out> [--view=<view>] [--row-limit=<n>]
    spwsctl download <fileref> <out>
    spwsctl snapshot <list> [--view=<view>]
    spwsctl snapshots <list> [--limit=<n>]
    spwsctl changes <list>

Options:
    -h --help                 Show this screen.
    --version                 Show version.
    --hidden                  Include hidden lists.
    --search=<text>           Only lists whose title or name contains text.
    --view=<view>             View name or GUID.
    --row-limit=<n>           Maximum rows to return [default: 0].
    --folder=<folder>         Folder to query instead of the list root.
    --caml=<file>             File holding a <Query> fragment.
    --no-recursive            Do not descend into subfolders.
    --no-utc                  Return dates in the site's time zone.
    --on-error=<policy>       Continue or Return [default: Continue].
    --list-version=<version>  Expected list version for the batch.
    --limit=<n>               Maximum snapshots to show [default: 20].`

func main() {
	opts, err := docopt.ParseArgs(usage, os.Args[1:], SpwsCtlVersion)
	if err != nil {
		panic(err)
	}

	godotenv.Load()
	cfg := config.LoadAppConfigFromEnv()
	logging.SetDefault(logging.NewLogger(cfg.Logging))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c, closeFn, err := newCLI(cfg, needsDatabase(opts))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeFn()

	if err := c.run(ctx, opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func needsDatabase(opts docopt.Opts) bool {
	for _, cmd := range []string{"snapshot", "snapshots", "changes"} {
		if on, _ := opts.Bool(cmd); on {
			return true
		}
	}
	return false
}

func newCLI(cfg *config.AppConfig, withDatabase bool) (*cli, func(), error) {
	authCfg, err := spauth.FromEnv()
	if err != nil {
		return nil, nil, err
	}
	client, err := infrafactories.NewListsService(cfg.SharePoint, authCfg)
	if err != nil {
		return nil, nil, err
	}

	closeFn := func() {}
	var snapshots contracts.SnapshotRepository
	if withDatabase {
		db, err := database.New(*cfg.Database, logging.Default())
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		closeFn = func() { db.Close() }
		snapshots = repositories.NewSqliteSnapshotRepository(db)
	}

	service := application.NewListItemsService(client, snapshots, export.NewXLSXWriter())
	return &cli{
		service:   service,
		client:    client,
		presenter: presenters.NewListPresenter(),
		out:       os.Stdout,
	}, closeFn, nil
}
