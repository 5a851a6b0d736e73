package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/adapters/db/memory"
	sqliteadapter "github.com/AbanoubGhadban/rsc-migration-patterns/internal/adapters/db/sqlite"
	httpadapter "github.com/AbanoubGhadban/rsc-migration-patterns/internal/adapters/http"
	rpcadapter "github.com/AbanoubGhadban/rsc-migration-patterns/internal/adapters/rpcjson"
	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/application"
	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/config"
	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/domain"
	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/pages"
	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/stream"
	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/ui"
	"github.com/goccy/go-json"
	"github.com/jonboulle/clockwork"
	"github.com/urfave/cli/v3"
)

const (
	defaultAddr   = ":8080"
	defaultSocket = "/tmp/rscpatterns.sock"
	defaultDB     = "rscpatterns.db"
)

func main() {
	args := os.Args
	if len(args) == 1 {
		args = append(args, "--help")
	}

	root := &cli.Command{
		Name:  "rscpatterns",
		Usage: "Streaming composition pattern demos: server and CLI",
		Commands: []*cli.Command{
			serverCommand(),
			clientCommand(),
			patternsCommand(),
			catalogCommand(),
			fetchCommand(),
			profileCommand(),
		},
	}

	if err := root.Run(context.Background(), args); err != nil {
		log.Fatal(err)
	}
}

type serverOptions struct {
	addr            string
	rpcSocket       string
	store           string
	dbPath          string
	profilePath     string
	boundaryTimeout time.Duration
}

func serverCommand() *cli.Command {
	return &cli.Command{
		Name:  "server",
		Usage: "Run HTTP server and JSON-RPC socket",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Value: defaultAddr, Usage: "HTTP listen address", Sources: cli.EnvVars("RSCP_ADDR")},
			&cli.StringFlag{Name: "rpc-socket", Value: defaultSocket, Usage: "JSON-RPC unix socket path", Sources: cli.EnvVars("RSCP_RPC_SOCKET")},
			&cli.StringFlag{Name: "store", Value: "sqlite", Usage: "catalog store: sqlite or memory", Sources: cli.EnvVars("RSCP_STORE")},
			&cli.StringFlag{Name: "db-path", Value: defaultDB, Usage: "SQLite database path", Sources: cli.EnvVars("RSCP_DB_PATH")},
			&cli.StringFlag{Name: "latency-profile", Usage: "YAML file overriding fetch latencies", Sources: cli.EnvVars("RSCP_LATENCY_PROFILE")},
			&cli.DurationFlag{Name: "boundary-timeout", Usage: "give up on a boundary after this long (0 disables)", Sources: cli.EnvVars("RSCP_BOUNDARY_TIMEOUT")},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runServer(ctx, serverOptions{
				addr:            c.String("addr"),
				rpcSocket:       c.String("rpc-socket"),
				store:           c.String("store"),
				dbPath:          c.String("db-path"),
				profilePath:     c.String("latency-profile"),
				boundaryTimeout: c.Duration("boundary-timeout"),
			})
		},
	}
}

func openRepository(ctx context.Context, opts serverOptions) (domain.CatalogRepository, func(), error) {
	switch opts.store {
	case "memory":
		return memory.NewCatalogRepository(memory.DemoCatalog()), func() {}, nil
	case "sqlite", "":
		db, err := sqliteadapter.Bootstrap(ctx, opts.dbPath)
		if err != nil {
			return nil, nil, err
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return sqliteadapter.NewCatalogRepository(db), closeDB, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q", opts.store)
	}
}

func runServer(ctx context.Context, opts serverOptions) error {
	profile := config.Default()
	if opts.profilePath != "" {
		p, err := config.LoadFile(opts.profilePath)
		if err != nil {
			return err
		}
		profile = p
	}
	timeout := profile.BoundaryTimeout
	if opts.boundaryTimeout > 0 {
		timeout = opts.boundaryTimeout
	}

	repo, closeRepo, err := openRepository(ctx, opts)
	if err != nil {
		return err
	}
	defer closeRepo()

	clock := clockwork.NewRealClock()
	source := application.NewDataSource(repo, clock, profile.Options()...)
	host := stream.NewHost(clock,
		stream.WithBoundaryTimeout(timeout),
		stream.WithFailureRenderer(ui.BoundaryFailure),
	)

	router := httpadapter.NewRouter(pages.NewComposer(source), host)
	srv := &http.Server{Addr: opts.addr, Handler: router, ReadHeaderTimeout: 5 * time.Second}
	rpcSrv, err := rpcadapter.Start(opts.rpcSocket, source)
	if err != nil {
		return err
	}

	defer func() {
		_ = rpcSrv.Close()
	}()
	log.Printf("json-rpc listening on unix://%s", opts.rpcSocket)
	log.Printf("catalog store %s, boundary timeout %s", opts.store, timeout)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("server listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("received signal %s, shutting down", sig)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func clientCommand() *cli.Command {
	return &cli.Command{
		Name:  "client",
		Usage: "CLI transport settings",
		Commands: []*cli.Command{
			{
				Name:  "configure",
				Usage: "Store transport settings",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "transport", Value: "uds", Usage: "uds or http"},
					&cli.StringFlag{Name: "server", Value: "http://127.0.0.1:8080"},
					&cli.StringFlag{Name: "socket", Value: defaultSocket},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg := cliConfig{Transport: c.String("transport"), Server: c.String("server"), Socket: c.String("socket")}
					if err := cfg.validate(); err != nil {
						return err
					}
					if err := saveConfig(cfg); err != nil {
						return err
					}
					fmt.Printf("using %s transport\n", cfg.Transport)
					return nil
				},
			},
			{
				Name:  "show",
				Usage: "Show transport settings",
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					printKV([][2]string{{"transport", cfg.Transport}, {"server", cfg.Server}, {"socket", cfg.Socket}})
					return nil
				},
			},
		},
	}
}

func patternsCommand() *cli.Command {
	return &cli.Command{
		Name:  "patterns",
		Usage: "Pattern registry",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List the pattern pages",
				Flags: []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "output raw JSON"}},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out []ui.PatternLink
					if err := doPatternsList(ctx, cfg, &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printPatterns(out)
					return nil
				},
			},
		},
	}
}

func catalogCommand() *cli.Command {
	jsonFlag := func() cli.Flag { return &cli.BoolFlag{Name: "json", Usage: "output raw JSON"} }
	return &cli.Command{
		Name:  "catalog",
		Usage: "Read catalog data the pages are composed from",
		Commands: []*cli.Command{
			{
				Name:  "product",
				Usage: "Show a product with specs and reviews",
				Flags: []cli.Flag{&cli.UintFlag{Name: "id", Value: 1}, jsonFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out domain.Product
					if err := doProduct(ctx, cfg, c.Uint("id"), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printProduct(out)
					return nil
				},
			},
			{
				Name:  "cart",
				Usage: "Show cart items and total",
				Flags: []cli.Flag{jsonFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out cartView
					if err := doCart(ctx, cfg, &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printCart(out)
					return nil
				},
			},
			{
				Name:  "theme",
				Usage: "Show theme page content",
				Flags: []cli.Flag{jsonFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out domain.ThemePageContent
					if err := doTheme(ctx, cfg, &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printTheme(out)
					return nil
				},
			},
			{
				Name:  "dashboard",
				Usage: "Fetch stats, revenue and orders concurrently",
				Flags: []cli.Flag{jsonFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out application.DashboardSnapshot
					if err := doDashboard(ctx, cfg, &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printDashboard(out)
					return nil
				},
			},
			{
				Name:  "post",
				Usage: "Show a blog post",
				Flags: []cli.Flag{&cli.UintFlag{Name: "id", Value: 1}, jsonFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out domain.Post
					if err := doPost(ctx, cfg, c.Uint("id"), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printPost(out)
					return nil
				},
			},
			{
				Name:  "comments",
				Usage: "List comments of a blog post",
				Flags: []cli.Flag{&cli.UintFlag{Name: "post-id", Value: 1}, jsonFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out []domain.Comment
					if err := doComments(ctx, cfg, c.Uint("post-id"), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printComments(out)
					return nil
				},
			},
			{
				Name:  "latencies",
				Usage: "Show the simulated latency of each fetch kind",
				Flags: []cli.Flag{jsonFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out []application.KindLatency
					if err := doLatencies(ctx, cfg, &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printLatencies(out)
					return nil
				},
			},
		},
	}
}

func fetchCommand() *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "Request a pattern page over HTTP and print when each chunk arrived",
		ArgsUsage: "<pattern>",
		Flags: []cli.Flag{
			&cli.UintFlag{Name: "id", Value: 1},
			&cli.StringFlag{Name: "fail", Usage: "comma separated fetch kinds to fail"},
			&cli.StringFlag{Name: "server", Usage: "override the configured server URL"},
			&cli.BoolFlag{Name: "body", Usage: "print the assembled document after the timeline"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			pattern := c.Args().First()
			if pattern == "" {
				return fmt.Errorf("pattern is required, one of: %s", patternKeys())
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if c.String("server") != "" {
				cfg.Server = c.String("server")
			}
			res, err := doFetch(ctx, cfg, pattern, c.Uint("id"), c.String("fail"))
			if err != nil {
				return err
			}
			printTimeline(res)
			if c.Bool("body") {
				fmt.Println(res.Body)
			}
			return nil
		},
	}
}

func profileCommand() *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Latency profile helpers",
		Commands: []*cli.Command{
			{
				Name:  "default",
				Usage: "Print the default latency profile as YAML",
				Action: func(ctx context.Context, c *cli.Command) error {
					data, err := config.Marshal(config.Default())
					if err != nil {
						return err
					}
					fmt.Print(string(data))
					return nil
				},
			},
			{
				Name:      "check",
				Usage:     "Validate a latency profile file",
				ArgsUsage: "<file>",
				Action: func(ctx context.Context, c *cli.Command) error {
					path := c.Args().First()
					if path == "" {
						return fmt.Errorf("profile file is required")
					}
					p, err := config.LoadFile(path)
					if err != nil {
						return err
					}
					fmt.Printf("%s: ok (%d latency overrides, boundary timeout %s)\n", path, len(p.Latencies), p.BoundaryTimeout)
					return nil
				},
			},
		},
	}
}

func patternKeys() string {
	keys := ""
	for i, p := range pages.Patterns {
		if i > 0 {
			keys += ", "
		}
		keys += p.Key
	}
	return keys
}

func jsonMarshal(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
