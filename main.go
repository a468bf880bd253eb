package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/SayaAndy/vault-gallery/config"
	"github.com/SayaAndy/vault-gallery/internal/galleryui"
	"github.com/SayaAndy/vault-gallery/internal/imageloader"
	"github.com/SayaAndy/vault-gallery/internal/litegal"
	"github.com/SayaAndy/vault-gallery/internal/notes"
	"github.com/SayaAndy/vault-gallery/internal/router"
	_ "github.com/SayaAndy/vault-gallery/internal/router/handlers"
	"github.com/SayaAndy/vault-gallery/internal/settings"
	"github.com/SayaAndy/vault-gallery/internal/vault"
	cli "github.com/urfave/cli/v3"
)

type configKey struct{}

func loadConfig(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := config.InitConfig(cmd.String("config"))
	if err != nil {
		return ctx, fmt.Errorf("fail to load configuration: %w", err)
	}
	slog.SetLogLoggerLevel(cfg.LogLevel)
	return context.WithValue(ctx, configKey{}, cfg), nil
}

func configFrom(ctx context.Context) *config.Config {
	return ctx.Value(configKey{}).(*config.Config)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:            "vault-gallery",
		Usage:           "serves a markdown vault with image galleries",
		HideHelpCommand: true,
		Before:          loadConfig,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: "config.yaml", Usage: "load configuration from `FILE` (YAML)"},
		},
		DefaultCommand: "serve",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Starts the web server",
				Action: serve,
			},
			{
				Name:      "insert",
				Usage:     "Inserts an empty gallery block into a note",
				ArgsUsage: "NOTE",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "line", Aliases: []string{"l"}, Value: -1, Usage: "zero based `LINE` to insert at, the end of the note when negative"},
				},
				Action: insert,
			},
			{
				Name:      "render",
				Usage:     "Renders a note to HTML on STDOUT",
				ArgsUsage: "NOTE",
				Action:    render,
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		slog.Error("program ended with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg := configFrom(ctx)
	slog.Info("starting vault-gallery server...", slog.String("listen", cfg.Listen), slog.String("vault", cfg.Vault.Type))

	r, err := router.NewRouter(cfg)
	if err != nil {
		return fmt.Errorf("fail to initialize router: %w", err)
	}

	if err = r.InitRoutes(); err != nil {
		return errors.Join(fmt.Errorf("fail to initialize routes: %w", err), r.Close())
	}

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- r.Listen(cfg.Listen)
	}()

	select {
	case err = <-listenErr:
	case <-ctx.Done():
		slog.Info("shutting down vault-gallery server...")
	}

	return errors.Join(err, r.Close())
}

func openIndex(ctx context.Context, cfg *config.Config) (*vault.Index, error) {
	storage, err := vault.OpenStorage(ctx, &cfg.Vault)
	if err != nil {
		return nil, fmt.Errorf("fail to initialize vault storage: %w", err)
	}
	index := vault.NewIndex(storage)
	if err = index.Rebuild(ctx); err != nil {
		return nil, fmt.Errorf("fail to index vault: %w", err)
	}
	return index, nil
}

func insert(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return errors.New("exactly one note path is expected")
	}
	notePath := cmd.Args().First()

	index, err := openIndex(ctx, configFrom(ctx))
	if err != nil {
		return err
	}

	content, err := index.ReadFile(ctx, notePath)
	if err != nil {
		return fmt.Errorf("fail to read note '%s': %w", notePath, err)
	}

	line := int(cmd.Int("line"))
	if line < 0 {
		line = math.MaxInt
	}
	updated, cursor := litegal.InsertTemplate(string(content), line)
	if err = index.WriteFile(ctx, notePath, []byte(updated)); err != nil {
		return fmt.Errorf("fail to write note '%s': %w", notePath, err)
	}

	slog.Info("inserted gallery block", slog.String("note", notePath), slog.Int("cursor", cursor))
	return nil
}

func render(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return errors.New("exactly one note path is expected")
	}
	cfg := configFrom(ctx)

	index, err := openIndex(ctx, cfg)
	if err != nil {
		return err
	}

	store, err := settings.Open(ctx, &cfg.Settings.Db)
	if err != nil {
		return fmt.Errorf("fail to initialize settings store: %w", err)
	}
	defer store.Close()

	galleries, err := galleryui.NewStore[*galleryui.Gallery](cfg.Cache.SessionTTL)
	if err != nil {
		return fmt.Errorf("fail to initialize gallery store: %w", err)
	}
	defer galleries.Close()

	loaders := imageloader.NewService(imageloader.NewVaultFetcher(index), imageloader.WithTimeout(cfg.Loader.Timeout))
	defer loaders.Cleanup()

	pipeline := litegal.NewPipeline(index, store, loaders, galleries, litegal.PipelineOptions{
		LazyMarginPx: cfg.Loader.LazyMarginPx,
		ThumbSlotPx:  cfg.Loader.ThumbSlotPx,
	})

	page, err := notes.NewRenderer(index, pipeline).Render(ctx, cmd.Args().First())
	if err != nil {
		return fmt.Errorf("fail to render note: %w", err)
	}

	_, err = fmt.Fprintln(os.Stdout, page.HTML)
	return err
}
