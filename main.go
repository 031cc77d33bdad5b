package main

import (
	"biosearch/app/api"
	"biosearch/app/client/biosamples"
	"biosearch/app/config"
	"biosearch/app/service/search"
	"biosearch/app/service/tool"
	"biosearch/app/util/mylog"
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
	"github.com/spf13/cobra"
)

const version = "0.3.0"

func main() {
	mylog.Preinit()

	appCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(appCtx); err != nil {
		log.Fatalf("%v", err)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "biosearch",
		Short:         "Graph search front end for the sample registry",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to the YAML config")

	root.AddCommand(
		newServeCmd(&configPath),
		newSearchCmd(&configPath),
		newExamplesCmd(&configPath),
		newMCPCmd(&configPath),
		newTSV2JSONCmd(),
		newJSON2TSVCmd(),
	)

	return root
}

func newInjector(ctx context.Context, configPath string) (*do.Injector, error) {
	di := do.New()
	do.ProvideValue(di, ctx)

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	do.ProvideValue(di, cfg)

	if err = mylog.Init(cfg); err != nil {
		return nil, err
	}

	do.Provide(di, biosamples.NewClient)
	do.Provide(di, search.New)
	do.Provide(di, tool.New)
	do.Provide(di, api.New)

	return di, nil
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			di, err := newInjector(ctx, *configPath)
			if err != nil {
				return err
			}
			defer func() {
				if err := di.Shutdown(); err != nil {
					slog.Warn("Shutdown finished with errors", "error", err)
				}
			}()

			server := do.MustInvoke[*api.Server](di)

			slog.Info("Service started", "version", version)

			return server.Run(ctx)
		},
	}
}
