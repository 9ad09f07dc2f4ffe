package signkit

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/signkit/cli/internal/signlib"
	"github.com/signkit/cli/internal/signlib/config"
	"github.com/signkit/cli/pkg/cliapp"
	"github.com/urfave/cli/v2"
)

func NewApp() *cliapp.App {
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Fprintln(c.App.Writer, "signkit, version="+c.App.Version)
	}
	app := cliapp.NewApp("signkit",
		"Manage App Store Connect resources and iOS code signing", signlib.Version)
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    signlib.ConfigFlag,
			Aliases: []string{"c"},
			Usage:   "Load configuration from `FILE`",
			EnvVars: []string{config.EnvironmentPath},
		},
		&cli.DurationFlag{
			Name:    signlib.ApiTimeoutFlag,
			Usage:   "Timeout of App Store Connect API requests",
			Value:   60 * time.Second,
			EnvVars: []string{"SIGNKIT_API_TIMEOUT"},
		},
		&cli.StringFlag{
			Name:    signlib.CACertFlag,
			Usage:   "Path to CA certificate bundle file",
			EnvVars: []string{"SIGNKIT_CACERT"},
		},
	}
	app.MustAddTool(signlib.Tools()...)
	return app
}

func Main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := NewApp().Run(ctx, os.Args)
	stop()
	os.Exit(code)
}
