package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/DOFONSON/beliy-client/api"
	"github.com/DOFONSON/beliy-client/cart"
	"github.com/DOFONSON/beliy-client/internal/config"
	"github.com/DOFONSON/beliy-client/session"
	"github.com/DOFONSON/beliy-client/session/filerepo"
	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	_ = godotenv.Load() // .env is optional

	c := config.New()
	logger := newLogger(c)

	a, err := newApp(c, logger)
	if err != nil {
		return err
	}

	return newRootCommand(a).Execute()
}

// app wires the session store, request gateway, and cart state together for
// the commands.
type app struct {
	cfg    config.Config
	log    zerolog.Logger
	client *api.Client
	cart   *cart.Summary
}

func newApp(c config.Config, logger zerolog.Logger) (*app, error) {
	repo, err := filerepo.New(c.GetDataFolder())
	if err != nil {
		return nil, errors.Wrap(err, "[newApp] filerepo.New")
	}

	store, err := session.NewStore(repo, session.WithStoreLogger(logger))
	if err != nil {
		return nil, errors.Wrap(err, "[newApp] session.NewStore")
	}

	client, err := api.New(c, store,
		api.WithLogger(logger),
		api.WithSessionExpiredHook(func() {
			fmt.Fprintln(os.Stderr, "Session expired. Run 'beliy login' to sign in again.")
		}),
	)
	if err != nil {
		return nil, errors.Wrap(err, "[newApp] api.New")
	}

	summary, err := cart.NewSummary(client, cart.WithLogger(logger))
	if err != nil {
		return nil, errors.Wrap(err, "[newApp] cart.NewSummary")
	}

	return &app{
		cfg:    c,
		log:    logger,
		client: client,
		cart:   summary,
	}, nil
}

func newLogger(c config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(c.GetLogLevel()))
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

func newRootCommand(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "beliy",
		Short:         "Client for the Beliy works API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			displayAppName(a.cfg.GetAppName())
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(
		newLoginCommand(a),
		newRegisterCommand(a),
		newLogoutCommand(a),
		newWhoamiCommand(a),
		newProfileCommand(a),
		newProductsCommand(a),
		newArticlesCommand(a),
		newCartCommand(a),
		newCommentCommand(a),
		newRateCommand(a),
	)

	return rootCmd
}

func displayAppName(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
