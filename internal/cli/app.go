package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shinji-kodama/turknet-query/internal/config"
	"github.com/shinji-kodama/turknet-query/internal/goknet"
	"github.com/shinji-kodama/turknet-query/internal/httpclient"
	"github.com/shinji-kodama/turknet-query/internal/logging"
	"github.com/shinji-kodama/turknet-query/internal/model"
	"github.com/shinji-kodama/turknet-query/internal/prompt"
	"github.com/shinji-kodama/turknet-query/internal/turknet"
)

// app bundles what a command needs to talk to the providers and the user.
// It is built once per command run by newApp.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	turknet  *turknet.Client
	goknet   *goknet.Client
	prompter prompt.Prompter
	printer  *printer
}

// newPrompter returns the prompter used by interactive flows. Tests
// replace it with a scripted one.
var newPrompter = func(cmd *cobra.Command) prompt.Prompter {
	return &prompt.Terminal{}
}

// newApp loads the configuration and builds the logger, the shared HTTP
// client and both provider clients.
func newApp(cmd *cobra.Command) (*app, error) {
	// Step 1: Load configuration from file, .env and environment.
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError, "failed to load configuration", err)
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}

	// Step 2: Build the logger. Console logs go to stderr so stdout only
	// carries results.
	logger, err := logging.New(logging.Options{
		Verbose: verbose,
		File:    cfg.LogFile,
		Console: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError, "failed to set up logging", err)
	}

	// Step 3: Build the HTTP client shared by both providers.
	httpClient, err := httpclient.New(httpclient.Options{
		Timeout:           cfg.Timeout,
		CABundle:          cfg.CABundle,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Logger:            logger,
	})
	if err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError, "failed to set up HTTP client", err)
	}

	// Step 4: Build the provider clients.
	tn, err := turknet.NewClient(turknet.Options{
		HTTPClient: httpClient,
		BaseURL:    cfg.Turknet.BaseURL,
		UserAgent:  cfg.UserAgent,
		Referer:    cfg.Turknet.Referer,
		Origin:     cfg.Turknet.Origin,
		Logger:     logger,
	})
	if err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError, "failed to set up Türk.net client", err)
	}

	gk, err := goknet.NewClient(goknet.Options{
		HTTPClient: httpClient,
		BaseURL:    cfg.Goknet.BaseURL,
		UserAgent:  cfg.UserAgent,
		Referer:    cfg.Goknet.Referer,
		Logger:     logger,
	})
	if err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError, "failed to set up Göknet client", err)
	}

	logger.Debug("configuration loaded",
		zap.String("turknet", cfg.Turknet.BaseURL),
		zap.String("goknet", cfg.Goknet.BaseURL),
		zap.Duration("timeout", cfg.Timeout),
		zap.Float64("rps", cfg.RequestsPerSecond))

	return &app{
		cfg:      cfg,
		logger:   logger,
		turknet:  tn,
		goknet:   gk,
		prompter: newPrompter(cmd),
		printer:  newPrinter(cmd.OutOrStdout()),
	}, nil
}

// close flushes buffered log entries.
func (a *app) close() {
	_ = a.logger.Sync()
}
