package main

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-crudconsole/pkg/client"
	"github.com/goliatone/go-crudconsole/pkg/config"
	"github.com/goliatone/go-crudconsole/pkg/logging"
	pkgopenapi "github.com/goliatone/go-crudconsole/pkg/openapi"
	"github.com/goliatone/go-crudconsole/pkg/orchestrator"
	"github.com/goliatone/go-crudconsole/pkg/renderers/vanilla"
)

// app carries the global flags and what PersistentPreRunE builds from them.
type app struct {
	configPath string
	baseURL    string
	logLevel   string
	source     string

	cfg    *config.Config
	logger zerolog.Logger
	orch   *orchestrator.Orchestrator
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "crudconsole",
		Short:         "Create, list, edit and delete records of a REST backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Path to a YAML config file (env CRUDCONSOLE_CONFIG)")
	flags.StringVar(&a.baseURL, "base-url", "", "API base URL (env CRUDCONSOLE_BASE_URL)")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (env CRUDCONSOLE_LOG_LEVEL)")
	flags.StringVar(&a.source, "source", "", "OpenAPI document path or URL (embedded backend description if empty)")

	root.AddCommand(
		newConsoleCmd(a),
		newListCmd(a),
		newRenderCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newDevserverCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.baseURL != "" {
		cfg.API.BaseURL = a.baseURL
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	logCfg := cfg.Logger()
	logCfg.Output = cmd.ErrOrStderr()
	a.logger = logging.New(logCfg)

	timeout := cfg.API.Timeout
	if timeout == 0 {
		timeout = config.DefaultTimeout
	}
	options := []orchestrator.Option{
		orchestrator.WithBaseURL(cfg.API.BaseURL),
		orchestrator.WithLogger(a.logger),
		orchestrator.WithClient(client.New(
			client.WithTimeout(timeout),
			client.WithLogger(a.logger),
		)),
		orchestrator.WithThemeSelector(vanilla.NewSelector(cfg.Console.Theme, cfg.Console.Variant, vanilla.DefaultManifest())),
	}
	if strings.TrimSpace(a.source) != "" {
		src, err := pkgopenapi.ParseSource(a.source)
		if err != nil {
			return err
		}
		options = append(options, orchestrator.WithSource(src))
	}
	a.orch = orchestrator.New(options...)
	return nil
}
