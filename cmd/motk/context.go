package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"motk/internal/config"
	"motk/internal/folders"
	"motk/internal/logging"
	"motk/internal/metrics"
	"motk/internal/sheet"
	"motk/internal/sheet/membook"
	"motk/internal/sheet/workbook"
	"motk/internal/store"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

type commandContext struct {
	configFlag   *string
	outputFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, outputFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		outputFlag:   outputFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) outputMode() string {
	if c.outputFlag == nil {
		return outputTable
	}
	mode := strings.ToLower(strings.TrimSpace(*c.outputFlag))
	if mode == "" {
		return outputTable
	}
	return mode
}

func (c *commandContext) validateOutput() error {
	switch c.outputMode() {
	case outputTable, outputJSON:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q (expected table or json)", *c.outputFlag)
	}
}

func (c *commandContext) jsonOutput() bool {
	return c.outputMode() == outputJSON
}

// openClient constructs the configured backing store client. The returned
// close function releases the workbook lock; the memory backend has nothing
// to release.
func (c *commandContext) openClient(cfg *config.Config) (sheet.Client, func() error, error) {
	switch cfg.Sheets.Backend {
	case config.BackendMemory:
		return membook.New(cfg.Sheets.Title), func() error { return nil }, nil
	case config.BackendWorkbook:
		book, err := workbook.Open(cfg.Sheets.WorkbookPath, cfg.Sheets.Title)
		if err != nil {
			return nil, nil, err
		}
		return book, book.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown sheets backend %q", cfg.Sheets.Backend)
	}
}

// newLogger builds the operation logger. CLI invocations log to the motk.log
// file only so stdout stays clean for tables and JSON.
func (c *commandContext) newLogger(cfg *config.Config) (*slog.Logger, error) {
	dir := strings.TrimSpace(cfg.Paths.LogDir)
	if dir == "" {
		return logging.NewNop(), nil
	}
	level := cfg.Logging.Level
	if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
		level = strings.TrimSpace(*c.logLevelFlag)
	}
	return logging.New(logging.Options{
		Level:       level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{filepath.Join(dir, "motk.log")},
	})
}

// withStore wires config, backing client, folder provisioner, metrics, and
// logger into an entity store and hands it to fn. The client is closed after
// fn returns.
func (c *commandContext) withStore(cmd *cobra.Command, fn func(st *store.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	client, closeClient, err := c.openClient(cfg)
	if err != nil {
		return err
	}
	defer closeClient()

	logger, err := c.newLogger(cfg)
	if err != nil {
		return err
	}
	provisioner, err := folders.FromConfig(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	st := store.New(client,
		store.WithLogger(logger),
		store.WithProvisioner(provisioner),
		store.WithMetrics(metrics.NewFromConfig(cfg)),
	)
	return fn(st)
}

// withClient hands the raw backing client to fn, for commands that inspect
// the workbook without going through the store.
func (c *commandContext) withClient(fn func(client sheet.Client) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	client, closeClient, err := c.openClient(cfg)
	if err != nil {
		return err
	}
	defer closeClient()
	return fn(client)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
