package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSheets(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSheets() error {
	switch c.Sheets.Backend {
	case BackendWorkbook:
		if strings.TrimSpace(c.Sheets.WorkbookPath) == "" {
			return errors.New("sheets.workbook_path must be set when sheets.backend is \"workbook\"")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("sheets.backend must be %q or %q, got %q", BackendWorkbook, BackendMemory, c.Sheets.Backend)
	}
	return nil
}

func (c *Config) validateStorage() error {
	switch c.Storage.Provider {
	case ProviderFS:
		if strings.TrimSpace(c.Paths.StorageDir) == "" {
			return errors.New("paths.storage_dir must be set when storage.provider is \"fs\"")
		}
	case ProviderS3:
		if c.Storage.Bucket == "" {
			return errors.New("storage.bucket must be set when storage.provider is \"s3\"")
		}
	case ProviderNone:
	default:
		return fmt.Errorf("storage.provider must be %q, %q, or %q, got %q", ProviderFS, ProviderS3, ProviderNone, c.Storage.Provider)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	return nil
}
