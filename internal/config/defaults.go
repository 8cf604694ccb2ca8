package config

// Backend and provider names accepted by the [sheets] and [storage] sections.
const (
	BackendWorkbook = "workbook"
	BackendMemory   = "memory"

	ProviderFS   = "fs"
	ProviderS3   = "s3"
	ProviderNone = "none"
)

const (
	defaultStorageDir   = "~/.local/share/motk/storage"
	defaultLogDir       = "~/.local/share/motk/logs"
	defaultWorkbookPath = "~/.local/share/motk/motk.workbook"
	defaultSheetsTitle  = "MOTK Production Tracking"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
	defaultNamespace    = "motk"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StorageDir: defaultStorageDir,
			LogDir:     defaultLogDir,
		},
		Sheets: Sheets{
			Backend:      BackendWorkbook,
			WorkbookPath: defaultWorkbookPath,
			Title:        defaultSheetsTitle,
		},
		Storage: Storage{
			Provider: ProviderFS,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Metrics: Metrics{
			Enabled:   true,
			Namespace: defaultNamespace,
		},
	}
}
