package config

const (
	defaultConfigPath      = "~/.config/coursesys/config.toml"
	projectConfigName      = "coursesys.toml"
	dataDirEnv             = "COURSESYS_DATA_DIR"
	defaultDataDir         = "~/.local/share/coursesys"
	defaultContentDirName  = "pages"
	defaultDatabaseName    = "coursesys.db"
	lockFileName           = "parser.lock"
	defaultTableSelector   = "table.dataentrytable"
	defaultHeadingSelector = "h2"
	defaultHeadingPattern  = `(?i)([a-z]+)\s+(\d{4})`
	defaultPollInterval    = 30
	defaultBatchSize       = 25
	defaultAPIBind         = "127.0.0.1:3000"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults. Paths are left
// empty so normalization can derive them from the data directory.
func Default() Config {
	return Config{
		Parser: Parser{
			TableSelector:   defaultTableSelector,
			HeadingSelector: defaultHeadingSelector,
			HeadingPattern:  defaultHeadingPattern,
			PollInterval:    defaultPollInterval,
			BatchSize:       defaultBatchSize,
		},
		API: API{
			Bind: defaultAPIBind,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
