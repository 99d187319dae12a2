package config

import "time"

const (
	defaultThreadCount     = 4
	defaultLiveServerPort  = 8000
	defaultDebounceWindow  = 300 * time.Millisecond
	defaultDebounceMaxWait = 2 * time.Second
)

// Defaults returns the configuration used when neither file exists.
func Defaults(root string) *Config {
	cfg := &Config{
		Root: root,
		Generator: GeneratorConfig{
			UseThreads:       false,
			ThreadCount:      defaultThreadCount,
			LiveServerPort:   defaultLiveServerPort,
			DebounceWindow:   Duration(defaultDebounceWindow),
			DebounceMaxDelay: Duration(defaultDebounceMaxWait),
			LogLevel:         LogLevelInfo,
			LogFormat:        LogFormatText,
		},
		Site: SiteConfig{
			Name:            "Site",
			Version:         "0.0.0",
			IndexPage:       "index",
			StaticPath:      "static",
			OutputPath:      "site",
			Languages:       []string{"en"},
			TranslationPath: "translations",
		},
	}
	return cfg
}
