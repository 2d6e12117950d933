package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mattsolo1/grove-blockbook/pkg/document"
	"github.com/mattsolo1/grove-blockbook/pkg/editor"
	"github.com/mattsolo1/grove-blockbook/pkg/persistence"
	"github.com/mattsolo1/grove-blockbook/pkg/service"
)

var cfgFile string

func InitConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		configDir := filepath.Join(home, ".config", "bb")
		viper.AddConfigPath(configDir)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("BB")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults
	viper.SetDefault("data_dir", filepath.Join(os.Getenv("HOME"), ".local", "share", "bb"))
	viper.SetDefault("storage.backend", service.BackendSQLite)
	viper.SetDefault("storage.key", persistence.DefaultKey)
	viper.SetDefault("document.debounce", document.DefaultDebounce)
	viper.SetDefault("export_dir", "")
	viper.SetDefault("preview.style", "")
	viper.SetDefault("preview.language", "javascript")
	viper.SetDefault("log_level", "warn")

	// A missing config file just means defaults.
	_ = viper.ReadInConfig()
}

// NewLogger builds the process logger. Logs go to stderr so command output
// on stdout stays clean.
func NewLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	level, err := logrus.ParseLevel(viper.GetString("log_level"))
	if err != nil {
		level = logrus.WarnLevel
	}
	logger.SetLevel(level)
	return logrus.NewEntry(logger).WithField("component", "bb")
}

// ServiceConfig reads the service configuration from viper.
func ServiceConfig() *service.Config {
	return &service.Config{
		DataDir:         viper.GetString("data_dir"),
		StorageBackend:  viper.GetString("storage.backend"),
		StorageKey:      viper.GetString("storage.key"),
		Debounce:        viper.GetDuration("document.debounce"),
		ExportDir:       viper.GetString("export_dir"),
		PreviewStyle:    viper.GetString("preview.style"),
		PreviewLanguage: viper.GetString("preview.language"),
	}
}

func InitService(ctx context.Context, logger *logrus.Entry, opts ...editor.Option) (*service.Service, error) {
	return service.New(ctx, ServiceConfig(), logger, opts...)
}

func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/bb/config.yaml)")
}
