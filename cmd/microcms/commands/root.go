package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	configDirName  = ".microcms"
	configFileName = "config"
	configFileType = "yml"
	envPrefix      = "MICROCMS"
)

// NewRootCommand creates the microcms command tree.
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "microcms",
		Short: "microCMS content API CLI",
		Long: `A command-line interface for the microCMS content API.

Read, create, update, and delete contents of list and object endpoints.
Credentials come from flags, MICROCMS_* environment variables (a .env file
in the working directory is loaded first), or $HOME/.microcms/config.yml.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is $HOME/.microcms/config.yml)")
	flags.StringP("service-domain", "s", "", "service domain, e.g. \"example\" for example.microcms.io")
	flags.StringP("api-key", "k", "", "API key")
	flags.StringP("output", "o", "table", "output format (table, json, yaml)")
	flags.Bool("retry", false, "retry 429 and 5xx responses")
	flags.Int("retry-max", 0, "retries after the first attempt (default 2 when --retry is set)")
	flags.Float64("rate-limit", 0, "maximum requests per second (0 disables)")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.BoolP("verbose", "v", false, "log every HTTP request and response")

	// Bind flags to viper
	_ = viper.BindPFlag("config", flags.Lookup("config"))
	_ = viper.BindPFlag(keyServiceDomain, flags.Lookup("service-domain"))
	_ = viper.BindPFlag(keyAPIKey, flags.Lookup("api-key"))
	_ = viper.BindPFlag(keyOutput, flags.Lookup("output"))
	_ = viper.BindPFlag(keyRetry, flags.Lookup("retry"))
	_ = viper.BindPFlag(keyRetryMax, flags.Lookup("retry-max"))
	_ = viper.BindPFlag(keyRateLimit, flags.Lookup("rate-limit"))
	_ = viper.BindPFlag(keyLogLevel, flags.Lookup("log-level"))
	_ = viper.BindPFlag("verbose", flags.Lookup("verbose"))

	rootCmd.AddCommand(NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewGetCommand())
	rootCmd.AddCommand(NewListCommand())
	rootCmd.AddCommand(NewObjectCommand())
	rootCmd.AddCommand(NewCreateCommand())
	rootCmd.AddCommand(NewUpdateCommand())
	rootCmd.AddCommand(NewDeleteCommand())
	rootCmd.AddCommand(NewIDsCommand())

	return rootCmd
}

func initConfig() error {
	// A missing .env file is not an error
	_ = godotenv.Load()

	cfgFile := viper.GetString("config")

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		configDir, err := defaultConfigDir()
		if err != nil {
			return err
		}

		// Search config in ~/.microcms/config.yml
		viper.AddConfigPath(configDir)
		viper.SetConfigType(configFileType)
		viper.SetConfigName(configFileName)
	}

	// Read in environment variables that match
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in
	err := viper.ReadInConfig()
	if err == nil && viper.GetBool("verbose") {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	return validateOutputFormat(viper.GetString(keyOutput))
}

func defaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, configDirName), nil
}
