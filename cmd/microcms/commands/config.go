package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fivetwenty-io/microcms-go/internal/constants"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Configuration keys shared by flags, environment variables, and the config file.
const (
	keyServiceDomain = "service_domain"
	keyAPIKey        = "api_key"
	keyOutput        = "output"
	keyRetry         = "retry"
	keyRetryMax      = "retry_max"
	keyRateLimit     = "rate_limit"
	keyLogLevel      = "log_level"
)

// Config represents the CLI configuration.
type Config struct {
	ServiceDomain string  `json:"service_domain"       mapstructure:"service_domain" yaml:"service_domain"`
	APIKey        string  `json:"api_key"              mapstructure:"api_key"        yaml:"api_key"`
	Output        string  `json:"output"               mapstructure:"output"         yaml:"output"`
	Retry         bool    `json:"retry"                mapstructure:"retry"          yaml:"retry"`
	RetryMax      int     `json:"retry_max,omitempty"  mapstructure:"retry_max"      yaml:"retry_max,omitempty"`
	RateLimit     float64 `json:"rate_limit,omitempty" mapstructure:"rate_limit"     yaml:"rate_limit,omitempty"`
	LogLevel      string  `json:"log_level"            mapstructure:"log_level"      yaml:"log_level"`
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Show, set, and initialize the microcms CLI configuration",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigInitCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective configuration with the API key masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig()
			if err != nil {
				return err
			}

			masked := *config
			if masked.APIKey != "" {
				masked.APIKey = constants.MaskedSecret
			}

			return renderOutput(cmd.OutOrStdout(), masked, func(out io.Writer) error {
				return displayConfigTable(out, &masked)
			})
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long: `Set a configuration value and save it to the config file.

Keys: service_domain, api_key, output, retry, retry_max, rate_limit, log_level`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig()
			if err != nil {
				return err
			}

			err = setConfigValue(config, args[0], args[1])
			if err != nil {
				return err
			}

			path, err := saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			value := args[1]
			if args[0] == keyAPIKey {
				value = constants.MaskedSecret
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s to %s in %s\n", args[0], value, path)

			return nil
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	var (
		serviceDomain string
		apiKey        string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the config file",
		Long:  "Prompt for the service domain and API key and write them to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig()
			if err != nil {
				return err
			}

			reader := bufio.NewReader(cmd.InOrStdin())

			if serviceDomain == "" {
				serviceDomain, err = promptLine(cmd.ErrOrStderr(), reader, "Service domain: ")
				if err != nil {
					return err
				}
			}

			if apiKey == "" {
				apiKey, err = promptSecret(cmd.ErrOrStderr(), reader, "API key: ")
				if err != nil {
					return err
				}
			}

			config.ServiceDomain = strings.TrimSpace(serviceDomain)
			config.APIKey = strings.TrimSpace(apiKey)

			if config.ServiceDomain == "" {
				return constants.ErrNoServiceDomain
			}

			if config.APIKey == "" {
				return constants.ErrNoAPIKey
			}

			path, err := saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)

			return nil
		},
	}

	cmd.Flags().StringVar(&serviceDomain, "domain", "", "service domain (prompted when omitted)")
	cmd.Flags().StringVar(&apiKey, "key", "", "API key (prompted when omitted)")

	return cmd
}

// loadConfig reads the effective configuration from viper.
func loadConfig() (*Config, error) {
	var config Config

	err := viper.Unmarshal(&config)
	if err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if config.Output == "" {
		config.Output = constants.FormatTable
	}

	return &config, nil
}

// saveConfigStruct writes config as YAML and returns the file path.
func saveConfigStruct(config *Config) (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configDir, err := defaultConfigDir()
		if err != nil {
			return "", err
		}

		configFile = filepath.Join(configDir, configFileName+"."+configFileType)
	}

	err := os.MkdirAll(filepath.Dir(configFile), constants.ConfigDirPerm)
	if err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return configFile, nil
}

// setConfigValue sets a single configuration value.
func setConfigValue(config *Config, key, value string) error {
	var err error

	switch key {
	case keyServiceDomain:
		config.ServiceDomain = value
	case keyAPIKey:
		config.APIKey = value
	case keyOutput:
		err = validateOutputFormat(value)
		config.Output = value
	case keyRetry:
		config.Retry, err = strconv.ParseBool(value)
	case keyRetryMax:
		config.RetryMax, err = strconv.Atoi(value)
	case keyRateLimit:
		config.RateLimit, err = strconv.ParseFloat(value, 64)
	case keyLogLevel:
		_, err = parseLogLevel(value)
		config.LogLevel = value
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	return nil
}

func displayConfigTable(out io.Writer, config *Config) error {
	table := tablewriter.NewWriter(out)
	table.Header("Property", "Value")

	_ = table.Append([]string{"Service Domain", formatConfigValue(config.ServiceDomain)})
	_ = table.Append([]string{"API Key", formatConfigValue(config.APIKey)})
	_ = table.Append([]string{"Output", config.Output})
	_ = table.Append([]string{"Retry", strconv.FormatBool(config.Retry)})
	_ = table.Append([]string{"Retry Max", strconv.Itoa(config.RetryMax)})
	_ = table.Append([]string{"Rate Limit", strconv.FormatFloat(config.RateLimit, 'f', -1, 64)})
	_ = table.Append([]string{"Log Level", formatConfigValue(config.LogLevel)})

	if path := viper.ConfigFileUsed(); path != "" {
		_ = table.Append([]string{"Config File", path})
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func formatConfigValue(value string) string {
	if value == "" {
		return constants.NotAvailable
	}

	return value
}

func promptLine(out io.Writer, reader *bufio.Reader, label string) (string, error) {
	_, _ = fmt.Fprint(out, label)

	line, err := reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("reading input: %w", err)
	}

	return strings.TrimSpace(line), nil
}

// promptSecret reads without echo when stdin is a terminal.
func promptSecret(out io.Writer, reader *bufio.Reader, label string) (string, error) {
	fd := int(os.Stdin.Fd()) // #nosec G115 -- file descriptors fit in int

	if !term.IsTerminal(fd) {
		return promptLine(out, reader, label)
	}

	_, _ = fmt.Fprint(out, label)

	secret, err := term.ReadPassword(fd)

	_, _ = fmt.Fprintln(out)

	if err != nil {
		return "", fmt.Errorf("reading API key: %w", err)
	}

	return strings.TrimSpace(string(secret)), nil
}
