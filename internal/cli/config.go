package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default name of the config file
const DefaultConfigFile = "config.yaml"

// Config represents the configuration for the Kokoro CLI.
// It contains server connection details and the stored session cookies.
type Config struct {
	// Version of the configuration file format
	Version string `yaml:"version"`
	// ServerURL is the URL and port of the check service
	ServerURL string `yaml:"server_url"`
	// Email is the account the session belongs to
	Email string `yaml:"email"`
	// AccessToken is the short-lived session cookie value
	AccessToken string `yaml:"access_token"`
	// RefreshToken is the long-lived session cookie value
	RefreshToken string `yaml:"refresh_token"`
}

var config *Config

// GetDefaultConfigPath returns the default path for the config file.
// It uses the OS-specific config directory (e.g., ~/.config/kokoro on Linux).
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "kokoro", DefaultConfigFile), nil
}

// LoadConfig loads the configuration from the specified file.
// If no file is specified, it uses the default config location.
func LoadConfig(file string) error {
	if file == "" {
		var err error
		file, err = GetDefaultConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get default config path: %w", err)
		}
	}

	yamlStr, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("unable to read config file: %w", err)
	}

	var c Config
	if err = yaml.Unmarshal(yamlStr, &c); err != nil {
		return fmt.Errorf("unable to parse config file: %w", err)
	}

	if c.ServerURL == "" {
		return errors.New("server:port is required")
	}

	c.ServerURL = MorphServer(c.ServerURL)

	config = &c
	return nil
}

// GetConfig returns the current configuration
func GetConfig() *Config {
	return config
}

// WriteConfig writes the current configuration to the specified file.
// If no file is specified, it uses the default config location.
func (cfg *Config) WriteConfig(file string) error {
	if file == "" {
		return errors.New("file path cannot be empty")
	}

	err := os.MkdirAll(filepath.Dir(file), os.ModePerm)
	if err != nil {
		return fmt.Errorf("unable to create config directory: %w", err)
	}

	yamlStr, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("unable to generate configuration: %w", err)
	}

	err = os.WriteFile(file, yamlStr, os.FileMode(0600))
	if err != nil {
		return fmt.Errorf("unable to write config file: %w", err)
	}

	return nil
}

// GetServerURL returns the properly formatted server URL
func (cfg *Config) GetServerURL() string {
	return MorphServer(cfg.ServerURL)
}

// MorphServer ensures the server URL is properly formatted.
// Adds https:// prefix if missing and removes trailing slashes.
func MorphServer(server string) string {
	if server == "" {
		return server
	}

	server = strings.TrimRight(server, "/")

	if !strings.HasPrefix(server, "http://") && !strings.HasPrefix(server, "https://") {
		server = "https://" + server
	}

	return server
}

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long:  `Manage CLI configuration settings like server connection and stored session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		serverFlag, _ := cmd.Flags().GetString("server")
		if serverFlag != "" {
			return setServerConfig(serverFlag)
		}

		// If no specific flag is provided, show help
		cmd.Help()
		return nil
	},
}

// configClearCmd represents the config clear command
var configClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the stored session",
	Long: `Clear the stored session. This will remove:
1. The stored access token
2. The stored refresh token
3. The remembered account email

The server connection settings are kept. Log in again with "kokoro login".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := LoadConfig(configFile); err != nil {
			if os.IsNotExist(err) {
				fmt.Println("Kokoro config file not found. Configure kokoro with \"kokoro config --server <host:port>\" first.")
				os.Exit(1)
			} else {
				fmt.Printf("Unable to load config file: %s\n", err.Error())
				os.Exit(1)
			}
		}
		cfg := GetConfig()
		cfg.Email = ""
		cfg.AccessToken = ""
		cfg.RefreshToken = ""

		if err := cfg.WriteConfig(configFile); err != nil {
			return fmt.Errorf("failed to save config: %v", err)
		}

		if jsonOutput {
			printJSON(map[string]int{"result": 1})
		} else {
			fmt.Println("Session cleared. Log in again with \"kokoro login\"")
		}

		return nil
	},
}

func init() {
	// Add flags to config command
	configCmd.Flags().String("server", "", "Set the server URL and port (e.g., example.com:8080)")

	configCmd.AddCommand(configClearCmd)
	rootCmd.AddCommand(configCmd)
}

// setServerConfig sets the server configuration in the config file
func setServerConfig(server string) error {
	configPath := configFile
	if configPath == "" {
		var err error
		configPath, err = GetDefaultConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get default config path: %w", err)
		}
	}

	cfg := &Config{
		Version:   "0.1.0",
		ServerURL: MorphServer(server),
	}

	if err := cfg.WriteConfig(configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if jsonOutput {
		printJSON(map[string]string{
			"server":      cfg.ServerURL,
			"config_file": configPath,
		})
	} else {
		fmt.Printf("Server configured: %s\n", cfg.ServerURL)
		fmt.Printf("Config file: %s\n", configPath)
	}

	return nil
}
