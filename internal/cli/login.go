package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// newLoginCmd creates and returns a new login command
func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with the check service",
		Long: `Login to the check service and store the session in your configuration file.
Subsequent commands reuse the stored session; when the access token expires it
is refreshed transparently.

Example:
  kokoro login --email you@example.com --password secret
  kokoro login --email you@example.com  # prompts for the password`,
		RunE: runLogin,
	}

	cmd.Flags().String("email", "", "Account email address")
	cmd.Flags().String("password", "", "Account password (prompted when omitted)")
	return cmd
}

// runLogin handles the login command execution
func runLogin(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	if email == "" {
		email = GetConfig().Email
		if email == "" {
			return fmt.Errorf("no email provided. Use the --email flag")
		}
	}

	password, _ := cmd.Flags().GetString("password")
	if password == "" {
		fmt.Print("Password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = strings.TrimSpace(line)
		if password == "" {
			return fmt.Errorf("no password provided")
		}
	}

	session, err := newAPISession()
	if err != nil {
		return err
	}

	user, err := session.client.Login(email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	cfg := GetConfig()
	cfg.Email = email
	if err := session.save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	if jsonOutput {
		kv := map[string]interface{}{
			"status": "success",
			"user":   user,
		}
		printJSON(kv)
	} else {
		okLabel.Println("✓ Login successful")
		fmt.Printf("Logged in as %s (%s)\n", user.Name, user.Role)
	}

	return nil
}

// newLogoutCmd creates and returns a new logout command
func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Close the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newAPISession()
			if err != nil {
				return err
			}

			// The server invalidation is best effort; the local session is
			// dropped either way.
			if err := session.client.Logout(); err != nil {
				errorLabel.Fprintf(os.Stderr, "Warning: server logout failed: %v\n", err)
			}

			cfg := GetConfig()
			cfg.Email = ""
			cfg.AccessToken = ""
			cfg.RefreshToken = ""
			if err := cfg.WriteConfig(configFile); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			if jsonOutput {
				printJSON(map[string]string{"status": "success"})
			} else {
				okLabel.Println("✓ Logged out")
			}
			return nil
		},
	}
}

// newWhoamiCmd creates and returns a new whoami command
func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated account",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newAPISession()
			if err != nil {
				return err
			}

			user, err := session.client.Me()
			if err != nil {
				return fmt.Errorf("not logged in: %w", err)
			}
			if err := session.save(); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			if jsonOutput {
				printJSON(user)
				return nil
			}
			fmt.Printf("Name:    %s\n", user.Name)
			fmt.Printf("Email:   %s\n", user.Email)
			fmt.Printf("Role:    %s\n", user.Role)
			if user.CompanyName != "" {
				fmt.Printf("Company: %s\n", user.CompanyName)
			}
			return nil
		},
	}
}
