package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// usersCmd groups the admin roster commands
var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage the company user roster (admin)",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// usersImportCmd bulk-creates employee accounts from a CSV roster
var usersImportCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Bulk-create employee accounts from a CSV roster",
	Long: `Bulk-create employee accounts from a CSV roster. The file needs the
columns email, name, employee_id and department; UTF-8 and Shift-JIS are both
accepted. Missing departments are created, existing emails are skipped.

Run "kokoro users preview <file.csv>" first to see what an import would do.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		csvData, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("unable to read roster file: %w", err)
		}

		session, err := newAPISession()
		if err != nil {
			return err
		}

		result, err := session.client.ImportUserCSV(csvData)
		if err != nil {
			return err
		}
		if err := session.save(); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}

		if jsonOutput {
			printJSON(result)
			return nil
		}

		okLabel.Printf("✓ Imported %d users\n", result.Created)
		if result.Skipped > 0 {
			fmt.Printf("Skipped %d existing accounts:\n", result.Skipped)
			for _, email := range result.Duplicates {
				fmt.Printf("  %s\n", email)
			}
		}
		for _, rowErr := range result.Errors {
			errorLabel.Printf("Row %d (%s): %s\n", rowErr.Row, rowErr.Field, rowErr.Detail)
		}
		return nil
	},
}

// usersPreviewCmd shows what an import of the given roster would do
var usersPreviewCmd = &cobra.Command{
	Use:   "preview <file.csv>",
	Short: "Show what an import of the given roster would do",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		csvData, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("unable to read roster file: %w", err)
		}

		session, err := newAPISession()
		if err != nil {
			return err
		}

		preview, err := session.client.PreviewUserCSV(csvData)
		if err != nil {
			return err
		}
		if err := session.save(); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}

		if jsonOutput {
			printJSON(preview)
			return nil
		}

		fmt.Printf("%-30s %-20s %-12s %s\n", "EMAIL", "NAME", "EMPLOYEE ID", "DEPARTMENT")
		for _, row := range preview.Rows {
			marker := ""
			if row.Duplicate {
				marker = " (duplicate)"
			}
			fmt.Printf("%-30s %-20s %-12s %s%s\n", row.Email, row.Name, row.EmployeeID, row.Department, marker)
		}
		for _, rowErr := range preview.Errors {
			errorLabel.Printf("Row %d (%s): %s\n", rowErr.Row, rowErr.Field, rowErr.Detail)
		}
		return nil
	},
}

// usersUntakenCmd lists employees without a submission this period
var usersUntakenCmd = &cobra.Command{
	Use:   "untaken",
	Short: "List employees without a submission for the current period",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newAPISession()
		if err != nil {
			return err
		}

		rsp, err := session.client.UntakenUsers()
		if err != nil {
			return err
		}
		if err := session.save(); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}

		if jsonOutput {
			printJSON(rsp)
			return nil
		}

		fmt.Printf("Period: %s\n", rsp.Period)
		if len(rsp.Users) == 0 {
			okLabel.Println("✓ Everyone has submitted")
			return nil
		}
		for _, user := range rsp.Users {
			if user.Department != "" {
				fmt.Printf("%s <%s> (%s)\n", user.Name, user.Email, user.Department)
			} else {
				fmt.Printf("%s <%s>\n", user.Name, user.Email)
			}
		}
		return nil
	},
}

func init() {
	usersCmd.AddCommand(usersImportCmd)
	usersCmd.AddCommand(usersPreviewCmd)
	usersCmd.AddCommand(usersUntakenCmd)
	rootCmd.AddCommand(usersCmd)
}
