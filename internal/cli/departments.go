package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// departmentsCmd groups the department commands
var departmentsCmd = &cobra.Command{
	Use:     "departments",
	Aliases: []string{"dep"},
	Short:   "Manage company departments",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// departmentsListCmd lists the company's departments
var departmentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the company's departments",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newAPISession()
		if err != nil {
			return err
		}

		deps, err := session.client.ListDepartments()
		if err != nil {
			return err
		}
		if err := session.save(); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}

		if jsonOutput {
			printJSON(deps)
			return nil
		}

		if len(deps) == 0 {
			fmt.Println("No departments.")
			return nil
		}
		fmt.Printf("%-36s %-8s %s\n", "ID", "MEMBERS", "NAME")
		for _, dep := range deps {
			fmt.Printf("%-36s %-8d %s\n", dep.ID, dep.MemberCount, dep.Name)
		}
		return nil
	},
}

// departmentsCreateCmd creates a department (admin)
var departmentsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a department (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newAPISession()
		if err != nil {
			return err
		}

		dep, err := session.client.CreateDepartment(args[0])
		if err != nil {
			return err
		}
		if err := session.save(); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}

		if jsonOutput {
			printJSON(dep)
			return nil
		}
		okLabel.Printf("✓ Created department %s (%s)\n", dep.Name, dep.ID)
		return nil
	},
}

// departmentsRenameCmd renames a department (admin)
var departmentsRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a department (admin)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newAPISession()
		if err != nil {
			return err
		}

		dep, err := session.client.RenameDepartment(args[0], args[1])
		if err != nil {
			return err
		}
		if err := session.save(); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}

		if jsonOutput {
			printJSON(dep)
			return nil
		}
		okLabel.Printf("✓ Renamed department to %s\n", dep.Name)
		return nil
	},
}

// departmentsDeleteCmd deletes an empty department (admin)
var departmentsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an empty department (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newAPISession()
		if err != nil {
			return err
		}

		if err := session.client.DeleteDepartment(args[0]); err != nil {
			return err
		}
		if err := session.save(); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}

		if jsonOutput {
			printJSON(map[string]int{"result": 1})
			return nil
		}
		okLabel.Println("✓ Department deleted")
		return nil
	},
}

func init() {
	departmentsCmd.AddCommand(departmentsListCmd)
	departmentsCmd.AddCommand(departmentsCreateCmd)
	departmentsCmd.AddCommand(departmentsRenameCmd)
	departmentsCmd.AddCommand(departmentsDeleteCmd)
	rootCmd.AddCommand(departmentsCmd)
}
