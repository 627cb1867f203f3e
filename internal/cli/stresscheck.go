package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newQuestionsCmd creates and returns a new questions command
func newQuestionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "questions",
		Short: "Show the stress check questionnaire for the current period",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newAPISession()
			if err != nil {
				return err
			}

			rsp, err := session.client.FetchQuestions()
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

			if rsp.AlreadyTaken {
				fmt.Println(rsp.Message)
				return nil
			}
			category := ""
			for i, q := range rsp.Questions {
				if q.Category != category {
					category = q.Category
					fmt.Printf("\n%s\n", category)
				}
				fmt.Printf("  %2d. %s\n", i+1, q.Text)
			}
			return nil
		},
	}
}

// newHistoryCmd creates and returns a new history command
func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List your past stress check submissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newAPISession()
			if err != nil {
				return err
			}

			items, err := session.client.History()
			if err != nil {
				return err
			}
			if err := session.save(); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			if jsonOutput {
				printJSON(items)
				return nil
			}

			if len(items) == 0 {
				fmt.Println("No submissions yet.")
				return nil
			}
			fmt.Printf("%-10s %-8s %-12s %s\n", "PERIOD", "SCORE", "HIGH STRESS", "ID")
			for _, item := range items {
				highStress := "-"
				if item.IsHighStress {
					highStress = "yes"
				}
				fmt.Printf("%-10s %-8.1f %-12s %s\n", item.Period, item.TotalScore, highStress, item.ID)
			}
			return nil
		},
	}
}

// newResultCmd creates and returns a new result command
func newResultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "result <check-id>",
		Short: "Show one stress check result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newAPISession()
			if err != nil {
				return err
			}

			result, err := session.client.Result(args[0])
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

			fmt.Printf("Period:          %s\n", result.Period)
			fmt.Printf("Total score:     %.1f\n", result.TotalScore)
			fmt.Printf("Job stress:      %.2f\n", result.JobStressScore)
			fmt.Printf("Stress reaction: %.2f\n", result.StressReactionScore)
			fmt.Printf("Support:         %.2f\n", result.SupportScore)
			fmt.Printf("Satisfaction:    %.2f\n", result.SatisfactionScore)
			if result.IsHighStress {
				errorLabel.Println("High stress: a physician interview is recommended")
			} else {
				okLabel.Println("Not in the high stress range")
			}
			return nil
		},
	}
}
