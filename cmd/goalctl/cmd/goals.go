package cmd

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/goal-tracker/backend/internal/client"
	"github.com/goal-tracker/backend/internal/domain/entity"
)

var errNegativeAmount = errors.New("amount must not be negative")

func GoalsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "goals",
		Aliases: []string{"ls"},
		Short:   "List your goals with their progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.RequireSession(cmd.Context()); err != nil {
				return err
			}
			userGoals, err := app.Client().ListUserGoals(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list goals: %w", err)
			}
			if len(userGoals) == 0 {
				app.Printf("No goals yet. Create one with goalctl new.\n")
				return nil
			}

			w := tabwriter.NewWriter(app.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSAVED\tTARGET\tPROGRESS\tREMAINING\tDAYS")
			for _, ug := range userGoals {
				name, target := "-", "-"
				if ug.Goal != nil {
					name = ug.Goal.Name
					target = formatMoney(ug.Goal.TargetAmount)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s%%\t%s\t%d\n",
					ug.ID,
					name,
					formatMoney(ug.Accumulated),
					target,
					ug.Metrics.ProgressPercent.StringFixed(0),
					formatMoney(ug.Metrics.RemainingAmount),
					ug.Metrics.DisplayDays,
				)
			}
			return w.Flush()
		},
	}
}

func NewCmd(app *App) *cobra.Command {
	var name, description, target, date, saved string

	c := &cobra.Command{
		Use:   "new",
		Short: "Create a goal and start tracking it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.RequireSession(cmd.Context()); err != nil {
				return err
			}

			targetAmount, err := parseAmount(target)
			if err != nil {
				return fmt.Errorf("invalid --target: %w", err)
			}
			accumulated, err := parseAmount(saved)
			if err != nil {
				return fmt.Errorf("invalid --saved: %w", err)
			}
			targetDate, err := parseDate(date)
			if err != nil {
				return fmt.Errorf("invalid --date: %w", err)
			}

			input := client.GoalInput{
				Name:         name,
				TargetAmount: targetAmount,
				TargetDate:   targetDate,
			}
			if description != "" {
				input.Description = &description
			}

			ug, err := app.Client().CreateUserGoal(cmd.Context(), input, accumulated)
			if err != nil {
				return err
			}
			app.Printf("Created %q (%s). Edit it with goalctl edit %s.\n", ug.Goal.Name, ug.ID, ug.ID)
			return nil
		},
	}
	c.Flags().StringVar(&name, "name", "", "goal name")
	c.Flags().StringVar(&description, "description", "", "goal description")
	c.Flags().StringVar(&target, "target", "", "target amount")
	c.Flags().StringVar(&date, "date", "", "target date (YYYY-MM-DD)")
	c.Flags().StringVar(&saved, "saved", "0", "amount already saved")
	_ = c.MarkFlagRequired("name")
	_ = c.MarkFlagRequired("target")
	return c
}

func DeleteCmd(app *App) *cobra.Command {
	var yes bool

	c := &cobra.Command{
		Use:   "delete <user-goal-id>",
		Short: "Delete a goal and its progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid user goal id: %w", err)
			}
			if _, err := app.RequireSession(cmd.Context()); err != nil {
				return err
			}

			ug, err := app.Client().GetUserGoal(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !yes && !app.Confirm(fmt.Sprintf("Delete %q?", goalName(ug))) {
				app.Printf("Kept.\n")
				return nil
			}
			if err := app.Client().DeleteUserGoal(cmd.Context(), ug.ID, ug.GoalID); err != nil {
				return err
			}
			app.Printf("Deleted.\n")
			return nil
		},
	}
	c.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return c
}

func goalName(ug client.UserGoal) string {
	if ug.Goal == nil || ug.Goal.Name == "" {
		return ug.ID.String()
	}
	return ug.Goal.Name
}

func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// parseAmount returns zero for an empty value and rejects negatives.
func parseAmount(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, err
	}
	if amount.IsNegative() {
		return decimal.Zero, errNegativeAmount
	}
	return amount, nil
}

// parseDate returns nil for an empty value.
func parseDate(value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	d, err := entity.ParseTargetDate(value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
