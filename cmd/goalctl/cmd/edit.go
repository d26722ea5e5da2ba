package cmd

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/goal-tracker/backend/internal/autosave"
	"github.com/goal-tracker/backend/internal/client"
	"github.com/goal-tracker/backend/internal/domain/entity"
	"github.com/goal-tracker/backend/internal/domain/valueobject"
)

const editorHelp = `Change a field by typing "<field> <value>". Changes save on their own.
  name <text>          goal name
  target <amount>      target amount
  date <YYYY-MM-DD>    target date, "date" alone clears it
  saved <amount>       amount saved so far
  show                 print the goal and the save state
  save                 save now
  quit                 save and leave
`

func EditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <user-goal-id>",
		Short: "Edit a goal interactively with autosave",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid user goal id: %w", err)
			}
			ctx := cmd.Context()
			if _, err := app.RequireSession(ctx); err != nil {
				return err
			}

			ug, err := app.Client().GetUserGoal(ctx, id)
			if err != nil {
				return err
			}

			pipe := autosave.New(app.Client(), autosave.Config{
				AssignmentID: ug.ID,
				GoalID:       ug.GoalID,
				Delay:        app.cfg.Client.AutosaveDelay,
				MaxRetries:   app.cfg.Client.AutosaveMaxRetries,
				OnSaved: func(autosave.Snapshot) {
					app.Printf("  (saved)\n")
				},
			}, formFromUserGoal(ug))

			return runEditor(ctx, app, pipe, readLines(app.in))
		},
	}
}

func formFromUserGoal(ug client.UserGoal) autosave.Form {
	form := autosave.Form{Accumulated: ug.Accumulated}
	if ug.Goal != nil {
		form.Name = ug.Goal.Name
		form.Target = ug.Goal.TargetAmount
		form.TargetDate = ug.Goal.TargetDate
	}
	return form
}

// readLines feeds input lines to a channel that is closed at end of input.
func readLines(r *bufio.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		for {
			line, err := r.ReadString('\n')
			if line = strings.TrimSpace(line); line != "" || err == nil {
				lines <- line
			}
			if err != nil {
				return
			}
		}
	}()
	return lines
}

// runEditor applies commands from lines to the pipeline until the user
// leaves, the input ends or ctx is cancelled. The last two save and close.
func runEditor(ctx context.Context, app *App, pipe *autosave.Pipeline, lines <-chan string) error {
	app.Printf("%s\n", editorHelp)
	printForm(app, pipe.Current())

	confirm := func(ctx context.Context) bool {
		app.Printf("The target is zero. Delete this goal? [y/N]: ")
		select {
		case line, ok := <-lines:
			return ok && isYes(line)
		case <-ctx.Done():
			return false
		}
	}

	for {
		var line string
		var ok bool
		select {
		case <-ctx.Done():
			return saveAndClose(app, pipe)
		case line, ok = <-lines:
		}
		if !ok {
			return saveAndClose(app, pipe)
		}

		field, value, _ := strings.Cut(line, " ")
		switch strings.ToLower(field) {
		case "":
			continue
		case "help", "?":
			app.Printf("%s\n", editorHelp)
		case "show":
			printForm(app, pipe.Current())
			printStatus(app, pipe.Status())
		case "save":
			if err := pipe.Flush(ctx); err != nil {
				app.Printf("Save failed: %v\n", err)
				continue
			}
			app.Printf("All changes saved.\n")
		case "quit", "q", "exit":
			result, err := pipe.Leave(ctx, confirm)
			if err != nil {
				app.Printf("Could not leave: %v\n", err)
				continue
			}
			switch result {
			case autosave.LeaveDeleted:
				app.Printf("Goal deleted.\n")
				return nil
			case autosave.LeaveSaved:
				app.Printf("All changes saved.\n")
				return nil
			}
			app.Printf("Set a target to keep the goal.\n")
		default:
			form, err := applyField(pipe.Current(), field, strings.TrimSpace(value))
			if err != nil {
				app.Printf("%v\n", err)
				continue
			}
			if err := pipe.Edit(form); err != nil {
				return err
			}
			printMetrics(app, form)
		}
	}
}

// saveAndClose writes pending edits on a fresh context so an interrupt still saves.
func saveAndClose(app *App, pipe *autosave.Pipeline) error {
	ctx, cancel := context.WithTimeout(context.Background(), autosave.DefaultWriteTimeout)
	defer cancel()
	defer pipe.Close()

	if err := pipe.Flush(ctx); err != nil {
		return fmt.Errorf("failed to save changes: %w", err)
	}
	return nil
}

// applyField returns form with one field changed.
func applyField(form autosave.Form, field, value string) (autosave.Form, error) {
	switch strings.ToLower(field) {
	case "name":
		form.Name = value
	case "target":
		amount, err := parseAmount(value)
		if err != nil {
			return form, fmt.Errorf("invalid target amount %q: %w", value, err)
		}
		form.Target = amount
	case "saved":
		amount, err := parseAmount(value)
		if err != nil {
			return form, fmt.Errorf("invalid saved amount %q: %w", value, err)
		}
		form.Accumulated = amount
	case "date":
		date, err := parseDate(value)
		if err != nil {
			return form, fmt.Errorf("invalid date %q, use YYYY-MM-DD", value)
		}
		form.TargetDate = date
	default:
		return form, fmt.Errorf("unknown field %q, type help for the list", field)
	}
	return form, nil
}

func printForm(app *App, form autosave.Form) {
	date := "none"
	if form.TargetDate != nil {
		date = form.TargetDate.Format(entity.DateLayout)
	}
	app.Printf("%s\n  target %s by %s, saved %s\n",
		form.Name,
		formatMoney(form.Target),
		date,
		formatMoney(form.Accumulated),
	)
	printMetrics(app, form)
}

func printMetrics(app *App, form autosave.Form) {
	m := valueobject.ComputeGoalMetrics(form.Accumulated, form.Target, form.TargetDate, time.Now())
	app.Printf("  %s%% done, %s to go, %d days left\n",
		m.ProgressPercent.StringFixed(0),
		formatMoney(m.RemainingAmount),
		valueobject.DisplayDays(m.DaysRemaining),
	)
}

func printStatus(app *App, st autosave.Status) {
	switch {
	case st.LastErr != nil && st.Dirty:
		app.Printf("  %s, last save failed: %v\n", st.State, st.LastErr)
	case st.Dirty:
		app.Printf("  %s, unsaved changes\n", st.State)
	default:
		app.Printf("  %s, all changes saved\n", st.State)
	}
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
