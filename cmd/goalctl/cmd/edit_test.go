package cmd

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/goal-tracker/backend/config"
	"github.com/goal-tracker/backend/internal/autosave"
	"github.com/goal-tracker/backend/internal/client"
	"github.com/goal-tracker/backend/internal/domain/entity"
)

type recordingStore struct {
	mu      sync.Mutex
	patches []entity.GoalPatch
	amounts []decimal.Decimal
	deletes int
	goalErr error
}

func (s *recordingStore) UpdateGoal(ctx context.Context, id uuid.UUID, patch entity.GoalPatch) (client.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patches = append(s.patches, patch)
	return client.Goal{ID: id}, s.goalErr
}

func (s *recordingStore) UpdateUserGoal(ctx context.Context, id uuid.UUID, accumulated decimal.Decimal) (client.UserGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.amounts = append(s.amounts, accumulated)
	return client.UserGoal{ID: id}, nil
}

func (s *recordingStore) DeleteUserGoal(ctx context.Context, assignmentID, goalID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
	return nil
}

func newTestEditor(store autosave.Store, initial autosave.Form) (*App, *bytes.Buffer, *autosave.Pipeline) {
	var out bytes.Buffer
	app := NewApp(&config.Config{}, strings.NewReader(""), &out)
	pipe := autosave.New(store, autosave.Config{
		AssignmentID: uuid.New(),
		GoalID:       uuid.New(),
		Scheduler:    autosave.NewVirtualScheduler(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)),
	}, initial)
	return app, &out, pipe
}

func feed(lines ...string) <-chan string {
	ch := make(chan string, len(lines))
	for _, l := range lines {
		ch <- l
	}
	close(ch)
	return ch
}

func TestApplyField(t *testing.T) {
	base := autosave.Form{Name: "Car", Target: decimal.NewFromInt(1000)}
	date := time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		field   string
		value   string
		want    autosave.Form
		wantErr bool
	}{
		{name: "name", field: "name", value: "Trip", want: autosave.Form{Name: "Trip", Target: decimal.NewFromInt(1000)}},
		{name: "target", field: "TARGET", value: "2500.50", want: autosave.Form{Name: "Car", Target: decimal.RequireFromString("2500.50")}},
		{name: "saved", field: "saved", value: "120", want: autosave.Form{Name: "Car", Target: decimal.NewFromInt(1000), Accumulated: decimal.NewFromInt(120)}},
		{name: "date", field: "date", value: "2027-01-31", want: autosave.Form{Name: "Car", Target: decimal.NewFromInt(1000), TargetDate: &date}},
		{name: "clear date", field: "date", value: "", want: base},
		{name: "bad amount", field: "target", value: "lots", wantErr: true},
		{name: "negative target", field: "target", value: "-1", wantErr: true},
		{name: "negative saved", field: "saved", value: "-0.01", wantErr: true},
		{name: "zero target", field: "target", value: "0", want: autosave.Form{Name: "Car"}},
		{name: "bad date", field: "date", value: "31/01/2027", wantErr: true},
		{name: "unknown field", field: "color", value: "red", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := applyField(base, tt.field, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("applyField() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.Name != tt.want.Name || !got.Target.Equal(tt.want.Target) || !got.Accumulated.Equal(tt.want.Accumulated) {
				t.Errorf("applyField() = %+v, want %+v", got, tt.want)
			}
			if (got.TargetDate == nil) != (tt.want.TargetDate == nil) ||
				(got.TargetDate != nil && !got.TargetDate.Equal(*tt.want.TargetDate)) {
				t.Errorf("TargetDate = %v, want %v", got.TargetDate, tt.want.TargetDate)
			}
		})
	}
}

func TestRunEditor(t *testing.T) {
	t.Run("quit saves the latest form", func(t *testing.T) {
		store := &recordingStore{}
		app, out, pipe := newTestEditor(store, autosave.Form{Name: "Car", Target: decimal.NewFromInt(1000)})

		err := runEditor(context.Background(), app, pipe, feed("name Trip", "saved 300", "quit"))
		if err != nil {
			t.Fatalf("runEditor() error = %v", err)
		}

		if len(store.patches) != 1 || *store.patches[0].Name != "Trip" {
			t.Fatalf("patches = %+v, want one write of Trip", store.patches)
		}
		if !store.amounts[0].Equal(decimal.NewFromInt(300)) {
			t.Errorf("amount = %s, want 300", store.amounts[0])
		}
		if !strings.Contains(out.String(), "30% done") {
			t.Errorf("output lacks live metrics:\n%s", out.String())
		}
		if !strings.Contains(out.String(), "All changes saved.") {
			t.Errorf("output lacks save confirmation:\n%s", out.String())
		}
	})

	t.Run("zero target asks before deleting", func(t *testing.T) {
		store := &recordingStore{}
		app, out, pipe := newTestEditor(store, autosave.Form{Name: "Car", Target: decimal.NewFromInt(1000)})

		err := runEditor(context.Background(), app, pipe, feed("target 0", "quit", "n", "quit", "y"))
		if err != nil {
			t.Fatalf("runEditor() error = %v", err)
		}

		if store.deletes != 1 {
			t.Errorf("deletes = %d, want 1", store.deletes)
		}
		if len(store.patches) != 0 {
			t.Errorf("patches = %d, want the abandoned edit discarded", len(store.patches))
		}
		if strings.Count(out.String(), "Delete this goal?") != 2 {
			t.Errorf("expected two confirmations:\n%s", out.String())
		}
		if !strings.Contains(out.String(), "Goal deleted.") {
			t.Errorf("output lacks deletion notice:\n%s", out.String())
		}
	})

	t.Run("end of input saves pending edits", func(t *testing.T) {
		store := &recordingStore{}
		app, _, pipe := newTestEditor(store, autosave.Form{Name: "Car", Target: decimal.NewFromInt(1000)})

		if err := runEditor(context.Background(), app, pipe, feed("saved 10", "color blue")); err != nil {
			t.Fatalf("runEditor() error = %v", err)
		}

		if len(store.amounts) != 1 || !store.amounts[0].Equal(decimal.NewFromInt(10)) {
			t.Errorf("amounts = %v, want [10]", store.amounts)
		}
		if err := pipe.Edit(autosave.Form{}); err == nil {
			t.Error("pipeline still open after the editor returned")
		}
	})
}
