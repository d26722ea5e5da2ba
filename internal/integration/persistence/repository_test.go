package persistence

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/goal-tracker/backend/internal/domain/entity"
	domainerror "github.com/goal-tracker/backend/internal/domain/error"
	"github.com/goal-tracker/backend/internal/integration/persistence/model"
)

// newTestDB opens an isolated in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(
		&model.UserModel{},
		&model.GoalModel{},
		&model.AssignmentModel{},
		&model.EmailQueueModel{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *entity.User {
	t.Helper()
	user := entity.NewUser("Ana", email, "hash")
	if err := NewUserRepository(db).Create(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func seedGoal(t *testing.T, db *gorm.DB, name string, target int64) *entity.Goal {
	t.Helper()
	goal := entity.NewGoal(name, nil, decimal.NewFromInt(target), nil)
	if err := NewGoalRepository(db).Create(context.Background(), goal); err != nil {
		t.Fatalf("failed to seed goal: %v", err)
	}
	return goal
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("create and find by email ignoring case", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewUserRepository(db)
		user := seedUser(t, db, "ana@example.com")

		found, err := repo.FindByEmail(ctx, "  ANA@Example.com ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if found.ID != user.ID {
			t.Errorf("expected user %s, got %s", user.ID, found.ID)
		}
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewUserRepository(db)
		seedUser(t, db, "ana@example.com")

		err := repo.Create(ctx, entity.NewUser("Other", "Ana@Example.COM", "hash"))
		if !errors.Is(err, domainerror.ErrEmailAlreadyExists) {
			t.Errorf("expected ErrEmailAlreadyExists, got %v", err)
		}
	})

	t.Run("missing user", func(t *testing.T) {
		db := newTestDB(t)
		_, err := NewUserRepository(db).FindByID(ctx, uuid.New())
		if !errors.Is(err, domainerror.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("update applies only supplied fields", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewUserRepository(db)
		user := seedUser(t, db, "ana@example.com")

		name := "Ana Maria"
		updated, err := repo.Update(ctx, user.ID, entity.UserPatch{Name: &name})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.Name != name {
			t.Errorf("expected name %q, got %q", name, updated.Name)
		}
		if updated.Email != "ana@example.com" {
			t.Errorf("email should be unchanged, got %q", updated.Email)
		}
	})

	t.Run("update to a taken email is a conflict", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewUserRepository(db)
		seedUser(t, db, "ana@example.com")
		bob := seedUser(t, db, "bob@example.com")

		email := "ANA@example.com"
		_, err := repo.Update(ctx, bob.ID, entity.UserPatch{Email: &email})
		if !errors.Is(err, domainerror.ErrEmailAlreadyExists) {
			t.Errorf("expected ErrEmailAlreadyExists, got %v", err)
		}
	})

	t.Run("delete removes assignments and their goals", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewUserRepository(db)
		user := seedUser(t, db, "ana@example.com")
		goal := seedGoal(t, db, "Car", 1000)
		if err := NewAssignmentRepository(db).Create(ctx, entity.NewAssignment(user.ID, goal.ID, decimal.Zero)); err != nil {
			t.Fatalf("failed to assign: %v", err)
		}

		if err := repo.Delete(ctx, user.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var goals, assignments int64
		db.Model(&model.GoalModel{}).Count(&goals)
		db.Model(&model.AssignmentModel{}).Count(&assignments)
		if goals != 0 || assignments != 0 {
			t.Errorf("expected no goals or assignments, got %d goals and %d assignments", goals, assignments)
		}

		if err := repo.Delete(ctx, user.ID); !errors.Is(err, domainerror.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound on second delete, got %v", err)
		}
	})
}

func TestGoalRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("patch changes only supplied fields", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewGoalRepository(db)
		description := "red one"
		date := time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC)
		goal := entity.NewGoal("Car", &description, decimal.NewFromInt(1000), &date)
		if err := repo.Create(ctx, goal); err != nil {
			t.Fatalf("failed to create: %v", err)
		}

		name := "New car"
		updated, err := repo.Update(ctx, goal.ID, entity.GoalPatch{Name: &name})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.Name != name {
			t.Errorf("expected name %q, got %q", name, updated.Name)
		}
		if updated.Description == nil || *updated.Description != description {
			t.Errorf("description should be unchanged, got %v", updated.Description)
		}
		if !updated.TargetAmount.Equal(decimal.NewFromInt(1000)) {
			t.Errorf("target should be unchanged, got %s", updated.TargetAmount)
		}
		if updated.TargetDate == nil || !updated.TargetDate.Equal(date) {
			t.Errorf("date should be unchanged, got %v", updated.TargetDate)
		}
		if updated.UpdatedAt.Before(goal.UpdatedAt) {
			t.Error("updated_at should move forward")
		}
	})

	t.Run("patch clears nullable fields", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewGoalRepository(db)
		description := "red one"
		date := time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC)
		goal := entity.NewGoal("Car", &description, decimal.NewFromInt(1000), &date)
		if err := repo.Create(ctx, goal); err != nil {
			t.Fatalf("failed to create: %v", err)
		}

		updated, err := repo.Update(ctx, goal.ID, entity.GoalPatch{
			Description: entity.Nullable[string]{Set: true},
			TargetDate:  entity.Nullable[time.Time]{Set: true},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.Description != nil {
			t.Errorf("expected description cleared, got %q", *updated.Description)
		}
		if updated.TargetDate != nil {
			t.Errorf("expected date cleared, got %v", updated.TargetDate)
		}
	})

	t.Run("update of missing goal", func(t *testing.T) {
		db := newTestDB(t)
		name := "x"
		_, err := NewGoalRepository(db).Update(ctx, uuid.New(), entity.GoalPatch{Name: &name})
		if !errors.Is(err, domainerror.ErrGoalNotFound) {
			t.Errorf("expected ErrGoalNotFound, got %v", err)
		}
	})

	t.Run("delete removes the assignment and is not idempotent", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewGoalRepository(db)
		user := seedUser(t, db, "ana@example.com")
		goal := seedGoal(t, db, "Car", 1000)
		if err := NewAssignmentRepository(db).Create(ctx, entity.NewAssignment(user.ID, goal.ID, decimal.Zero)); err != nil {
			t.Fatalf("failed to assign: %v", err)
		}

		if err := repo.Delete(ctx, goal.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var assignments int64
		db.Model(&model.AssignmentModel{}).Count(&assignments)
		if assignments != 0 {
			t.Errorf("expected assignment removed, found %d", assignments)
		}

		if err := repo.Delete(ctx, goal.ID); !errors.Is(err, domainerror.ErrGoalNotFound) {
			t.Errorf("expected ErrGoalNotFound on second delete, got %v", err)
		}
	})

	t.Run("owner lookup and listing", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewGoalRepository(db)
		assignments := NewAssignmentRepository(db)
		user := seedUser(t, db, "ana@example.com")
		older := seedGoal(t, db, "Older", 100)
		newer := seedGoal(t, db, "Newer", 100)
		free := seedGoal(t, db, "Free", 100)

		first := entity.NewAssignment(user.ID, older.ID, decimal.Zero)
		first.AssignedAt = time.Now().UTC().Add(-time.Hour)
		second := entity.NewAssignment(user.ID, newer.ID, decimal.Zero)
		for _, a := range []*entity.Assignment{first, second} {
			if err := assignments.Create(ctx, a); err != nil {
				t.Fatalf("failed to assign: %v", err)
			}
		}

		owner, err := repo.OwnerOf(ctx, older.ID)
		if err != nil || owner == nil || *owner != user.ID {
			t.Errorf("expected owner %s, got %v (err %v)", user.ID, owner, err)
		}
		owner, err = repo.OwnerOf(ctx, free.ID)
		if err != nil || owner != nil {
			t.Errorf("expected no owner, got %v (err %v)", owner, err)
		}

		goals, err := repo.FindByOwner(ctx, user.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(goals) != 2 || goals[0].ID != newer.ID || goals[1].ID != older.ID {
			t.Errorf("expected newest assignment first, got %+v", goals)
		}
	})
}

func TestAssignmentRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("second insert of the same pair is a conflict", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewAssignmentRepository(db)
		user := seedUser(t, db, "ana@example.com")
		goal := seedGoal(t, db, "Car", 1000)

		if err := repo.Create(ctx, entity.NewAssignment(user.ID, goal.ID, decimal.Zero)); err != nil {
			t.Fatalf("first insert failed: %v", err)
		}
		err := repo.Create(ctx, entity.NewAssignment(user.ID, goal.ID, decimal.Zero))
		if !errors.Is(err, domainerror.ErrAssignmentExists) {
			t.Errorf("expected ErrAssignmentExists, got %v", err)
		}
	})

	t.Run("a goal cannot be assigned to a second user", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewAssignmentRepository(db)
		ana := seedUser(t, db, "ana@example.com")
		bob := seedUser(t, db, "bob@example.com")
		goal := seedGoal(t, db, "Car", 1000)

		if err := repo.Create(ctx, entity.NewAssignment(ana.ID, goal.ID, decimal.Zero)); err != nil {
			t.Fatalf("first insert failed: %v", err)
		}
		err := repo.Create(ctx, entity.NewAssignment(bob.ID, goal.ID, decimal.Zero))
		if !errors.Is(err, domainerror.ErrAssignmentExists) {
			t.Errorf("expected ErrAssignmentExists, got %v", err)
		}
	})

	t.Run("concurrent inserts of the same pair yield one success", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewAssignmentRepository(db)
		user := seedUser(t, db, "ana@example.com")
		goal := seedGoal(t, db, "Car", 1000)

		const attempts = 8
		errs := make(chan error, attempts)
		var wg sync.WaitGroup
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- repo.Create(ctx, entity.NewAssignment(user.ID, goal.ID, decimal.Zero))
			}()
		}
		wg.Wait()
		close(errs)

		created, conflicts := 0, 0
		for err := range errs {
			switch {
			case err == nil:
				created++
			case errors.Is(err, domainerror.ErrAssignmentExists):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}
		if created != 1 || conflicts != attempts-1 {
			t.Errorf("created = %d, conflicts = %d; want 1 and %d", created, conflicts, attempts-1)
		}
	})

	t.Run("update is idempotent", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewAssignmentRepository(db)
		user := seedUser(t, db, "ana@example.com")
		goal := seedGoal(t, db, "Car", 1000)
		assignment := entity.NewAssignment(user.ID, goal.ID, decimal.Zero)
		if err := repo.Create(ctx, assignment); err != nil {
			t.Fatalf("failed to assign: %v", err)
		}

		amount := decimal.NewFromInt(50)
		first, _, err := repo.UpdateAccumulated(ctx, assignment.ID, amount)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, _, err := repo.UpdateAccumulated(ctx, assignment.ID, amount)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !first.Assignment.AccumulatedAmount.Equal(amount) || !second.Assignment.AccumulatedAmount.Equal(amount) {
			t.Errorf("expected 50 both times, got %s and %s", first.Assignment.AccumulatedAmount, second.Assignment.AccumulatedAmount)
		}
		if second.Goal == nil || second.Goal.ID != goal.ID {
			t.Error("expected the goal to be joined")
		}
	})

	t.Run("only the crossing write reaches the target", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewAssignmentRepository(db)
		user := seedUser(t, db, "ana@example.com")
		goal := seedGoal(t, db, "Car", 1000)
		assignment := entity.NewAssignment(user.ID, goal.ID, decimal.NewFromInt(900))
		if err := repo.Create(ctx, assignment); err != nil {
			t.Fatalf("failed to assign: %v", err)
		}

		steps := []struct {
			amount  int64
			reached bool
		}{
			{amount: 950, reached: false},
			{amount: 1000, reached: true},
			{amount: 1200, reached: false},
			{amount: 1000, reached: false},
			{amount: 10, reached: false},
			{amount: 1500, reached: true},
		}
		for _, step := range steps {
			userGoal, reached, err := repo.UpdateAccumulated(ctx, assignment.ID, decimal.NewFromInt(step.amount))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if reached != step.reached {
				t.Errorf("update to %d: reached = %v, want %v", step.amount, reached, step.reached)
			}
			if !userGoal.Assignment.AccumulatedAmount.Equal(decimal.NewFromInt(step.amount)) {
				t.Errorf("expected %d stored, got %s", step.amount, userGoal.Assignment.AccumulatedAmount)
			}
		}
	})

	t.Run("concurrent crossings are reported once", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewAssignmentRepository(db)
		user := seedUser(t, db, "ana@example.com")
		goal := seedGoal(t, db, "Car", 1000)
		assignment := entity.NewAssignment(user.ID, goal.ID, decimal.NewFromInt(900))
		if err := repo.Create(ctx, assignment); err != nil {
			t.Fatalf("failed to assign: %v", err)
		}

		const writers = 8
		results := make(chan bool, writers)
		var wg sync.WaitGroup
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, reached, err := repo.UpdateAccumulated(ctx, assignment.ID, decimal.NewFromInt(1000))
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				results <- reached
			}()
		}
		wg.Wait()
		close(results)

		crossings := 0
		for reached := range results {
			if reached {
				crossings++
			}
		}
		if crossings != 1 {
			t.Errorf("crossings = %d, want 1", crossings)
		}
	})

	t.Run("missing assignment", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewAssignmentRepository(db)

		if _, _, err := repo.UpdateAccumulated(ctx, uuid.New(), decimal.Zero); !errors.Is(err, domainerror.ErrAssignmentNotFound) {
			t.Errorf("expected ErrAssignmentNotFound on update, got %v", err)
		}
		if err := repo.Delete(ctx, uuid.New()); !errors.Is(err, domainerror.ErrAssignmentNotFound) {
			t.Errorf("expected ErrAssignmentNotFound on delete, got %v", err)
		}
	})

	t.Run("list is newest first", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewAssignmentRepository(db)
		user := seedUser(t, db, "ana@example.com")
		older := entity.NewAssignment(user.ID, seedGoal(t, db, "Older", 10).ID, decimal.Zero)
		older.AssignedAt = time.Now().UTC().Add(-48 * time.Hour)
		newer := entity.NewAssignment(user.ID, seedGoal(t, db, "Newer", 10).ID, decimal.Zero)
		for _, a := range []*entity.Assignment{older, newer} {
			if err := repo.Create(ctx, a); err != nil {
				t.Fatalf("failed to assign: %v", err)
			}
		}

		list, err := repo.FindByUser(ctx, user.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(list) != 2 {
			t.Fatalf("expected 2 user goals, got %d", len(list))
		}
		if list[0].Assignment.ID != newer.ID || list[0].Goal.Name != "Newer" {
			t.Errorf("expected newest first, got %s", list[0].Goal.Name)
		}
	})
}

func TestEmailQueueRepository(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("claims due jobs once", func(t *testing.T) {
		repo := NewEmailQueueRepository(newTestDB(t))

		due := entity.NewEmailJob(entity.TemplateWelcome, "ana@example.com", "Ana", "Welcome", map[string]any{"user_name": "Ana"})
		due.ScheduledAt = now.Add(-time.Second)
		later := entity.NewEmailJob(entity.TemplateWelcome, "bob@example.com", "Bob", "Welcome", nil)
		later.ScheduledAt = now.Add(time.Hour)
		for _, job := range []*entity.EmailJob{due, later} {
			if err := repo.Create(ctx, job); err != nil {
				t.Fatalf("failed to queue: %v", err)
			}
		}

		jobs, err := repo.ClaimDue(ctx, now, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(jobs) != 1 || jobs[0].ID != due.ID || jobs[0].Status != entity.EmailStatusProcessing {
			t.Fatalf("expected the due job claimed, got %+v", jobs)
		}
		if jobs[0].TemplateData["user_name"] != "Ana" {
			t.Errorf("expected template data to round trip, got %v", jobs[0].TemplateData)
		}

		again, err := repo.ClaimDue(ctx, now, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(again) != 0 {
			t.Errorf("claimed job should not be returned twice, got %d", len(again))
		}

		stored, err := repo.GetByRecipient(ctx, "ana@example.com")
		if err != nil || len(stored) != 1 || stored[0].Status != entity.EmailStatusProcessing {
			t.Errorf("expected stored job in processing, got %+v (err %v)", stored, err)
		}
	})

	t.Run("deletes old sent jobs", func(t *testing.T) {
		repo := NewEmailQueueRepository(newTestDB(t))

		old := entity.NewEmailJob(entity.TemplateWelcome, "ana@example.com", "Ana", "Welcome", nil)
		recent := entity.NewEmailJob(entity.TemplateWelcome, "ana@example.com", "Ana", "Welcome", nil)
		pending := entity.NewEmailJob(entity.TemplateWelcome, "ana@example.com", "Ana", "Welcome", nil)
		for _, job := range []*entity.EmailJob{old, recent, pending} {
			if err := repo.Create(ctx, job); err != nil {
				t.Fatalf("failed to queue: %v", err)
			}
		}

		old.MarkSent("re_1")
		oldAt := now.Add(-48 * time.Hour)
		old.ProcessedAt = &oldAt
		recent.MarkSent("re_2")
		for _, job := range []*entity.EmailJob{old, recent} {
			if err := repo.Update(ctx, job); err != nil {
				t.Fatalf("failed to update: %v", err)
			}
		}

		deleted, err := repo.DeleteSentBefore(ctx, now.Add(-24*time.Hour))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if deleted != 1 {
			t.Errorf("deleted = %d, want 1", deleted)
		}

		left, _ := repo.GetByRecipient(ctx, "ana@example.com")
		if len(left) != 2 {
			t.Errorf("expected the recent and pending jobs to stay, got %d", len(left))
		}
	})
}
