package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"weeklybudget/internal/core"
)

func TestTagLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, monday)

	food, err := f.svc.AddTag(ctx, "  food  ")
	if err != nil {
		t.Fatalf("AddTag: %v", err)
	}
	if food.Name != "food" {
		t.Errorf("name = %q, want trimmed %q", food.Name, "food")
	}

	travel, _ := f.svc.AddTag(ctx, "travel")

	tags, err := f.svc.ListTags(ctx)
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("listed %d tags, want 2", len(tags))
	}

	renamed, err := f.svc.RenameTag(ctx, food.ID, "groceries")
	if err != nil {
		t.Fatalf("RenameTag: %v", err)
	}
	if renamed.ID != food.ID || renamed.Name != "groceries" {
		t.Errorf("renamed = %+v", renamed)
	}

	if err := f.svc.DeleteTag(ctx, travel.ID); err != nil {
		t.Fatalf("DeleteTag: %v", err)
	}
	tags, _ = f.svc.ListTags(ctx)
	if len(tags) != 1 || tags[0].Name != "groceries" {
		t.Errorf("after delete: %+v", tags)
	}
}

func TestTagValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, monday)

	if _, err := f.svc.AddTag(ctx, "   "); !errors.Is(err, core.ErrEmptyTagName) {
		t.Errorf("blank name: %v", err)
	}
	if _, err := f.svc.RenameTag(ctx, uuid.New(), "x"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("rename missing: %v", err)
	}
	if err := f.svc.DeleteTag(ctx, uuid.New()); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("delete missing: %v", err)
	}
}

// Deleting a tag leaves past expenses untouched.
func TestDeleteTagKeepsExpenseReferences(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, monday)
	_, _ = f.svc.SetupWeek(ctx, core.Money{Cents: 50_000_00})

	tag, _ := f.svc.AddTag(ctx, "food")
	_, _ = f.svc.AddExpense(ctx, core.Money{Cents: 1200}, "snack", []core.Tag{tag})

	if err := f.svc.DeleteTag(ctx, tag.ID); err != nil {
		t.Fatalf("DeleteTag: %v", err)
	}

	expenses, _ := f.svc.ListExpenses(ctx)
	if len(expenses) != 1 || len(expenses[0].Tags) != 1 || expenses[0].Tags[0].ID != tag.ID {
		t.Errorf("expense tags mutated: %+v", expenses)
	}
}

func TestResolveTagsSkipsUnknownIDs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, monday)

	tag, _ := f.svc.AddTag(ctx, "food")
	resolved, err := f.svc.ResolveTags(ctx, []uuid.UUID{tag.ID, uuid.New()})
	if err != nil {
		t.Fatalf("ResolveTags: %v", err)
	}
	if len(resolved) != 1 || resolved[0] != tag {
		t.Errorf("resolved = %+v", resolved)
	}
}
