package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"weeklybudget/internal/core"
	"weeklybudget/internal/store"
)

// Tags are an independent top-level collection. Expenses reference them by
// value; deleting a tag leaves those references in place.

func (s *BudgetService) ListTags(ctx context.Context) ([]core.Tag, error) {
	var tags []core.Tag
	if err := store.GetJSON(ctx, s.store, store.KeyTags, &tags); err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	return tags, nil
}

// AddTag creates a tag with the given name.
func (s *BudgetService) AddTag(ctx context.Context, name string) (core.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.Tag{}, core.ErrEmptyTagName
	}

	tags, err := s.ListTags(ctx)
	if err != nil {
		return core.Tag{}, err
	}

	tag := core.Tag{ID: uuid.New(), Name: name}
	tags = append(tags, tag)
	if err := s.saveTags(ctx, tags); err != nil {
		return core.Tag{}, err
	}

	slog.InfoContext(ctx, "Tag added", "tag_id", tag.ID, "name", tag.Name)
	return tag, nil
}

// RenameTag changes a tag's name in the collection. Expenses that embedded
// the old name keep it; references are by id.
func (s *BudgetService) RenameTag(ctx context.Context, id uuid.UUID, name string) (core.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.Tag{}, core.ErrEmptyTagName
	}

	tags, err := s.ListTags(ctx)
	if err != nil {
		return core.Tag{}, err
	}
	for i, t := range tags {
		if t.ID == id {
			tags[i].Name = name
			if err := s.saveTags(ctx, tags); err != nil {
				return core.Tag{}, err
			}
			return tags[i], nil
		}
	}
	return core.Tag{}, core.ErrNotFound
}

// DeleteTag removes a tag. No cascade: expenses referencing it keep their
// now-orphaned reference.
func (s *BudgetService) DeleteTag(ctx context.Context, id uuid.UUID) error {
	tags, err := s.ListTags(ctx)
	if err != nil {
		return err
	}
	idx := -1
	for i, t := range tags {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return core.ErrNotFound
	}
	tags = append(tags[:idx], tags[idx+1:]...)
	if err := s.saveTags(ctx, tags); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Tag deleted", "tag_id", id)
	return nil
}

func (s *BudgetService) saveTags(ctx context.Context, tags []core.Tag) error {
	if err := store.SetJSON(ctx, s.store, store.KeyTags, tags); err != nil {
		return fmt.Errorf("save tags: %w", err)
	}
	return nil
}
