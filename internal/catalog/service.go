package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quizdoc/quizdoc/internal/apperr"
	"github.com/quizdoc/quizdoc/internal/cache"
	"github.com/quizdoc/quizdoc/internal/exam"
	"github.com/quizdoc/quizdoc/internal/storage"
)

const deletedPrefix = "deleted_"

// Service owns the category and topic catalog.
type Service struct {
	store Store
	cache cache.Cache
	blobs storage.BlobStore
}

func NewService(store Store, c cache.Cache, blobs storage.BlobStore) *Service {
	return &Service{store: store, cache: c, blobs: blobs}
}

// NormalizeName canonicalizes category names: lowercase, spaces become
// underscores. "Internal Medicine" and "internal medicine" are the same
// category.
func NormalizeName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

func (s *Service) CreateCategory(ctx context.Context, name string, prevTopic bool) (*Category, error) {
	name = NormalizeName(name)
	if name == "" {
		return nil, apperr.Validation("category name is required")
	}
	if existing, err := s.store.LiveCategoryByName(ctx, name); err == nil && existing != nil {
		return nil, apperr.Conflict("category %s already exists", name)
	} else if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.Storage(err)
	}
	now := time.Now().Unix()
	c := &Category{ID: uuid.NewString(), Name: name, PrevTopic: prevTopic, CreatedAt: now, UpdatedAt: now}
	if err := s.store.CreateCategory(ctx, c); err != nil {
		return nil, apperr.Storage(err)
	}
	return c, nil
}

func (s *Service) ListCategories(ctx context.Context, prevTopic bool) ([]Category, error) {
	return s.store.ListCategories(ctx, prevTopic)
}

func (s *Service) ListDeletedCategories(ctx context.Context) ([]Category, error) {
	return s.store.ListDeletedCategories(ctx)
}

func (s *Service) RenameCategory(ctx context.Context, id, name string) (*Category, error) {
	name = NormalizeName(name)
	if name == "" {
		return nil, apperr.Validation("category name is required")
	}
	c, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing, err := s.store.LiveCategoryByName(ctx, name); err == nil && existing != nil && existing.ID != id {
		return nil, apperr.Conflict("category %s already exists", name)
	} else if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.Storage(err)
	}
	c.Name = name
	c.UpdatedAt = time.Now().Unix()
	if err := s.store.UpdateCategory(ctx, c); err != nil {
		return nil, apperr.Storage(err)
	}
	return c, nil
}

// SoftDeleteCategory hides the category under a mangled recoverable name
// and drops its memoized question sets.
func (s *Service) SoftDeleteCategory(ctx context.Context, id string) (*Category, error) {
	c, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Deleted {
		return nil, apperr.Conflict("category already deleted")
	}
	c.Name = fmt.Sprintf("%s%s_%d", deletedPrefix, c.Name, time.Now().UnixMilli())
	c.Deleted = true
	c.UpdatedAt = time.Now().Unix()
	if err := s.store.UpdateCategory(ctx, c); err != nil {
		return nil, apperr.Storage(err)
	}
	s.purgeQuestionCache(ctx, id)
	return c, nil
}

// RestoreCategory brings a soft-deleted category back under its original
// name, refusing when a live category took the name in the meantime.
func (s *Service) RestoreCategory(ctx context.Context, id string) (*Category, error) {
	c, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.Deleted {
		return nil, apperr.Validation("category is not deleted")
	}
	original := originalName(c.Name)
	if existing, err := s.store.LiveCategoryByName(ctx, original); err == nil && existing != nil {
		return nil, apperr.Conflict("category %s already exists", original)
	} else if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.Storage(err)
	}
	c.Name = original
	c.Deleted = false
	c.UpdatedAt = time.Now().Unix()
	if err := s.store.UpdateCategory(ctx, c); err != nil {
		return nil, apperr.Storage(err)
	}
	return c, nil
}

// originalName undoes the soft-delete mangling: deleted_<name>_<millis>
// maps back to <name>.
func originalName(mangled string) string {
	name := strings.TrimPrefix(mangled, deletedPrefix)
	if i := strings.LastIndex(name, "_"); i > 0 {
		name = name[:i]
	}
	return name
}

func (s *Service) purgeQuestionCache(ctx context.Context, categoryID string) {
	keys, err := s.cache.Keys(ctx, exam.QuestionCachePattern(categoryID))
	if err != nil {
		log.Printf("purge question cache for %s: %v", categoryID, err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := s.cache.Del(ctx, keys...); err != nil {
		log.Printf("purge question cache for %s: %v", categoryID, err)
	}
}

func (s *Service) CreateTopic(ctx context.Context, name string) (*Topic, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("topic name is required")
	}
	if existing, err := s.store.TopicByName(ctx, name); err == nil && existing != nil {
		return nil, apperr.Conflict("topic %s already exists", name)
	} else if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.Storage(err)
	}
	now := time.Now().Unix()
	t := &Topic{ID: uuid.NewString(), Name: name, CreatedAt: now, UpdatedAt: now}
	if err := s.store.CreateTopic(ctx, t); err != nil {
		return nil, apperr.Storage(err)
	}
	return t, nil
}

func (s *Service) ListTopics(ctx context.Context) ([]Topic, error) {
	return s.store.ListTopics(ctx)
}

func (s *Service) GetTopic(ctx context.Context, id string) (*Topic, error) {
	return s.store.GetTopic(ctx, id)
}

func (s *Service) RenameTopic(ctx context.Context, id, name string) (*Topic, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("topic name is required")
	}
	t, err := s.store.GetTopic(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing, err := s.store.TopicByName(ctx, name); err == nil && existing != nil && existing.ID != id {
		return nil, apperr.Conflict("topic %s already exists", name)
	} else if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.Storage(err)
	}
	t.Name = name
	t.UpdatedAt = time.Now().Unix()
	if err := s.store.UpdateTopic(ctx, t); err != nil {
		return nil, apperr.Storage(err)
	}
	return t, nil
}

func (s *Service) DeleteTopic(ctx context.Context, id string) error {
	if _, err := s.store.GetTopic(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteTopic(ctx, id); err != nil {
		return apperr.Storage(err)
	}
	return nil
}
