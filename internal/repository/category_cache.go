package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
)

const categoryCacheTTL = 5 * time.Minute

// cachedCategoryRepository is a read-through Redis cache in front of the
// category repository. The directory is read on every ticket creation, so
// point lookups are cached by id; mutations invalidate. Cache failures fall
// back to the underlying repository.
type cachedCategoryRepository struct {
	inner  CategoryRepository
	client *redis.Client
}

// NewCachedCategoryRepository decorates repo with a Redis cache. Returns repo
// unchanged when no client is configured.
func NewCachedCategoryRepository(repo CategoryRepository, client *redis.Client) CategoryRepository {
	if client == nil {
		return repo
	}
	return &cachedCategoryRepository{inner: repo, client: client}
}

func categoryCacheKey(id int64) string {
	return fmt.Sprintf("helpdesk:category:%d", id)
}

func (r *cachedCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	return r.inner.Create(ctx, category)
}

func (r *cachedCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	if err := r.inner.Update(ctx, category); err != nil {
		return err
	}
	r.client.Del(ctx, categoryCacheKey(category.ID))
	return nil
}

func (r *cachedCategoryRepository) Delete(ctx context.Context, id int64) error {
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	r.client.Del(ctx, categoryCacheKey(id))
	return nil
}

func (r *cachedCategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	raw, err := r.client.Get(ctx, categoryCacheKey(id)).Bytes()
	if err == nil {
		var category domain.Category
		if jsonErr := json.Unmarshal(raw, &category); jsonErr == nil {
			return &category, nil
		}
	}

	category, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if encoded, jsonErr := json.Marshal(category); jsonErr == nil {
		r.client.Set(ctx, categoryCacheKey(id), encoded, categoryCacheTTL)
	}
	return category, nil
}

func (r *cachedCategoryRepository) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	return r.inner.GetByName(ctx, name)
}

func (r *cachedCategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	return r.inner.List(ctx)
}
