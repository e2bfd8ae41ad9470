package repository

import (
	"context"
	"errors"

	"optimagrowth-licensing/pkg/db/option"

	"gorm.io/gorm"
)

// Repository is the generic gorm-backed store used by the services. Query
// structs are matched by their non-zero fields.
type Repository[T any] interface {
	Find(ctx context.Context, query *T, opts ...option.QueryOption) ([]*T, error)
	FindOne(ctx context.Context, query *T, opts ...option.QueryOption) (*T, error)
	Save(ctx context.Context, entity *T) error
	Delete(ctx context.Context, query *T) error
	Count(ctx context.Context, query *T) (int64, error)
	Exists(ctx context.Context, query *T) (bool, error)
}

type store[T any] struct {
	db *gorm.DB
}

func ProvideStore[T any](db *gorm.DB) Repository[T] {
	return &store[T]{db: db}
}

func (s *store[T]) Find(ctx context.Context, query *T, opts ...option.QueryOption) ([]*T, error) {
	tx := s.db.WithContext(ctx).Where(query)
	for _, opt := range opts {
		tx = opt(tx)
	}

	var out []*T
	if err := tx.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// FindOne returns (nil, nil) when no row matches.
func (s *store[T]) FindOne(ctx context.Context, query *T, opts ...option.QueryOption) (*T, error) {
	tx := s.db.WithContext(ctx).Where(query)
	for _, opt := range opts {
		tx = opt(tx)
	}

	var out T
	if err := tx.First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

// Save inserts or replaces by primary key.
func (s *store[T]) Save(ctx context.Context, entity *T) error {
	return s.db.WithContext(ctx).Save(entity).Error
}

// Delete removes every row matching the query. Matching nothing is not an
// error.
func (s *store[T]) Delete(ctx context.Context, query *T) error {
	var zero T
	return s.db.WithContext(ctx).Where(query).Delete(&zero).Error
}

func (s *store[T]) Count(ctx context.Context, query *T) (int64, error) {
	var zero T
	var n int64
	if err := s.db.WithContext(ctx).Model(&zero).Where(query).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (s *store[T]) Exists(ctx context.Context, query *T) (bool, error) {
	n, err := s.Count(ctx, query)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
