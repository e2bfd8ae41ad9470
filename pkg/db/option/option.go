package option

import "gorm.io/gorm"

// QueryOption shapes a repository query before it runs.
type QueryOption func(*gorm.DB) *gorm.DB

func WithOrder(order string) QueryOption {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Order(order)
	}
}
