package database

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repo is the CRUD repository shared by every content collection.
type Repo[T any] struct {
	db *gorm.DB
}

func NewRepo[T any](db *gorm.DB) *Repo[T] {
	return &Repo[T]{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *Repo[T]) GetDB() *gorm.DB {
	return r.db
}

// FindAll returns every record matching the scopes
func (r *Repo[T]) FindAll(scopes ...Scope) ([]*T, error) {
	var items []*T
	err := r.db.Scopes(scopes...).Find(&items).Error
	return items, err
}

// FindByID returns a record by its ID or gorm.ErrRecordNotFound
func (r *Repo[T]) FindByID(id uint, scopes ...Scope) (*T, error) {
	var item T
	err := r.db.Scopes(scopes...).First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Count returns the number of records matching the scopes
func (r *Repo[T]) Count(scopes ...Scope) (int64, error) {
	var count int64
	err := r.db.Model(new(T)).Scopes(scopes...).Count(&count).Error
	return count, err
}

// Add inserts a new record; associations are managed by their own repos
func (r *Repo[T]) Add(item *T) error {
	return r.db.Omit(clause.Associations).Create(item).Error
}

// Update saves every column of an existing record
func (r *Repo[T]) Update(item *T) error {
	return r.db.Omit(clause.Associations).Save(item).Error
}

// UpdateColumns writes the given columns without touching updated_at
func (r *Repo[T]) UpdateColumns(id uint, values map[string]interface{}) error {
	res := r.db.Model(new(T)).Where("id = ?", id).UpdateColumns(values)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a record by id
func (r *Repo[T]) Delete(id uint) error {
	res := r.db.Delete(new(T), id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Toggle flips a boolean column and returns the refreshed record.
// column must come from a fixed allow-list, never from user input.
func (r *Repo[T]) Toggle(id uint, column string) (*T, error) {
	res := r.db.Model(new(T)).Where("id = ?", id).Update(column, gorm.Expr("NOT "+column))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(id)
}

// NextOrder returns the display order that appends a record at the end of the
// collection.
func (r *Repo[T]) NextOrder(scopes ...Scope) (int, error) {
	var max *int
	err := r.db.Model(new(T)).Scopes(scopes...).Select("MAX(display_order)").Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max + 1, nil
}
