// Package gormstore is the relational persistence gateway. Production
// runs it on postgres; tests run the same code on an in-memory sqlite.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/bchaput/rest-shop/internal/models"
	"github.com/bchaput/rest-shop/internal/store"
)

type Store struct {
	db *gorm.DB
}

func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return New(db)
}

// New migrates the schema on the given connection. Tests pass a sqlite
// handle here.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&models.Product{}, &models.User{}, &models.Order{}, &models.Category{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// notFound maps gorm's sentinel onto the gateway contract.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return err
}

func containsCI(q *gorm.DB, column, needle string) *gorm.DB {
	return q.Where("LOWER("+column+") LIKE ?", "%"+strings.ToLower(needle)+"%")
}

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *Store) Products(ctx context.Context, f store.ProductFilter) ([]models.Product, error) {
	q := s.db.WithContext(ctx).Model(&models.Product{}).Order("id ASC")
	if f.Name != "" {
		q = containsCI(q, "name", f.Name)
	}
	if f.About != "" {
		q = containsCI(q, "about", f.About)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}

	var items []models.Product
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ProductByID(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (s *Store) ProductsByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []models.Product
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) UpdateProduct(ctx context.Context, id string, f store.Fields) (*models.Product, error) {
	var p models.Product
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	store.ApplyProduct(&p, f)
	if err := s.db.WithContext(ctx).Save(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	res := s.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return s.db.WithContext(ctx).Create(u).Error
}

func (s *Store) Users(ctx context.Context) ([]models.User, error) {
	var items []models.User
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) UserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *Store) UpdateUser(ctx context.Context, id string, f store.Fields) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	store.ApplyUser(&u, f)
	if err := s.db.WithContext(ctx).Save(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	res := s.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *Store) CreateOrder(ctx context.Context, o *models.Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return s.db.WithContext(ctx).Create(o).Error
}

func (s *Store) Orders(ctx context.Context) ([]models.Order, error) {
	var items []models.Order
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) OrderByID(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	if err := s.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

func (s *Store) UpdateOrder(ctx context.Context, id string, f store.Fields) (*models.Order, error) {
	var o models.Order
	if err := s.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	store.ApplyOrder(&o, f)
	if err := s.db.WithContext(ctx).Save(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Store) DeleteOrder(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	if err := s.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	res := s.db.WithContext(ctx).Delete(&models.Order{}, "id = ?", id)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, store.ErrNotFound
	}
	return &o, nil
}

func (s *Store) CreateCategory(ctx context.Context, cat *models.Category) error {
	if cat.ID == "" {
		cat.ID = uuid.NewString()
	}
	return s.db.WithContext(ctx).Create(cat).Error
}

func (s *Store) Categories(ctx context.Context) ([]models.Category, error) {
	var items []models.Category
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
