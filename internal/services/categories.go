package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"newsdesk/internal/storage"
)

// CategoryService 提供分类的 CRUD，含部分更新。
type CategoryService struct{ db *gorm.DB }

func NewCategoryService(db *gorm.DB) *CategoryService { return &CategoryService{db: db} }

// List 返回按插入顺序分页的分类列表。
func (s *CategoryService) List(ctx context.Context, offset, limit int) ([]storage.Category, error) {
	return storage.GetObjects[storage.Category](ctx, s.db, offset, limit)
}

// GetByID 按主键查询；不存在时返回 ErrNotFound。
func (s *CategoryService) GetByID(ctx context.Context, id uint64) (*storage.Category, error) {
	cat, err := storage.GetObject[storage.Category](ctx, s.db, "id", id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, fmt.Errorf("category %d: %w", id, ErrNotFound)
	}
	return cat, nil
}

// Create 创建分类（仅接收名称，时间戳由服务端生成）。
func (s *CategoryService) Create(ctx context.Context, name string) (*storage.Category, error) {
	return storage.CreateObject(ctx, s.db, &storage.Category{Name: name}, true)
}

// Update 对已有分类应用 data 中出现的字段；全量与部分更新共用此路径，
// 缺席字段不被重置，创建时间戳不受影响。
func (s *CategoryService) Update(ctx context.Context, id uint64, data map[string]any) (*storage.Category, error) {
	cat, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return storage.UpdateObject(ctx, s.db, cat, data)
}

// Delete 删除分类。存在依赖新闻时拒绝（restrict 策略），返回 ErrConflict。
func (s *CategoryService) Delete(ctx context.Context, id uint64) error {
	cat, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	var dependents int64
	if err := s.db.WithContext(ctx).Model(&storage.News{}).Where("category_id = ?", id).Count(&dependents).Error; err != nil {
		return err
	}
	if dependents > 0 {
		return fmt.Errorf("category %d has %d news: %w", id, dependents, ErrConflict)
	}
	return storage.DeleteObject(ctx, s.db, cat, true)
}
