package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"newsdesk/internal/storage"
)

// CommentService 提供评论的 CRUD；变更与删除仅限作者本人。
type CommentService struct{ db *gorm.DB }

func NewCommentService(db *gorm.DB) *CommentService { return &CommentService{db: db} }

// List 返回按插入顺序分页的评论列表；newsID 非 nil 时按新闻过滤。
func (s *CommentService) List(ctx context.Context, newsID *uint64, offset, limit int) ([]storage.Comment, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		return []storage.Comment{}, nil
	}
	q := s.db.WithContext(ctx).Order("id").Offset(offset).Limit(limit)
	if newsID != nil {
		q = q.Where("news_id = ?", *newsID)
	}
	var list []storage.Comment
	if err := q.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// GetByID 按主键查询；不存在时返回 ErrNotFound。
func (s *CommentService) GetByID(ctx context.Context, id uint64) (*storage.Comment, error) {
	c, err := storage.GetObject[storage.Comment](ctx, s.db, "id", id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("comment %d: %w", id, ErrNotFound)
	}
	return c, nil
}

// Create 创建评论。作者取自已解析的调用者身份，从不接受客户端指定；
// 新闻引用必须解析到已存在的新闻。
func (s *CommentService) Create(ctx context.Context, userID uint64, newsID uint64, content string) (*storage.Comment, error) {
	n, err := storage.GetObject[storage.News](ctx, s.db, "id", newsID)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, fmt.Errorf("news %d: %w", newsID, ErrNotFound)
	}
	c := &storage.Comment{Content: content, NewsID: newsID, UserID: userID}
	return storage.CreateObject(ctx, s.db, c, true)
}

// Update 加载评论（缺失返回 ErrNotFound），作者不匹配返回 ErrForbidden，
// 否则应用 data 中出现的字段并提交。归属判定为顶部守卫子句。
func (s *CommentService) Update(ctx context.Context, userID, id uint64, data map[string]any) (*storage.Comment, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, fmt.Errorf("comment %d not owned by user %d: %w", id, userID, ErrForbidden)
	}
	return storage.UpdateObject(ctx, s.db, c, data)
}

// Delete 与 Update 相同的存在性与归属检查，然后删除记录。
func (s *CommentService) Delete(ctx context.Context, userID, id uint64) error {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c.UserID != userID {
		return fmt.Errorf("comment %d not owned by user %d: %w", id, userID, ErrForbidden)
	}
	return storage.DeleteObject(ctx, s.db, c, true)
}
