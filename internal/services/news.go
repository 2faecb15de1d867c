package services

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"newsdesk/internal/storage"
)

// NewsService 提供新闻的 CRUD：创建时校验分类引用、更新时刷新时间戳并
// 整表替换图片列表、删除时级联清理评论并尽力删除已存储文件。
type NewsService struct {
	db    *gorm.DB
	files FileStore
}

func NewNewsService(db *gorm.DB, files FileStore) *NewsService {
	return &NewsService{db: db, files: files}
}

// CreateNewsInput 为创建新闻的入参；Images 为已存储文件引用，
// 二进制上传由外部协作方（上传处理）在调用本服务前完成。
type CreateNewsInput struct {
	Title      string
	Content    string
	Images     []string
	CategoryID uint64
}

// List 返回按插入顺序分页的新闻列表。
func (s *NewsService) List(ctx context.Context, offset, limit int) ([]storage.News, error) {
	return storage.GetObjects[storage.News](ctx, s.db, offset, limit)
}

// GetByID 按主键查询；不存在时返回 ErrNotFound。
func (s *NewsService) GetByID(ctx context.Context, id uint64) (*storage.News, error) {
	n, err := storage.GetObject[storage.News](ctx, s.db, "id", id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, fmt.Errorf("news %d: %w", id, ErrNotFound)
	}
	return n, nil
}

// Create 创建新闻。分类引用必须解析到已存在的分类，否则创建失败。
func (s *NewsService) Create(ctx context.Context, in CreateNewsInput) (*storage.News, error) {
	if err := s.ensureCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	n := &storage.News{Title: in.Title, Content: in.Content, CategoryID: in.CategoryID}
	n.SetImageRefs(in.Images)
	return storage.CreateObject(ctx, s.db, n, true)
}

// Update 加载记录（缺失返回 ErrNotFound），刷新更新时间戳，仅应用 data
// 中出现的字段。data 携带 images 时为整表替换（不与既有列表合并）。
func (s *NewsService) Update(ctx context.Context, id uint64, data map[string]any) (*storage.News, error) {
	n, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v, ok := data["category_id"]; ok {
		cid, _ := v.(uint64)
		if err := s.ensureCategory(ctx, cid); err != nil {
			return nil, err
		}
	}
	if refs, ok := data["images"].([]string); ok {
		data["images"] = storage.MarshalImageRefs(refs)
	}
	data["updated_at"] = time.Now()
	return storage.UpdateObject(ctx, s.db, n, data)
}

// Delete 删除新闻：同一事务内先删除全部依赖评论再删除新闻行，
// 然后对每个已存储图片引用做尽力而为的文件删除。
// 文件删除失败仅记录日志，绝不中断或回滚删除；文件已缺失同样视为成功。
func (s *NewsService) Delete(ctx context.Context, id uint64) error {
	n, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	refs := n.ImageRefs()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := storage.DeleteObjectBy[storage.Comment](ctx, tx, "news_id", id); err != nil {
			return err
		}
		return storage.DeleteObject(ctx, tx, n, false)
	})
	if err != nil {
		return err
	}
	for _, ref := range refs {
		if rerr := s.files.Remove(ctx, ref); rerr != nil {
			log.WithError(rerr).WithField("ref", ref).Warn("remove news image")
		}
	}
	return nil
}

// ensureCategory 校验分类引用可解析；悬挂引用返回 ErrNotFound。
func (s *NewsService) ensureCategory(ctx context.Context, id uint64) error {
	cat, err := storage.GetObject[storage.Category](ctx, s.db, "id", id)
	if err != nil {
		return err
	}
	if cat == nil {
		return fmt.Errorf("category %d: %w", id, ErrNotFound)
	}
	return nil
}
