package storage

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// 本文件定义内容管理后端使用的所有 GORM 模型，集中管理数据结构。

// User 为认证协作方拥有的身份实体；本核心只读取标识作归属比较。
type User struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	Username  string `gorm:"size:190;uniqueIndex"`
	Password  string `gorm:"size:255"` // 已哈希的口令
	Email     string `gorm:"size:190;index"`
	Name      string `gorm:"size:190"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Category 为新闻分类；删除受 restrict 策略保护（见 services.CategoryService.Delete）。
type Category struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"size:100;not null"`
	CreatedAt time.Time
}

// News 为新闻条目；Images 以 JSON 数组字符串保存已存储文件引用
// （MySQL 无字符串数组列，做法与逗号/JSON 序列化的多值字段一致）。
type News struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	Title      string `gorm:"size:100;not null"`
	Content    string `gorm:"type:text"`
	Images     string `gorm:"type:text"` // JSON 数组字符串
	CategoryID uint64 `gorm:"index;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ImageRefs 解码 Images 字段为引用切片；空值返回 nil。
func (n *News) ImageRefs() []string {
	if n.Images == "" {
		return nil
	}
	var refs []string
	_ = json.Unmarshal([]byte(n.Images), &refs)
	return refs
}

// SetImageRefs 以整表替换语义写入引用列表（nil 清空）。
func (n *News) SetImageRefs(refs []string) {
	if len(refs) == 0 {
		n.Images = ""
		return
	}
	b, _ := json.Marshal(refs)
	n.Images = string(b)
}

// MarshalImageRefs 供部分更新的字段映射使用。
func MarshalImageRefs(refs []string) string {
	if len(refs) == 0 {
		return ""
	}
	b, _ := json.Marshal(refs)
	return string(b)
}

// Comment 为新闻评论；仅作者本人可修改或删除。
type Comment struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	Content   string `gorm:"size:1000;not null"`
	NewsID    uint64 `gorm:"index;not null"`
	UserID    uint64 `gorm:"index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AuditRecord 持久化实体变更审计（仅追加，不参与业务逻辑）。
type AuditRecord struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	Timestamp   time.Time `gorm:"index"`
	Event       string    `gorm:"size:64;index"` // 如 NEWS_DELETED、COMMENT_UPDATED
	Entity      string    `gorm:"size:32;index"`
	EntityID    uint64    `gorm:"index"`
	UserID      *uint64   `gorm:"index"`
	IPAddress   string    `gorm:"size:64"`
	Description string    `gorm:"type:text"`
}

// AutoMigrate 执行数据库自动迁移。
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&User{}, &Category{}, &News{}, &Comment{}, &AuditRecord{}); err != nil {
		return err
	}
	// 评论在存储层随新闻/用户级联删除；AutoMigrate 不声明外键，补充 DDL。
	// 忽略错误以避免不同方言（如测试用 SQLite）导致启动失败。
	_ = db.Exec("ALTER TABLE comments ADD CONSTRAINT fk_comments_news FOREIGN KEY (news_id) REFERENCES news(id) ON DELETE CASCADE").Error
	_ = db.Exec("ALTER TABLE comments ADD CONSTRAINT fk_comments_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE").Error
	_ = db.Exec("ALTER TABLE news ADD CONSTRAINT fk_news_category FOREIGN KEY (category_id) REFERENCES categories(id)").Error
	return nil
}
