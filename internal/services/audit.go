package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"newsdesk/internal/storage"
)

// AuditService 将实体变更审计持久化到数据库；写入失败被吞掉，
// 审计从不影响业务操作的结果。
type AuditService struct{ db *gorm.DB }

func NewAuditService(db *gorm.DB) *AuditService { return &AuditService{db: db} }

// Write 写入一条审计记录。
func (s *AuditService) Write(ctx context.Context, event, entity string, entityID uint64, userID *uint64, desc, ip string) {
	_ = s.db.WithContext(ctx).Create(&storage.AuditRecord{
		Timestamp:   time.Now(),
		Event:       event,
		Entity:      entity,
		EntityID:    entityID,
		UserID:      userID,
		Description: desc,
		IPAddress:   ip,
	}).Error
}
