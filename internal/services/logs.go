package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"newsroom/internal/storage"
)

// LogService 将内容变更的审计日志持久化到数据库。
type LogService struct{ db *gorm.DB }

func NewLogService(db *gorm.DB) *LogService { return &LogService{db: db} }

// Write 写入一条审计日志。写入失败不影响主流程。
func (s *LogService) Write(ctx context.Context, event string, userID *uint64, desc, ip, requestID string) {
	_ = s.db.WithContext(ctx).Create(&storage.AuditRecord{
		Timestamp:   time.Now(),
		Event:       event,
		UserID:      userID,
		Description: desc,
		IPAddress:   ip,
		RequestID:   requestID,
	}).Error
}
