package storage

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// 本文件定义平台使用的所有 GORM 模型，集中管理数据结构。
// 时间戳与主键均由服务端赋值，客户端提交的值一律忽略。

// StringList 以 JSON 文本形式落库的字符串列表（新闻图片路径）。
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src any) error {
	if src == nil {
		*l = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported StringList source type %T", src)
	}
}

// Category 新闻栏目。删除栏目时，所属新闻的 category_id 置空（SET NULL）。
type Category struct {
	ID      uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name    string    `gorm:"size:100;not null" json:"name"`
	Created time.Time `gorm:"autoCreateTime" json:"created"`

	News []News `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"-"`
}

func (Category) TableName() string { return "category" }

// News 新闻条目。删除新闻时级联删除其评论。
type News struct {
	ID         uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title      string     `gorm:"size:100;not null" json:"title"`
	Content    *string    `json:"content"`
	Images     StringList `gorm:"type:json" json:"images"`
	Created    time.Time  `gorm:"autoCreateTime" json:"created"`
	Updated    time.Time  `gorm:"autoUpdateTime" json:"updated"`
	CategoryID *uint64    `gorm:"index" json:"category_id"`

	Comments []Comment `gorm:"foreignKey:NewsID;constraint:OnDelete:CASCADE" json:"-"`
}

func (News) TableName() string { return "news" }

// Comment 新闻评论，必须归属一条新闻与一个用户；二者删除时评论级联删除。
type Comment struct {
	ID      uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Content string    `gorm:"size:2500;not null" json:"content"`
	Created time.Time `gorm:"autoCreateTime" json:"created"`
	Updated time.Time `gorm:"autoUpdateTime" json:"updated"`
	NewsID  uint64    `gorm:"index;not null" json:"news_id"`
	UserID  uint64    `gorm:"index;not null" json:"user_id"`
}

func (Comment) TableName() string { return "comment" }

// User 用户表由外部账号子系统拥有，这里仅维护本服务依赖的最小字段集。
type User struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Email         string    `gorm:"size:190;uniqueIndex" json:"email"`
	Password      string    `gorm:"size:255" json:"-"` // 已哈希的口令
	FullName      string    `gorm:"size:190" json:"full_name"`
	EmailVerified bool      `gorm:"index" json:"email_verified"`
	Created       time.Time `gorm:"autoCreateTime" json:"created"`

	Comments []Comment `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string { return "user" }

// AuditRecord 记录内容变更的审计日志（谁在何时做了什么）。
type AuditRecord struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	Timestamp   time.Time `gorm:"index"`
	Event       string    `gorm:"size:64;index"`
	UserID      *uint64   `gorm:"index"`
	Description string    `gorm:"type:text"`
	IPAddress   string    `gorm:"size:64"`
	RequestID   string    `gorm:"size:64;index"`
}

func (AuditRecord) TableName() string { return "audit_record" }

// AutoMigrate 执行数据库自动迁移。
func AutoMigrate(db *gorm.DB) error {
	// 外键依赖顺序：先父表后子表
	return db.AutoMigrate(&Category{}, &User{}, &News{}, &Comment{}, &AuditRecord{})
}
