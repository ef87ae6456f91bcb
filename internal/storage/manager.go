package storage

// 通用对象管理器：以泛型形式为任意模型提供 CRUD 原语。
// 每次调用通过 WithContext 派生全新 GORM 会话，调用之间不共享状态；
// 变更操作在单个事务内完成"取回-修改-提交-刷新"。
// 本层唯一的结构化失败是 ErrNotFound，其余数据库错误原样向上传递，不做重试。

import (
	"context"
	"errors"
	"reflect"

	"gorm.io/gorm"
)

// ErrNotFound 目标记录不存在。调用方通过 errors.Is 判断。
var ErrNotFound = errors.New("record not found")

// List 返回 offset/limit 分页的模型切片。越界时返回空切片而非错误。
func List[T any](ctx context.Context, db *gorm.DB, offset, limit int) ([]T, error) {
	out := make([]T, 0, limit)
	if err := db.WithContext(ctx).Offset(offset).Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Get 按主键查询。记录不存在返回 (nil, nil)：缺失在本层不是错误，
// 是否视为失败由调用方决定。
func Get[T any](ctx context.Context, db *gorm.DB, id uint64) (*T, error) {
	var obj T
	err := db.WithContext(ctx).First(&obj, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &obj, nil
}

// Create 在事务内插入记录并回读服务端赋值字段（自增主键、时间戳），
// 提交后 obj 即为数据库中的最终状态。
func Create[T any](ctx context.Context, db *gorm.DB, obj *T) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(obj).Error; err != nil {
			return err
		}
		// 按已赋值的主键回读，刷新默认值列
		return tx.First(obj).Error
	})
}

// Delete 执行无条件的按主键过滤删除并提交。
// 不区分"已删除"与"本就不存在"：零行匹配不是错误。
func Delete[T any](ctx context.Context, db *gorm.DB, id uint64) error {
	return db.WithContext(ctx).Delete(new(T), id).Error
}

// Update 全量更新：取回失败返回 ErrNotFound；否则将 fields 中的每一列
// 无条件写入（包含零值），随后回读刷新后的记录。fields 的键为列名，
// 调用方负责提供完整的可变字段集。
func Update[T any](ctx context.Context, db *gorm.DB, id uint64, fields map[string]any) (*T, error) {
	var obj T
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&obj, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if len(fields) > 0 {
			if err := tx.Model(&obj).Updates(fields).Error; err != nil {
				return err
			}
		}
		return tx.First(&obj, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &obj, nil
}

// PartialUpdate 部分更新：先丢弃 fields 中零值（nil、0、空串、false、空列表）
// 的条目，再按 Update 处理。因此"显式清空字段"与"未提交字段"不可区分，
// 该行为是既有约定，由测试固定。
func PartialUpdate[T any](ctx context.Context, db *gorm.DB, id uint64, fields map[string]any) (*T, error) {
	kept := make(map[string]any, len(fields))
	for k, v := range fields {
		if isZeroValue(v) {
			continue
		}
		kept[k] = v
	}
	return Update[T](ctx, db, id, kept)
}

func isZeroValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return true
		}
		return isZeroValue(rv.Elem().Interface())
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	default:
		return rv.IsZero()
	}
}
