package storage

// 通用对象存取层：各实体服务共用的按字段查询、分页列举、创建、
// 部分更新与删除操作，通过泛型绑定实体类型，避免每个实体重复实现。

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNoTransaction 表示 commit=false 时传入的句柄不在事务中。
var ErrNoTransaction = errors.New("pending write requires an open transaction")

// GetObject 按字段等值查询单条记录；无匹配时返回 (nil, nil)。
// field 需为唯一约束字段，多行匹配时仅返回按主键序的第一行。
func GetObject[T any](ctx context.Context, db *gorm.DB, field string, value any) (*T, error) {
	var obj T
	err := db.WithContext(ctx).Where(field+" = ?", value).Order("id").First(&obj).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &obj, nil
}

// GetObjects 返回按插入顺序（主键序）的一页记录。
// offset/limit 负值按 0 处理；limit=0 返回空页，不做全表扫描。
func GetObjects[T any](ctx context.Context, db *gorm.DB, offset, limit int) ([]T, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		return []T{}, nil
	}
	var list []T
	if err := db.WithContext(ctx).Order("id").Offset(offset).Limit(limit).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// CreateObject 插入记录并返回带服务端生成字段（主键、时间戳）的对象。
// commit=false 时要求 db 为打开的事务句柄，写入悬挂至外层事务提交。
func CreateObject[T any](ctx context.Context, db *gorm.DB, obj *T, commit bool) (*T, error) {
	if !commit && !inTransaction(db) {
		return nil, ErrNoTransaction
	}
	if err := db.WithContext(ctx).Create(obj).Error; err != nil {
		return nil, err
	}
	return obj, nil
}

// UpdateObject 仅对 data 中出现的键做字段赋值（部分更新），提交后重读记录。
// data 为空时不触发任何写入。
func UpdateObject[T any](ctx context.Context, db *gorm.DB, obj *T, data map[string]any) (*T, error) {
	if len(data) == 0 {
		return obj, nil
	}
	tx := db.WithContext(ctx)
	if err := tx.Model(obj).Updates(data).Error; err != nil {
		return nil, err
	}
	// 重读，保证返回服务端刷新后的时间戳等字段
	if err := tx.First(obj).Error; err != nil {
		return nil, err
	}
	return obj, nil
}

// DeleteObject 删除已加载的记录；调用方保证其存在。
// commit=false 时要求 db 为打开的事务句柄。
func DeleteObject[T any](ctx context.Context, db *gorm.DB, obj *T, commit bool) error {
	if !commit && !inTransaction(db) {
		return ErrNoTransaction
	}
	return db.WithContext(ctx).Delete(obj).Error
}

// DeleteObjectBy 按字段等值删除；无匹配时为空操作，不视为错误。
func DeleteObjectBy[T any](ctx context.Context, db *gorm.DB, field string, value any) error {
	var zero T
	return db.WithContext(ctx).Where(field+" = ?", value).Delete(&zero).Error
}

// inTransaction 判断 gorm 句柄当前是否持有事务连接。
func inTransaction(db *gorm.DB) bool {
	_, ok := db.Statement.ConnPool.(gorm.TxCommitter)
	return ok
}
