// Package storage 定义存储层领域错误与抽象接口
//
// 这些错误用于隔离业务层与底层存储引擎的错误类型，
// 各驱动实现（mongostore/memstore）负责将底层错误转换为这些领域错误。
package storage

import "errors"

var (
	// ErrNotFound 实体不存在
	// 替代 mongo.ErrNoDocuments
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate 唯一键冲突（username / crop_name / (place_id, crop_id)）
	ErrDuplicate = errors.New("duplicate: entity already exists")

	// ErrSequenceNotInitialized 序列计数器未预置
	// NextSequence 从不自动创建计数器，缺失即报错
	ErrSequenceNotInitialized = errors.New("sequence counter not initialized")
)
