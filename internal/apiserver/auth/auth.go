// Package auth 登录与注册：密码哈希、激活状态校验、种子管理员引导
package auth

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"village-admin/internal/shared/model"
	"village-admin/internal/shared/storage"
)

// bcryptCost 与历史数据的 saltRounds 保持一致
const bcryptCost = 10

// HashPassword 使用 bcrypt 哈希密码
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(bytes), err
}

// CheckPassword 验证密码
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// EnsureAdminUser 确保种子管理员存在（启动时调用）
// 配置了用户名/密码且数据库中不存在该用户时自动创建，已激活、类型 admin
func EnsureAdminUser(store storage.UserStore, seq storage.SequenceStore, username, password string) error {
	if username == "" || password == "" {
		return nil
	}

	ctx := context.Background()
	existing, err := store.GetUserByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("check admin user: %w", err)
	}
	if existing != nil {
		log.Printf("[auth] Admin user already exists: %s (id=%d)", username, existing.ID)
		return nil
	}

	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	id, err := seq.NextSequence(ctx, storage.SeqUsers)
	if err != nil {
		return fmt.Errorf("next user id: %w", err)
	}

	user := &model.User{
		ID:         id,
		Username:   username,
		Name:       "Admin",
		Password:   hash,
		Activation: model.ActivationActive,
		UserType:   model.UserTypeAdmin,
	}
	if err := store.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	log.Printf("[auth] Created admin user: %s (id=%d)", username, id)
	return nil
}
