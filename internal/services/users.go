package services

// 用户服务：认证协作方的身份存储。提供注册、查询与口令校验；
// 核心业务仅使用用户标识作归属比较。

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"newsdesk/internal/storage"
)

// UserService 提供基础用户注册/查询与口令校验。
type UserService struct{ db *gorm.DB }

func NewUserService(db *gorm.DB) *UserService { return &UserService{db: db} }

func (s *UserService) FindByUsername(ctx context.Context, username string) (*storage.User, error) {
	u, err := storage.GetObject[storage.User](ctx, s.db, "username", username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
	}
	return u, nil
}

func (s *UserService) FindByID(ctx context.Context, id uint64) (*storage.User, error) {
	u, err := storage.GetObject[storage.User](ctx, s.db, "id", id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return u, nil
}

// CheckPassword 校验用户口令（bcrypt）。
func (s *UserService) CheckPassword(u *storage.User, password string) bool {
	if u.Password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// Register 创建用户；用户名冲突返回 ErrConflict。
func (s *UserService) Register(ctx context.Context, username, password, email, name string) (*storage.User, error) {
	if username == "" || password == "" {
		return nil, errors.New("username/password required")
	}
	if len(password) < 6 {
		return nil, errors.New("weak_password")
	}
	if existing, err := storage.GetObject[storage.User](ctx, s.db, "username", username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("user %q: %w", username, ErrConflict)
	}
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	u := &storage.User{Username: username, Password: string(hash), Email: email, Name: name}
	return storage.CreateObject(ctx, s.db, u, true)
}
