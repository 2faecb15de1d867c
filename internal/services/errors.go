package services

import "errors"

// 类型化失败分类。服务在前置条件被破坏时立即返回对应哨兵
// （可经 fmt.Errorf("...: %w", ...) 包装），HTTP 层用 errors.Is 判定：
// ErrNotFound→404、ErrForbidden→403、ErrUnauthorized→401、ErrConflict→409，
// 其余视为存储失败（500）。
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
)
