// Package services 提供应用的领域服务层，封装实体的持久化与授权逻辑。
// 该层对 handlers 提供较为稳定的接口：返回领域对象或类型化失败
// （ErrNotFound/ErrForbidden/ErrUnauthorized/ErrConflict），由 HTTP 层映射状态码。
package services
