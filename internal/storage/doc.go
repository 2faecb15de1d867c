// Package storage 提供底层持久化适配：数据库连接、自动迁移、GORM 模型声明，
// 以及供各领域服务复用的通用对象存取层（objects.go）。
// 其它层应通过 services 间接访问存储，以便集中处理事务与权限判定。
package storage
