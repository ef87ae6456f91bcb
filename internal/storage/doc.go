// Package storage 提供底层持久化与缓存适配，实现数据库连接、自动迁移、GORM 模型声明
// 以及面向任意模型的通用对象管理器。其它层应通过 services 间接访问存储，
// 以便集中处理跨实体校验与事务边界。
package storage
