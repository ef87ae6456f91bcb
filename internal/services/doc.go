// Package services 提供应用的领域服务层，在通用对象管理器之上补充资源级规则：
// 跨实体存在性校验、评论的属主检查、上传文件的持久化与补偿清理。
// 该层对 handlers 提供较为稳定的接口，避免在 HTTP 层直接操作数据访问细节。
package services
