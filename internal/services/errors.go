package services

import "errors"

// ErrForbidden 操作者不是目标资源的属主。
// 与 storage.ErrNotFound 一起构成本层仅有的两类结构化失败；
// 其余错误（数据库、序列化）不做翻译，原样向上传递。
var ErrForbidden = errors.New("forbidden")
