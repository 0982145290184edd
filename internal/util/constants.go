package util

// 角色
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// Redis 键前缀
const (
	LessonCacheKeyPrefix = "catalog:lesson:"
)
