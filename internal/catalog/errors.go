package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyID           = errors.New("id is required")
	ErrEmptyTitle        = errors.New("title is required")
	ErrEmptyContent      = errors.New("content is required")
	ErrEmptyURL          = errors.New("url is required")
	ErrAnswerOutOfRange  = errors.New("correct answer index out of range")
	ErrDuplicateID       = errors.New("duplicate id")
	ErrAmbiguousSections = errors.New("sections cannot be split back at the separator")
	ErrNotFound          = errors.New("not found")
)

// FieldError 描述某个记录的字段校验失败
type FieldError struct {
	Entity string
	ID     string
	Field  string
	Err    error
}

func (e *FieldError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s.%s: %v", e.Entity, e.Field, e.Err)
	}
	return fmt.Sprintf("%s %q .%s: %v", e.Entity, e.ID, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// DuplicateIDError 同级集合中出现重复ID
type DuplicateIDError struct {
	Entity string
	Parent string
	ID     string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate %s id %q in %s", e.Entity, e.ID, e.Parent)
}

func (e *DuplicateIDError) Is(target error) bool { return target == ErrDuplicateID }

// NotFoundError 查找未命中，Level 指明缺失的层级（course/module/lesson）
type NotFoundError struct {
	Level string
	ID    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Level, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func fieldErr(entity, id, field string, err error) error {
	return &FieldError{Entity: entity, ID: id, Field: field, Err: err}
}

// checkUnique 返回第一个重复的ID
func checkUnique(ids []string) (string, bool) {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return id, false
		}
		seen[id] = struct{}{}
	}
	return "", true
}
