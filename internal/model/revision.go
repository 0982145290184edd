package model

import "time"

// CatalogRevision 每次发布目录快照的记录
type CatalogRevision struct {
	UUIDBase
	Checksum    string    `gorm:"size:64;not null;index" json:"checksum"`
	Courses     int       `json:"courses"`
	Modules     int       `json:"modules"`
	Lessons     int       `json:"lessons"`
	Warnings    int       `json:"warnings"`
	PublishedAt time.Time `json:"publishedAt"`
}

func (CatalogRevision) TableName() string {
	return "catalog_revisions"
}
