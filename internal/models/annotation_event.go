package models

import (
	"time"
)

// AnnotationEvent 标注流水模型。每次成功提交的决定记一条，
// 仅用于报表统计；续标进度始终以CSV输出文件为准。
type AnnotationEvent struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Annotator    string    `gorm:"size:100;not null;index" json:"annotator"`
	InputPath    string    `gorm:"size:500;not null;index" json:"input_path"`
	RowIndex     int       `gorm:"not null" json:"row_index"`
	ModifiedFlag string    `gorm:"size:20;not null" json:"modified_flag"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName 指定表名
func (AnnotationEvent) TableName() string {
	return "annotation_events"
}
