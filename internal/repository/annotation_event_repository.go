package repository

import (
	"anno-go/internal/models"

	"gorm.io/gorm"
)

// AnnotationEventRepository 标注流水数据访问层
type AnnotationEventRepository struct {
	db *gorm.DB
}

// NewAnnotationEventRepository 创建标注流水Repository
func NewAnnotationEventRepository(db *gorm.DB) *AnnotationEventRepository {
	return &AnnotationEventRepository{db: db}
}

// Create 写入一条流水
func (r *AnnotationEventRepository) Create(event *models.AnnotationEvent) error {
	return r.db.Create(event).Error
}

// CountByInput 统计某输入文件的流水总数
func (r *AnnotationEventRepository) CountByInput(inputPath string) (int64, error) {
	var count int64
	err := r.db.Model(&models.AnnotationEvent{}).Where("input_path = ?", inputPath).Count(&count).Error
	return count, err
}

// CountByFlag 统计某输入文件下指定flag的流水条数
func (r *AnnotationEventRepository) CountByFlag(inputPath, flag string) (int64, error) {
	var count int64
	err := r.db.Model(&models.AnnotationEvent{}).
		Where("input_path = ? AND modified_flag = ?", inputPath, flag).
		Count(&count).Error
	return count, err
}

// ListByInput 获取某输入文件的流水列表
func (r *AnnotationEventRepository) ListByInput(inputPath string, offset, limit int) ([]models.AnnotationEvent, int64, error) {
	var events []models.AnnotationEvent
	var total int64

	query := r.db.Model(&models.AnnotationEvent{}).Where("input_path = ?", inputPath)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&events).Error
	return events, total, err
}
