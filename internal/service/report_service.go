package service

import (
	"anno-go/internal/dto"
	"anno-go/internal/models"
	"anno-go/internal/repository"
)

// ReportService 报表服务：基于标注流水汇总标注情况
type ReportService struct {
	eventRepo *repository.AnnotationEventRepository
}

// NewReportService 创建报表服务
func NewReportService(eventRepo *repository.AnnotationEventRepository) *ReportService {
	return &ReportService{
		eventRepo: eventRepo,
	}
}

// SessionReport 汇总当前会话对应输入文件的标注情况
// completed/total 来自会话本身（以CSV输出为准），修改比例来自流水表
func (s *ReportService) SessionReport(annotator, inputPath string, completed, total int) (*dto.SessionReportResponse, error) {
	changed, err := s.eventRepo.CountByFlag(inputPath, models.FlagChanged)
	if err != nil {
		return nil, err
	}
	unchanged, err := s.eventRepo.CountByFlag(inputPath, models.FlagNoChange)
	if err != nil {
		return nil, err
	}
	eventCount, err := s.eventRepo.CountByInput(inputPath)
	if err != nil {
		return nil, err
	}

	return &dto.SessionReportResponse{
		Annotator:      annotator,
		InputPath:      inputPath,
		Completed:      completed,
		Total:          total,
		Done:           completed >= total,
		ChangedCount:   changed,
		UnchangedCount: unchanged,
		EventCount:     eventCount,
	}, nil
}
