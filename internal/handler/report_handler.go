package handler

import (
	"anno-go/internal/service"
	"anno-go/internal/utils"

	"github.com/gin-gonic/gin"
)

// ReportHandler 报表处理器
type ReportHandler struct {
	reportService *service.ReportService
	session       *service.ReviewSession
}

// NewReportHandler 创建报表处理器
func NewReportHandler(reportService *service.ReportService, session *service.ReviewSession) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		session:       session,
	}
}

// GetSessionReport 获取当前会话的标注报表
func (h *ReportHandler) GetSessionReport(c *gin.Context) {
	completed, total := h.session.Progress()

	report, err := h.reportService.SessionReport(
		h.session.Annotator(),
		h.session.InputPath(),
		completed,
		total,
	)
	if err != nil {
		utils.InternalError(c, err.Error())
		return
	}

	utils.SuccessResponse(c, report)
}
