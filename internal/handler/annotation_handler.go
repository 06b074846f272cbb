package handler

import (
	"errors"
	"fmt"

	"anno-go/internal/dto"
	"anno-go/internal/models"
	"anno-go/internal/service"
	"anno-go/internal/utils"

	"github.com/gin-gonic/gin"
)

// AnnotationHandler 标注处理器
type AnnotationHandler struct {
	session *service.ReviewSession
}

// NewAnnotationHandler 创建标注处理器
func NewAnnotationHandler(session *service.ReviewSession) *AnnotationHandler {
	return &AnnotationHandler{
		session: session,
	}
}

// GetCurrent 获取当前待标注行
func (h *AnnotationHandler) GetCurrent(c *gin.Context) {
	completed, total := h.session.Progress()

	if h.session.Done() {
		utils.SuccessResponse(c, dto.CurrentRowResponse{
			Done:      true,
			Completed: completed,
			Total:     total,
			Status:    fmt.Sprintf("标注完成！全部 %d 行已标注。", total),
		})
		return
	}

	row, err := h.session.CurrentRow()
	if err != nil {
		utils.Conflict(c, err.Error())
		return
	}

	utils.SuccessResponse(c, dto.CurrentRowResponse{
		Index:     row.Index,
		Completed: completed,
		Total:     total,
		Fields:    row.Fields,
		Status:    fmt.Sprintf("已标注 %d / %d 行。", completed, total),
	})
}

// SubmitDecision 提交当前行的标注决定
// 写盘失败返回500且下标不变，前端可在同一行重试
func (h *AnnotationHandler) SubmitDecision(c *gin.Context) {
	var req dto.SubmitDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	decision := models.Decision{Action: models.DecisionAction(req.Action)}
	if decision.Action == models.ActionEdit {
		if req.Text == nil {
			utils.BadRequest(c, "edit动作必须提供text字段")
			return
		}
		decision.Text = *req.Text
	}

	record, err := h.session.Submit(decision)
	if err != nil {
		if errors.Is(err, service.ErrInvalidState) {
			utils.Conflict(c, err.Error())
			return
		}
		utils.InternalError(c, "保存标注失败，当前行未推进，可重试: "+err.Error())
		return
	}

	completed, total := h.session.Progress()
	status := fmt.Sprintf("标注已保存。已标注 %d / %d 行，请继续下一条。", completed, total)
	if h.session.Done() {
		status = fmt.Sprintf("标注完成！全部 %d 行已标注。", total)
	}

	utils.SuccessResponse(c, dto.SubmitDecisionResponse{
		Success:      true,
		RowIndex:     record.Index,
		ModifiedFlag: record.ModifiedFlag,
		Completed:    completed,
		Total:        total,
		Done:         h.session.Done(),
		Status:       status,
	})
}

// GetProgress 获取标注进度
func (h *AnnotationHandler) GetProgress(c *gin.Context) {
	completed, total := h.session.Progress()

	utils.SuccessResponse(c, dto.ProgressResponse{
		Completed: completed,
		Total:     total,
		Done:      h.session.Done(),
		Status:    fmt.Sprintf("已标注 %d / %d 行。", completed, total),
	})
}
