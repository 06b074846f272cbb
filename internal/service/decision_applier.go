package service

import (
	"anno-go/internal/models"
)

// DecisionApplier 决定应用器：纯函数，不做任何IO
type DecisionApplier struct{}

// NewDecisionApplier 创建决定应用器
func NewDecisionApplier() *DecisionApplier {
	return &DecisionApplier{}
}

// Apply 根据标注员的决定生成标注记录
// modified_flag 只反映标注员声明的动作，不做文本比对：
// 即使编辑后的文本与生成文本逐字节相同也记为 Changed
func (a *DecisionApplier) Apply(row models.Row, decision models.Decision) models.AnnotatedRecord {
	record := models.AnnotatedRecord{Row: row}

	if decision.Action == models.ActionEdit {
		record.AnnotatedText = decision.Text
		record.ModifiedFlag = models.FlagChanged
	} else {
		record.AnnotatedText = row.GeneratedText()
		record.ModifiedFlag = models.FlagNoChange
	}

	return record
}
