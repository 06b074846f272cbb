package service

import (
	"fmt"
	"os"

	"anno-go/internal/models"
	"anno-go/internal/utils"
)

// ProgressTracker 进度追踪器：根据已有输出文件计算续标起点
type ProgressTracker struct{}

// NewProgressTracker 创建进度追踪器
func NewProgressTracker() *ProgressTracker {
	return &ProgressTracker{}
}

// ResumePoint 返回第一条未标注行的下标
// 输出文件不存在或为空时从0开始；输出只会包含完整的记录，
// 所以已有行数即续标起点。输出行数超过输入或表头不匹配时视为损坏，
// 返回 ErrConsistency，绝不静默截断。只读探测，无副作用。
func (t *ProgressTracker) ResumePoint(outputPath string, inputHeader []string, totalRows int) (int, error) {
	if _, err := os.Stat(outputPath); err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: 探测输出文件 %s: %v", ErrIO, outputPath, err)
	}

	header, records, err := utils.ReadCSVTable(outputPath)
	if err != nil {
		return 0, fmt.Errorf("%w: 读取输出文件 %s: %v", ErrIO, outputPath, err)
	}

	// 空文件视为尚未开始
	if len(header) == 0 {
		return 0, nil
	}

	expected := OutputHeader(inputHeader)
	if !equalColumns(header, expected) {
		return 0, fmt.Errorf("%w: 输出文件表头与输入不匹配", ErrConsistency)
	}

	if len(records) > totalRows {
		return 0, fmt.Errorf("%w: 输出行数(%d)超过输入行数(%d)", ErrConsistency, len(records), totalRows)
	}

	return len(records), nil
}

// OutputHeader 输出表头：输入列保持原序，末尾追加两个派生列
func OutputHeader(inputHeader []string) []string {
	header := make([]string, 0, len(inputHeader)+2)
	header = append(header, inputHeader...)
	return append(header, models.ColumnAnnotated, models.ColumnModifiedFlag)
}

// equalColumns 比较两个表头是否完全一致
func equalColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
