package service

import (
	"fmt"

	"anno-go/internal/models"
	"anno-go/internal/utils"
)

// DatasetLoader 数据集加载器
type DatasetLoader struct{}

// NewDatasetLoader 创建数据集加载器
func NewDatasetLoader() *DatasetLoader {
	return &DatasetLoader{}
}

// Load 读取输入表并校验必需列，返回表头和全部行
// 缺少必需列返回 ErrSchema，读取或解析失败返回 ErrIO；不产生任何副作用
func (l *DatasetLoader) Load(inputPath string, variant models.Variant) ([]string, []models.Row, error) {
	header, records, err := utils.ReadCSVTable(inputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: 读取输入文件 %s: %v", ErrIO, inputPath, err)
	}

	// 校验必需列，缺列在展示任何行之前就失败
	colIndex := make(map[string]int, len(header))
	for i, col := range header {
		colIndex[col] = i
	}
	for _, col := range variant.RequiredColumns() {
		if _, ok := colIndex[col]; !ok {
			return nil, nil, fmt.Errorf("%w: 输入CSV缺少列 '%s'", ErrSchema, col)
		}
	}

	rows := make([]models.Row, len(records))
	for i, record := range records {
		fields := make(map[string]string, len(header))
		for j, col := range header {
			if j < len(record) {
				fields[col] = record[j]
			}
		}
		rows[i] = models.Row{Index: i, Fields: fields}
	}

	return header, rows, nil
}
