package utils

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
)

// ReadCSVTable 读取CSV文件，返回表头和数据行
// 空文件返回空表头和零行；容忍UTF-8 BOM
func ReadCSVTable(path string) ([]string, [][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	// 去掉UTF-8 BOM
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	reader := csv.NewReader(bytes.NewReader(data))
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("解析CSV失败: %w", err)
	}

	if len(records) == 0 {
		return nil, nil, nil
	}

	return records[0], records[1:], nil
}
