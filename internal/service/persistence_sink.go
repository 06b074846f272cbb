package service

import (
	"encoding/csv"
	"fmt"
	"os"

	"anno-go/internal/models"
)

// Sink 持久化接口，会话只依赖追加语义
type Sink interface {
	Append(record models.AnnotatedRecord) error
}

// CSVSink CSV持久化落盘：只追加，不回写已有行
type CSVSink struct {
	path   string
	header []string
}

// NewCSVSink 创建CSV落盘器
// 输出列为输入列原序加 generated_conversation_annotated 和 modified_flag
func NewCSVSink(outputPath string, inputHeader []string) *CSVSink {
	return &CSVSink{
		path:   outputPath,
		header: OutputHeader(inputHeader),
	}
}

// Append 将一条标注记录追加到输出文件
// 文件不存在或为空时先写表头；返回前刷盘并fsync，
// 保证本函数返回即代表该行已持久化。失败返回 ErrIO，调用方不得推进会话。
func (s *CSVSink) Append(record models.AnnotatedRecord) error {
	writeHeader := false
	info, err := os.Stat(s.path)
	if os.IsNotExist(err) {
		writeHeader = true
	} else if err != nil {
		return fmt.Errorf("%w: 探测输出文件失败: %v", ErrIO, err)
	} else if info.Size() == 0 {
		writeHeader = true
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("%w: 打开输出文件失败: %v", ErrIO, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	if writeHeader {
		if err := writer.Write(s.header); err != nil {
			return fmt.Errorf("%w: 写入CSV表头失败: %v", ErrIO, err)
		}
	}

	line := make([]string, 0, len(s.header))
	for _, col := range s.header[:len(s.header)-2] {
		line = append(line, record.Fields[col])
	}
	line = append(line, record.AnnotatedText, record.ModifiedFlag)

	if err := writer.Write(line); err != nil {
		return fmt.Errorf("%w: 写入CSV行失败: %v", ErrIO, err)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("%w: CSV写入错误: %v", ErrIO, err)
	}

	// 落到磁盘后才算这一行完成
	if err := f.Sync(); err != nil {
		return fmt.Errorf("%w: 刷盘失败: %v", ErrIO, err)
	}

	return nil
}

// Path 输出文件路径
func (s *CSVSink) Path() string {
	return s.path
}
