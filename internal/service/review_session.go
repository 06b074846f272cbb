package service

import (
	"fmt"
	"sync"

	"anno-go/internal/models"
	"anno-go/internal/repository"

	"github.com/sirupsen/logrus"
)

// ReviewSession 标注会话状态机
// 一次只处理一行：当前行写盘成功后下标才加一，下标单调不减。
// 原实现把当前表和下标放在模块级可变变量里，这里收拢为一个
// 显式会话对象，由唯一的控制方持有。
// gin每个请求一个goroutine，会话内部用互斥锁把提交串行化：
// 重复点击提交产生的并发请求不会让同一行落盘两次。
type ReviewSession struct {
	mu        sync.Mutex
	annotator string
	inputPath string
	rows      []models.Row
	index     int
	total     int
	applier   *DecisionApplier
	sink      Sink
	eventRepo *repository.AnnotationEventRepository
	logger    *logrus.Logger
}

// NewReviewSession 创建标注会话，起点由进度追踪器给出
// startIndex 等于总行数时会话直接处于完成态；eventRepo 可为 nil（不记流水）
func NewReviewSession(
	annotator string,
	inputPath string,
	rows []models.Row,
	startIndex int,
	applier *DecisionApplier,
	sink Sink,
	eventRepo *repository.AnnotationEventRepository,
	logger *logrus.Logger,
) (*ReviewSession, error) {
	if startIndex < 0 || startIndex > len(rows) {
		return nil, fmt.Errorf("%w: 起始下标 %d 超出范围 [0, %d]", ErrInvalidState, startIndex, len(rows))
	}

	return &ReviewSession{
		annotator: annotator,
		inputPath: inputPath,
		rows:      rows,
		index:     startIndex,
		total:     len(rows),
		applier:   applier,
		sink:      sink,
		eventRepo: eventRepo,
		logger:    logger,
	}, nil
}

// done 判断是否全部标注完成，调用方需持有mu
func (s *ReviewSession) done() bool {
	return s.index >= s.total
}

// Done 是否全部标注完成
func (s *ReviewSession) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done()
}

// CurrentRow 当前待标注行
// 会话完成后调用属于使用方契约违反，返回 ErrInvalidState
func (s *ReviewSession) CurrentRow() (models.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done() {
		return models.Row{}, fmt.Errorf("%w: 所有行已标注完成", ErrInvalidState)
	}
	return s.rows[s.index], nil
}

// Submit 应用标注员的决定，持久化后推进会话
// 写盘失败时下标不变，同一行可直接重试；成功后下标恰好加一。
// 并发提交被互斥锁串行化，后到的一个作用于推进后的行
func (s *ReviewSession) Submit(decision models.Decision) (models.AnnotatedRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done() {
		return models.AnnotatedRecord{}, fmt.Errorf("%w: 所有行已标注完成", ErrInvalidState)
	}
	if decision.Action != models.ActionAccept && decision.Action != models.ActionEdit {
		return models.AnnotatedRecord{}, fmt.Errorf("%w: 未知的标注动作 '%s'", ErrInvalidState, decision.Action)
	}

	row := s.rows[s.index]
	record := s.applier.Apply(row, decision)

	if err := s.sink.Append(record); err != nil {
		s.logger.WithFields(logrus.Fields{
			"row":   row.Index,
			"error": err.Error(),
		}).Error("保存标注失败，当前行未推进")
		return models.AnnotatedRecord{}, err
	}

	s.index++

	// 记录标注流水；流水只供报表，失败不回滚会话
	if s.eventRepo != nil {
		event := &models.AnnotationEvent{
			Annotator:    s.annotator,
			InputPath:    s.inputPath,
			RowIndex:     row.Index,
			ModifiedFlag: record.ModifiedFlag,
		}
		if err := s.eventRepo.Create(event); err != nil {
			s.logger.Warnf("写入标注流水失败: %v", err)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"row":       row.Index,
		"flag":      record.ModifiedFlag,
		"completed": s.index,
		"total":     s.total,
	}).Info("标注已保存")

	return record, nil
}

// Progress 返回已完成行数和总行数
func (s *ReviewSession) Progress() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index, s.total
}

// Annotator 标注员姓名
func (s *ReviewSession) Annotator() string {
	return s.annotator
}

// InputPath 输入文件路径
func (s *ReviewSession) InputPath() string {
	return s.inputPath
}
