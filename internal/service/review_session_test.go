package service

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"anno-go/internal/models"
	"anno-go/internal/utils"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakySink 测试辅助：可控地让下一次写入失败
type flakySink struct {
	inner    Sink
	failNext bool
}

func (f *flakySink) Append(record models.AnnotatedRecord) error {
	if f.failNext {
		f.failNext = false
		return ErrIO
	}
	return f.inner.Append(record)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// newTestSession 在dir下准备3行输入并组装会话
// sink为nil时使用真实的CSVSink写 dir/out.csv
func newTestSession(t *testing.T, dir string, startIndex int, sink Sink) (*ReviewSession, []string, string) {
	t.Helper()

	inputPath := filepath.Join(dir, "input.csv")
	outputPath := filepath.Join(dir, "out.csv")

	content := "source_text,generated_text\n" +
		"s0,g0\n" +
		"s1,g1\n" +
		"s2,g2\n"
	require.NoError(t, os.WriteFile(inputPath, []byte(content), 0644))

	loader := NewDatasetLoader()
	header, rows, err := loader.Load(inputPath, models.VariantTranslate)
	require.NoError(t, err)

	if sink == nil {
		sink = NewCSVSink(outputPath, header)
	}

	session, err := NewReviewSession("tester", inputPath, rows, startIndex, NewDecisionApplier(), sink, nil, quietLogger())
	require.NoError(t, err)
	return session, header, outputPath
}

func TestSessionFullRun(t *testing.T) {
	dir := t.TempDir()
	session, header, outputPath := newTestSession(t, dir, 0, nil)

	// 接受第0行
	row, err := session.CurrentRow()
	require.NoError(t, err)
	assert.Equal(t, 0, row.Index)
	_, err = session.Submit(models.Decision{Action: models.ActionAccept})
	require.NoError(t, err)

	// 编辑第1行为 "X"
	row, err = session.CurrentRow()
	require.NoError(t, err)
	assert.Equal(t, 1, row.Index)
	_, err = session.Submit(models.Decision{Action: models.ActionEdit, Text: "X"})
	require.NoError(t, err)

	// 接受第2行，会话进入完成态
	_, err = session.Submit(models.Decision{Action: models.ActionAccept})
	require.NoError(t, err)
	assert.True(t, session.Done())

	completed, total := session.Progress()
	assert.Equal(t, 3, completed)
	assert.Equal(t, 3, total)

	// 完成后取行和提交都属于契约违反
	_, err = session.CurrentRow()
	assert.True(t, errors.Is(err, ErrInvalidState))
	_, err = session.Submit(models.Decision{Action: models.ActionAccept})
	assert.True(t, errors.Is(err, ErrInvalidState))

	// 输出保持输入行序：No Change, Changed, No Change，第1行文本为X
	outHeader, records, err := utils.ReadCSVTable(outputPath)
	require.NoError(t, err)
	assert.Equal(t, OutputHeader(header), outHeader)
	require.Len(t, records, 3)
	assert.Equal(t, "No Change", records[0][3])
	assert.Equal(t, "Changed", records[1][3])
	assert.Equal(t, "X", records[1][2])
	assert.Equal(t, "No Change", records[2][3])
}

func TestSessionResume(t *testing.T) {
	dir := t.TempDir()

	// 第一段会话标注前2行
	session, header, outputPath := newTestSession(t, dir, 0, nil)
	_, err := session.Submit(models.Decision{Action: models.ActionAccept})
	require.NoError(t, err)
	_, err = session.Submit(models.Decision{Action: models.ActionAccept})
	require.NoError(t, err)

	// 重启：续标起点为2，首个展示行就是第2行，一次提交后完成
	tracker := NewProgressTracker()
	start, err := tracker.ResumePoint(outputPath, header, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, start)

	resumed, _, _ := newTestSession(t, dir, start, nil)
	row, err := resumed.CurrentRow()
	require.NoError(t, err)
	assert.Equal(t, 2, row.Index)

	_, err = resumed.Submit(models.Decision{Action: models.ActionAccept})
	require.NoError(t, err)
	assert.True(t, resumed.Done())

	// 再次重启：直接处于完成态，不重复处理也不重复写任何行
	start, err = tracker.ResumePoint(outputPath, header, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, start)

	final, _, _ := newTestSession(t, dir, start, nil)
	assert.True(t, final.Done())

	_, records, err := utils.ReadCSVTable(outputPath)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestSessionWriteFailureDoesNotAdvance(t *testing.T) {
	dir := t.TempDir()
	outputPath := filepath.Join(dir, "out.csv")
	sink := &flakySink{
		inner:    NewCSVSink(outputPath, []string{"source_text", "generated_text"}),
		failNext: true,
	}
	session, _, _ := newTestSession(t, dir, 0, sink)

	// 写盘失败：下标不变，同一行可重试
	_, err := session.Submit(models.Decision{Action: models.ActionAccept})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIO))

	completed, _ := session.Progress()
	assert.Equal(t, 0, completed)
	row, err := session.CurrentRow()
	require.NoError(t, err)
	assert.Equal(t, 0, row.Index)

	// 重试同一行成功，恰好推进一位
	_, err = session.Submit(models.Decision{Action: models.ActionAccept})
	require.NoError(t, err)
	completed, _ = session.Progress()
	assert.Equal(t, 1, completed)

	_, records, err := utils.ReadCSVTable(outputPath)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

// slowRecordingSink 测试辅助：记录落盘顺序并故意放慢写入，放大并发窗口
type slowRecordingSink struct {
	mu      sync.Mutex
	indices []int
}

func (s *slowRecordingSink) Append(record models.AnnotatedRecord) error {
	time.Sleep(10 * time.Millisecond)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indices = append(s.indices, record.Index)
	return nil
}

func TestSessionConcurrentSubmits(t *testing.T) {
	dir := t.TempDir()
	sink := &slowRecordingSink{}
	session, _, _ := newTestSession(t, dir, 0, sink)

	// 模拟重复点击提交：两个请求同时到达
	// 必须被串行化，各落一行且各推进一位，不允许同一行落盘两次
	var wg sync.WaitGroup
	errCh := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := session.Submit(models.Decision{Action: models.ActionAccept})
			errCh <- err
		}()
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		require.NoError(t, err)
	}

	completed, _ := session.Progress()
	assert.Equal(t, 2, completed)
	assert.Equal(t, []int{0, 1}, sink.indices)

	row, err := session.CurrentRow()
	require.NoError(t, err)
	assert.Equal(t, 2, row.Index)
}

func TestSessionMonotonicAdvance(t *testing.T) {
	dir := t.TempDir()
	session, _, _ := newTestSession(t, dir, 0, nil)

	// 每次成功提交下标恰好加一，单调不减
	for i := 0; i < 3; i++ {
		completed, _ := session.Progress()
		assert.Equal(t, i, completed)
		_, err := session.Submit(models.Decision{Action: models.ActionAccept})
		require.NoError(t, err)
	}
}

func TestSessionUnknownAction(t *testing.T) {
	dir := t.TempDir()
	session, _, _ := newTestSession(t, dir, 0, nil)

	_, err := session.Submit(models.Decision{Action: "reject"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidState))

	completed, _ := session.Progress()
	assert.Equal(t, 0, completed)
}

func TestSessionStartIndexOutOfRange(t *testing.T) {
	logger := quietLogger()
	rows := []models.Row{{Index: 0, Fields: map[string]string{}}}

	_, err := NewReviewSession("tester", "in.csv", rows, 2, NewDecisionApplier(), nil, nil, logger)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidState))

	_, err = NewReviewSession("tester", "in.csv", rows, -1, NewDecisionApplier(), nil, nil, logger)
	require.Error(t, err)

	// startIndex 等于总行数合法，直接处于完成态
	session, err := NewReviewSession("tester", "in.csv", rows, 1, NewDecisionApplier(), nil, nil, logger)
	require.NoError(t, err)
	assert.True(t, session.Done())
}
