package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"anno-go/internal/models"
	"anno-go/internal/service"
	"anno-go/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRouter 用2行输入组装一个只挂标注路由的引擎
func newTestRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	inputPath := filepath.Join(dir, "input.csv")
	outputPath := filepath.Join(dir, "out.csv")

	content := "source_text,generated_text\n" +
		"s0,g0\n" +
		"s1,g1\n"
	require.NoError(t, os.WriteFile(inputPath, []byte(content), 0644))

	loader := service.NewDatasetLoader()
	header, rows, err := loader.Load(inputPath, models.VariantTranslate)
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	sink := service.NewCSVSink(outputPath, header)
	session, err := service.NewReviewSession("tester", inputPath, rows, 0, service.NewDecisionApplier(), sink, nil, logger)
	require.NoError(t, err)

	h := NewAnnotationHandler(session)
	r := gin.New()
	r.GET("/api/annotation/current", h.GetCurrent)
	r.POST("/api/annotation/submit", h.SubmitDecision)
	r.GET("/api/annotation/progress", h.GetProgress)
	return r, outputPath
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func dataField(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp struct {
		Code int                    `json:"code"`
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}

func TestGetCurrent(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/api/annotation/current", "")
	require.Equal(t, http.StatusOK, w.Code)

	data := dataField(t, w)
	assert.Equal(t, false, data["done"])
	assert.Equal(t, float64(0), data["index"])
	assert.Equal(t, float64(2), data["total"])

	fields := data["fields"].(map[string]interface{})
	assert.Equal(t, "s0", fields["source_text"])
	assert.Equal(t, "g0", fields["generated_text"])
}

func TestSubmitAcceptThenEdit(t *testing.T) {
	r, outputPath := newTestRouter(t)

	// 接受第0行
	w := doRequest(r, http.MethodPost, "/api/annotation/submit", `{"action":"accept"}`)
	require.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, "No Change", data["modified_flag"])
	assert.Equal(t, false, data["done"])

	// 编辑第1行
	w = doRequest(r, http.MethodPost, "/api/annotation/submit", `{"action":"edit","text":"修改后"}`)
	require.Equal(t, http.StatusOK, w.Code)
	data = dataField(t, w)
	assert.Equal(t, "Changed", data["modified_flag"])
	assert.Equal(t, true, data["done"])

	_, records, err := utils.ReadCSVTable(outputPath)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "修改后", records[1][2])
}

func TestSubmitAfterDone(t *testing.T) {
	r, _ := newTestRouter(t)

	doRequest(r, http.MethodPost, "/api/annotation/submit", `{"action":"accept"}`)
	doRequest(r, http.MethodPost, "/api/annotation/submit", `{"action":"accept"}`)

	// 完成后再提交返回409，当前行接口返回done
	w := doRequest(r, http.MethodPost, "/api/annotation/submit", `{"action":"accept"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(r, http.MethodGet, "/api/annotation/current", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, true, data["done"])
	assert.Nil(t, data["fields"])
}

func TestSubmitBadRequest(t *testing.T) {
	r, _ := newTestRouter(t)

	// 未知动作被binding拦下
	w := doRequest(r, http.MethodPost, "/api/annotation/submit", `{"action":"reject"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// edit缺text
	w = doRequest(r, http.MethodPost, "/api/annotation/submit", `{"action":"edit"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 非法JSON
	w = doRequest(r, http.MethodPost, "/api/annotation/submit", `{`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 会话没有被推进
	w = doRequest(r, http.MethodGet, "/api/annotation/progress", "")
	data := dataField(t, w)
	assert.Equal(t, float64(0), data["completed"])
}

func TestGetProgress(t *testing.T) {
	r, _ := newTestRouter(t)

	doRequest(r, http.MethodPost, "/api/annotation/submit", `{"action":"accept"}`)

	w := doRequest(r, http.MethodGet, "/api/annotation/progress", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, float64(1), data["completed"])
	assert.Equal(t, float64(2), data["total"])
	assert.Equal(t, false, data["done"])
}
