package dto

// CurrentRowResponse 当前行响应
// 会话完成后 Done 为 true 且不带字段
type CurrentRowResponse struct {
	Done      bool              `json:"done"`
	Index     int               `json:"index"`
	Completed int               `json:"completed"`
	Total     int               `json:"total"`
	Fields    map[string]string `json:"fields,omitempty"`
	Status    string            `json:"status"`
}

// SubmitDecisionRequest 提交标注决定请求
// action 为 edit 时必须带 text
type SubmitDecisionRequest struct {
	Action string  `json:"action" binding:"required,oneof=accept edit"`
	Text   *string `json:"text"`
}

// SubmitDecisionResponse 提交标注决定响应
type SubmitDecisionResponse struct {
	Success      bool   `json:"success"`
	RowIndex     int    `json:"row_index"`
	ModifiedFlag string `json:"modified_flag"`
	Completed    int    `json:"completed"`
	Total        int    `json:"total"`
	Done         bool   `json:"done"`
	Status       string `json:"status"`
}

// ProgressResponse 进度响应
type ProgressResponse struct {
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Done      bool   `json:"done"`
	Status    string `json:"status"`
}

// SessionReportResponse 会话报表响应
type SessionReportResponse struct {
	Annotator      string `json:"annotator"`
	InputPath      string `json:"input_path"`
	Completed      int    `json:"completed"`
	Total          int    `json:"total"`
	Done           bool   `json:"done"`
	ChangedCount   int64  `json:"changed_count"`
	UnchangedCount int64  `json:"unchanged_count"`
	EventCount     int64  `json:"event_count"`
}
