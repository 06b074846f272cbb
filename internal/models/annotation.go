package models

// 标注领域类型。这些类型不落库，随标注会话在内存中流转，
// 持久化走CSV输出文件（见 service.CSVSink）。

// ModifiedFlag 取值
const (
	FlagChanged  = "Changed"
	FlagNoChange = "No Change"
)

// 输出文件相对输入追加的两个派生列
const (
	ColumnAnnotated    = "generated_conversation_annotated"
	ColumnModifiedFlag = "modified_flag"
)

// ColumnGeneratedText 机器生成文本所在列
const ColumnGeneratedText = "generated_text"

// Variant 标注任务变体
type Variant string

const (
	// VariantTranslate 翻译评审：只需原文和生成文本
	VariantTranslate Variant = "translate"
	// VariantWiki 维基对话评审：额外带标题、风格、开场白等上下文列
	VariantWiki Variant = "wiki"
)

// Valid 是否为已知变体
func (v Variant) Valid() bool {
	return v == VariantTranslate || v == VariantWiki
}

// RequiredColumns 返回该变体要求输入表必须包含的列
func (v Variant) RequiredColumns() []string {
	if v == VariantWiki {
		return []string{"source_text", ColumnGeneratedText, "title", "selected_style", "selected_starter"}
	}
	return []string{"source_text", ColumnGeneratedText}
}

// Row 输入表中的一行，按列名取值；读入后不再修改
type Row struct {
	Index  int               `json:"index"`
	Fields map[string]string `json:"fields"`
}

// GeneratedText 当前行的机器生成文本
func (r Row) GeneratedText() string {
	return r.Fields[ColumnGeneratedText]
}

// DecisionAction 标注动作
type DecisionAction string

const (
	// ActionAccept 接受生成文本，不做修改
	ActionAccept DecisionAction = "accept"
	// ActionEdit 用标注员提供的文本替换生成文本
	ActionEdit DecisionAction = "edit"
)

// Decision 标注员对当前行的决定
type Decision struct {
	Action DecisionAction
	Text   string // 仅 ActionEdit 时有效
}

// AnnotatedRecord 标注完成的一行：原始字段加两个派生字段。
// 创建后不再修改，按行序追加到输出文件。
type AnnotatedRecord struct {
	Row
	AnnotatedText string
	ModifiedFlag  string
}
