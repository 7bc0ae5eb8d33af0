package generator

import "time"

// ToolKind 标识一个写作工具。
type ToolKind string

const (
	ToolContent          ToolKind = "content"
	ToolKidsStory        ToolKind = "kids-story"
	ToolBlogPost         ToolKind = "blog-post"
	ToolInstagramCaption ToolKind = "instagram-caption"
)

// Tools lists every supported tool in display order.
func Tools() []ToolKind {
	return []ToolKind{ToolContent, ToolKidsStory, ToolBlogPost, ToolInstagramCaption}
}

// Valid reports whether k is a known tool.
func (k ToolKind) Valid() bool {
	switch k {
	case ToolContent, ToolKidsStory, ToolBlogPost, ToolInstagramCaption:
		return true
	}
	return false
}

// 表单字段名。
const (
	FieldContentType     = "contentType"
	FieldDetails         = "details"
	FieldTopic           = "topic"
	FieldAgeGroup        = "ageGroup"
	FieldWordCount       = "wordCount"
	FieldCustomWordCount = "customWordCount"
	FieldTone            = "tone"
	FieldDescription     = "description"
	FieldStyle           = "style"
)

// GenerationRequest 是一次提交的表单快照，构建完 prompt 即丢弃。
type GenerationRequest struct {
	Tool   ToolKind
	Fields map[string]string
}

// NewRequest copies fields so later edits by the caller do not leak into the request.
func NewRequest(tool ToolKind, fields map[string]string) GenerationRequest {
	cp := make(map[string]string, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return GenerationRequest{Tool: tool, Fields: cp}
}

// Field 返回字段值；未填写时使用表单默认值。
func (r GenerationRequest) Field(name string) string {
	if v, ok := r.Fields[name]; ok {
		return v
	}
	return fieldDefault(r.Tool, name)
}

// Result 是一次生成的结果：Error 与 Output 互斥。
type Result struct {
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
	Title  string `json:"title,omitempty"`
	HTML   string `json:"html,omitempty"`
	// Called 表示是否真正调用了外部生成接口。
	Called bool `json:"called"`
}

// OK reports whether the result carries generated text.
func (r Result) OK() bool {
	return r.Error == "" && r.Output != ""
}

// Draft is the post-processed model output.
type Draft struct {
	Title    string
	Markdown string
	HTML     string
}

// Turn 记录 widget 上的一次提交。
type Turn struct {
	Request   GenerationRequest
	Result    Result
	CreatedAt time.Time
}
