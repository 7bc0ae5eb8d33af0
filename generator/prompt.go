package generator

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// 各工具的最小字数。
const (
	MinStoryWords = 100
	MinBlogWords  = 200
)

// ErrUnknownTool is returned for a ToolKind outside Tools().
var ErrUnknownTool = errors.New("unknown tool")

// Prompt 表示发送给 LLM 的消息集合。
type Prompt struct {
	System string
	User   string
}

// ValidationError 表示表单校验失败，不会触发外部调用。
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func requiredError(field string) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf("%s is required", field)}
}

func wordCountError(min int) *ValidationError {
	return &ValidationError{
		Field:   FieldWordCount,
		Message: fmt.Sprintf("Please enter a valid word count (minimum %d words)", min),
	}
}

// BuildPrompt 校验字段并把字段值原样代入对应工具的模板。
func BuildPrompt(req GenerationRequest) (Prompt, error) {
	switch req.Tool {
	case ToolContent:
		return buildContentPrompt(req)
	case ToolKidsStory:
		return buildKidsStoryPrompt(req)
	case ToolBlogPost:
		return buildBlogPostPrompt(req)
	case ToolInstagramCaption:
		return buildCaptionPrompt(req)
	default:
		return Prompt{}, fmt.Errorf("%w: %q", ErrUnknownTool, req.Tool)
	}
}

// Validate reports the error BuildPrompt would return for req, if any.
func Validate(req GenerationRequest) error {
	_, err := BuildPrompt(req)
	return err
}

// ResolveWordCount returns the effective word count: the preset, or the custom
// value when the preset is the "custom" sentinel. ok is false when the chosen
// value is empty or does not start with an integer.
func ResolveWordCount(preset, custom string) (count int, raw string, ok bool) {
	raw = preset
	if preset == CustomWordCount {
		raw = custom
	}
	if raw == "" {
		return 0, raw, false
	}
	n, ok := leadingInt(raw)
	return n, raw, ok
}

// leadingInt 解析开头的整数部分（"500 words" -> 500），与表单输入的宽松语义一致。
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if errors.Is(err, strconv.ErrRange) {
		// 超长数字按上限/下限处理，不视为非法输入。
		if s[0] == '-' {
			return math.MinInt, true
		}
		return math.MaxInt, true
	}
	if err != nil {
		return 0, false
	}
	return n, true
}

func checkWordCount(req GenerationRequest, min int) (string, error) {
	n, raw, ok := ResolveWordCount(req.Field(FieldWordCount), req.Field(FieldCustomWordCount))
	if !ok || n < min {
		return "", wordCountError(min)
	}
	return raw, nil
}

func buildContentPrompt(req GenerationRequest) (Prompt, error) {
	details := req.Field(FieldDetails)
	if strings.TrimSpace(details) == "" {
		return Prompt{}, requiredError(FieldDetails)
	}
	label := contentTypeLabel(req.Field(FieldContentType))

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Write high-quality %s content based on these details:\n\n", label))
	sb.WriteString(details)
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("Create engaging, well-structured %s content. ", label))
	sb.WriteString("Start with a compelling title on its own line. ")
	sb.WriteString("Make the content professional, engaging, and well-organized. ")
	sb.WriteString(fmt.Sprintf("Use appropriate tone and style for %s. ", label))
	sb.WriteString("For Instagram captions, include relevant hashtags at the end. ")
	sb.WriteString("Follow any language instructions in the details.")
	return Prompt{User: sb.String()}, nil
}

func buildKidsStoryPrompt(req GenerationRequest) (Prompt, error) {
	topic := req.Field(FieldTopic)
	if strings.TrimSpace(topic) == "" {
		return Prompt{}, requiredError(FieldTopic)
	}
	words, err := checkWordCount(req, MinStoryWords)
	if err != nil {
		return Prompt{}, err
	}
	age := req.Field(FieldAgeGroup)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Write a wonderful children story of approximately %s words for ages %s about: \"%s\"\n\n", words, age, topic))
	sb.WriteString("Start with a fun, catchy title on its own line.\n\n")
	sb.WriteString("Then write an engaging story that:\n")
	sb.WriteString(fmt.Sprintf("- Uses age-appropriate vocabulary and sentence length for %s year olds\n", age))
	sb.WriteString("- Has colorful, imaginative descriptions that children will love\n")
	sb.WriteString("- Features lovable, relatable characters\n")
	sb.WriteString("- Includes gentle humor and wonder\n")
	sb.WriteString("- Builds excitement with a clear beginning, middle, and end\n")
	sb.WriteString("- Ends with a positive message, moral, or lesson\n\n")
	sb.WriteString("Make it magical and memorable. The kind of story a child would want to hear again and again.")
	return Prompt{User: sb.String()}, nil
}

func buildBlogPostPrompt(req GenerationRequest) (Prompt, error) {
	topic := req.Field(FieldTopic)
	if strings.TrimSpace(topic) == "" {
		return Prompt{}, requiredError(FieldTopic)
	}
	words, err := checkWordCount(req, MinBlogWords)
	if err != nil {
		return Prompt{}, err
	}
	tone := req.Field(FieldTone)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Write a comprehensive, SEO-friendly blog post of approximately %s words about: \"%s\"\n\n", words, topic))
	sb.WriteString(fmt.Sprintf("Tone: %s\n\n", tone))
	sb.WriteString("Start with a compelling headline/title on its own line.\n\n")
	sb.WriteString("Then structure the post with:\n")
	sb.WriteString("- An engaging introduction with a hook that draws readers in\n")
	sb.WriteString("- Clear section headings for the body (each heading on its own line)\n")
	sb.WriteString("- Practical tips, insights, examples, or information under each section\n")
	sb.WriteString("- Smooth transitions between sections\n")
	sb.WriteString("- A strong conclusion with a call-to-action\n\n")
	sb.WriteString(fmt.Sprintf("Use %s tone throughout. ", tone))
	sb.WriteString("Make it informative, engaging, and valuable to readers. Include relevant keywords naturally for SEO.")
	return Prompt{User: sb.String()}, nil
}

func buildCaptionPrompt(req GenerationRequest) (Prompt, error) {
	desc := req.Field(FieldDescription)
	if strings.TrimSpace(desc) == "" {
		return Prompt{}, requiredError(FieldDescription)
	}
	style := req.Field(FieldStyle)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Write an %s Instagram caption for: \"%s\"\n\n", style, desc))
	sb.WriteString("Start with an attention-grabbing first line that makes people stop scrolling. ")
	sb.WriteString("Then write engaging body text that connects with the audience emotionally. ")
	sb.WriteString("Include a question or call-to-action to boost engagement. ")
	sb.WriteString("End with 8-12 relevant and trending hashtags.\n\n")
	sb.WriteString(fmt.Sprintf("Make it %s, authentic, and shareable. Keep the caption concise but impactful.", style))
	return Prompt{User: sb.String()}, nil
}
