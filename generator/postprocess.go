package generator

import (
	"bytes"
	"errors"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// ErrEmptyOutput 表示模型返回了空文本。
var ErrEmptyOutput = errors.New("model returned empty output")

var htmlPolicy = bluemonday.UGCPolicy()

// PostProcess 提取标题并渲染 HTML；正文保持模型原样输出。
func PostProcess(raw string) (Draft, error) {
	md := strings.TrimSpace(raw)
	if md == "" {
		return Draft{}, ErrEmptyOutput
	}

	html, err := mdToHTML(md)
	if err != nil {
		return Draft{}, err
	}

	return Draft{
		Title:    extractTitle(md),
		Markdown: md,
		HTML:     html,
	}, nil
}

// 所有模板都要求标题单独成行，取第一行非空文本。
func extractTitle(md string) string {
	for _, line := range strings.Split(md, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimLeft(line, "#")
		line = strings.Trim(line, "*_ \t")
		line = strings.TrimPrefix(line, "Title:")
		return strings.TrimSpace(line)
	}
	return ""
}

func mdToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return htmlPolicy.Sanitize(buf.String()), nil
}
