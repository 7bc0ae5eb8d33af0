package generator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// ErrBusy 表示该 widget 已有一次生成在进行中。
var ErrBusy = errors.New("generation already in progress")

// Widget 持有一个写作工具实例的状态，同一时刻只允许一次生成。
type Widget struct {
	ID   string
	Tool ToolKind

	writer   *Writer
	inflight *semaphore.Weighted

	mu      sync.Mutex
	loading bool
	last    Result
	history []Turn
}

// NewWidget 创建 widget，尚未生成内容。
func NewWidget(tool ToolKind, writer *Writer) (*Widget, error) {
	if !tool.Valid() {
		return nil, ErrUnknownTool
	}
	if writer == nil {
		return nil, errors.New("writer is required")
	}
	return &Widget{
		ID:       uuid.NewString(),
		Tool:     tool,
		writer:   writer,
		inflight: semaphore.NewWeighted(1),
	}, nil
}

// Submit runs one generation with the given form fields. It returns ErrBusy
// while a previous submission is still pending. onAccepted, if non-nil, runs
// only when the submission holds the widget and its fields pass validation.
func (w *Widget) Submit(ctx context.Context, fields map[string]string, onAccepted func()) (Result, error) {
	if !w.inflight.TryAcquire(1) {
		return Result{}, ErrBusy
	}
	defer w.inflight.Release(1)

	req := NewRequest(w.Tool, fields)
	if onAccepted != nil && Validate(req) == nil {
		onAccepted()
	}
	w.setLoading(true)
	res := w.writer.Generate(ctx, req)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.loading = false
	// 失败时保留上一次的正文，只更新错误。
	if res.Error != "" {
		w.last.Error = res.Error
	} else {
		w.last = res
	}
	w.history = append(w.history, Turn{Request: req, Result: res, CreatedAt: time.Now()})
	return res, nil
}

func (w *Widget) setLoading(v bool) {
	w.mu.Lock()
	w.loading = v
	w.mu.Unlock()
}

// Loading reports whether a submission is pending.
func (w *Widget) Loading() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loading
}

// Result 返回当前展示的结果。
func (w *Widget) Result() Result {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}

// History returns a copy of all submissions so far.
func (w *Widget) History() []Turn {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Turn(nil), w.history...)
}
