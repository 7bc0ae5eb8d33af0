package generator

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Writer 校验表单、构建提示词，并对外部生成接口发起一次调用。
type Writer struct {
	llm    LLMClient
	logger *zap.Logger
}

func NewWriter(llm LLMClient, logger *zap.Logger) (*Writer, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{llm: llm, logger: logger}, nil
}

// Generate never returns an error: validation and generator failures are
// reported through Result.Error. Validation failures make no external call.
func (w *Writer) Generate(ctx context.Context, req GenerationRequest) Result {
	prompt, err := BuildPrompt(req)
	if err != nil {
		w.logger.Debug("validation failed", zap.String("tool", string(req.Tool)), zap.Error(err))
		return Result{Error: err.Error()}
	}

	raw, err := w.llm.Complete(ctx, prompt)
	if err != nil {
		w.logger.Warn("generation failed", zap.String("tool", string(req.Tool)), zap.Error(err))
		return Result{Error: err.Error(), Called: true}
	}

	draft, err := PostProcess(raw)
	if err != nil {
		w.logger.Warn("post-process failed", zap.String("tool", string(req.Tool)), zap.Error(err))
		return Result{Error: err.Error(), Called: true}
	}
	w.logger.Debug("generation done", zap.String("tool", string(req.Tool)), zap.Int("bytes", len(raw)))
	return Result{
		Output: raw,
		Title:  draft.Title,
		HTML:   draft.HTML,
		Called: true,
	}
}
