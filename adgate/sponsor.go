package adgate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"

	"go.uber.org/zap"
)

// Navigator 在新的浏览上下文中打开 URL（不携带 opener/referrer）。
type Navigator interface {
	Open(ctx context.Context, url string) error
}

// Sponsor opens sponsor links. Failures are logged, never returned, and never
// touch any counter.
type Sponsor struct {
	nav    Navigator
	logger *zap.Logger
}

func NewSponsor(nav Navigator, logger *zap.Logger) *Sponsor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sponsor{nav: nav, logger: logger}
}

func (s *Sponsor) Open(ctx context.Context, url string) {
	if s.nav == nil {
		s.logger.Warn("no navigator configured, sponsor link dropped", zap.String("url", url))
		return
	}
	if err := s.nav.Open(ctx, url); err != nil {
		s.logger.Warn("open sponsor link failed", zap.String("url", url), zap.Error(err))
	}
}

// PrintNavigator writes the URL to w instead of opening it.
type PrintNavigator struct {
	W io.Writer
}

func (p PrintNavigator) Open(_ context.Context, url string) error {
	if p.W == nil {
		return errors.New("no writer")
	}
	_, err := fmt.Fprintf(p.W, "Sponsor: %s\n", url)
	return err
}

// BrowserNavigator hands the URL to the desktop's default browser. The
// browser opens it as a fresh top-level context with no opener.
type BrowserNavigator struct{}

func (BrowserNavigator) Open(ctx context.Context, url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", url)
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start browser: %w", err)
	}
	// 不等待浏览器退出。
	go func() { _ = cmd.Wait() }()
	return nil
}
