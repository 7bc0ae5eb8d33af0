// Package adgate decides when to surface a sponsor link: on the 1st, 4th,
// 7th, ... generate click, alternating between two fixed URLs.
package adgate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// 默认的存储 key 与赞助链接。
const (
	DefaultKey    = "ai_tools_ad_counter"
	ImageToolsKey = "ai_tools_ad_counter_images"

	LinkA = "https://omg10.com/4/10649293"
	LinkB = "https://omg10.com/4/10649295"

	// CycleLength 每个周期 1 次广告 + 2 次免费。
	CycleLength = 3
)

// State is the persisted counter blob.
// LastReset is written once when the state is first created and never
// consulted afterwards.
type State struct {
	ClickCount int   `json:"clickCount"`
	LastReset  int64 `json:"lastReset"`
}

// Decision 是一次点击的判定结果。AdURL 总会计算，但只有 ShouldShow 为 true 时才有意义。
type Decision struct {
	ShouldShow bool   `json:"should_show"`
	NewCount   int    `json:"new_count"`
	AdURL      string `json:"ad_url"`
}

// Links 是轮换使用的两个赞助链接。
type Links struct {
	A string
	B string
}

// DefaultLinks returns LinkA/LinkB.
func DefaultLinks() Links {
	return Links{A: LinkA, B: LinkB}
}

// Decide computes the decision for the newCount-th click.
func Decide(newCount int, links Links) Decision {
	shouldShow := newCount == 1 || (newCount > 1 && (newCount-1)%CycleLength == 0)
	adNumber := (newCount-1)/CycleLength + 1
	url := links.A
	if adNumber%2 == 0 {
		url = links.B
	}
	return Decision{ShouldShow: shouldShow, NewCount: newCount, AdURL: url}
}

// Counter 是绑定到一个存储 key 的点击计数器。
// 同一进程内的调用由 mu 串行化；多个进程共享同一存储时读改写仍可能竞争，
// 结果最多是多记或少记一次广告周期。
type Counter struct {
	store  Storage
	key    string
	links  Links
	now    func() time.Time
	logger *zap.Logger

	mu sync.Mutex
}

// Option configures a Counter.
type Option func(*Counter)

// WithKey overrides DefaultKey.
func WithKey(key string) Option {
	return func(c *Counter) { c.key = key }
}

// WithLinks overrides the sponsor links.
func WithLinks(l Links) Option {
	return func(c *Counter) { c.links = l }
}

// WithClock overrides time.Now, used for LastReset.
func WithClock(now func() time.Time) Option {
	return func(c *Counter) { c.now = now }
}

// WithLogger sets the logger used for swallowed storage errors.
func WithLogger(l *zap.Logger) Option {
	return func(c *Counter) { c.logger = l }
}

func NewCounter(store Storage, opts ...Option) (*Counter, error) {
	if store == nil {
		return nil, errors.New("adgate: storage is required")
	}
	c := &Counter{
		store:  store,
		key:    DefaultKey,
		links:  DefaultLinks(),
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.links.A == "" || c.links.B == "" {
		return nil, errors.New("adgate: both sponsor links are required")
	}
	return c, nil
}

// Key returns the storage key this counter is bound to.
func (c *Counter) Key() string {
	return c.key
}

// Links returns the configured sponsor links.
func (c *Counter) Links() Links {
	return c.links
}

// load 读取持久化状态；不存在、读取失败或 JSON 损坏时一律回退为 {0, now}。
func (c *Counter) load() State {
	fallback := State{ClickCount: 0, LastReset: c.now().UnixMilli()}

	data, err := c.store.Get(c.key)
	if errors.Is(err, ErrNotFound) {
		return fallback
	}
	if err != nil {
		c.logger.Warn("read ad counter failed", zap.String("key", c.key), zap.Error(err))
		return fallback
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		c.logger.Warn("ad counter corrupt, starting over", zap.String("key", c.key), zap.Error(err))
		return fallback
	}
	if st.ClickCount < 0 {
		c.logger.Warn("ad counter negative, starting over", zap.String("key", c.key), zap.Int("click_count", st.ClickCount))
		return fallback
	}
	return st
}

// State returns the current persisted state without incrementing it.
func (c *Counter) State(_ context.Context) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load()
}

// RecordClick increments the counter and returns whether to show the sponsor
// link. Storage failures are logged and never returned.
func (c *Counter) RecordClick(_ context.Context) Decision {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.load()
	d := Decide(st.ClickCount+1, c.links)

	next := State{ClickCount: d.NewCount, LastReset: st.LastReset}
	data, err := json.Marshal(next)
	if err == nil {
		err = c.store.Set(c.key, data)
	}
	if err != nil {
		c.logger.Warn("save ad counter failed", zap.String("key", c.key), zap.Error(err))
	}

	c.logger.Debug("ad click recorded",
		zap.String("key", c.key),
		zap.Int("count", d.NewCount),
		zap.Bool("show", d.ShouldShow))
	return d
}

// Reset deletes the persisted counter; the next click starts from zero.
func (c *Counter) Reset(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.Delete(c.key); err != nil {
		return fmt.Errorf("reset ad counter %q: %w", c.key, err)
	}
	return nil
}
