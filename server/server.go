package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"ai_writer_tools/adgate"
	"ai_writer_tools/generator"

	"go.uber.org/zap"
)

const generateTimeout = 60 * time.Second

type Server struct {
	writer    *generator.Writer
	gate      *adgate.Counter
	// imageGate 为图片类工具单独计数，可为 nil。
	imageGate *adgate.Counter
	store     *widgetStore
	logger    *zap.Logger
}

type widgetStore struct {
	mu      sync.Mutex
	widgets map[string]*generator.Widget
}

func newStore() *widgetStore {
	return &widgetStore{widgets: make(map[string]*generator.Widget)}
}

func (s *widgetStore) set(w *generator.Widget) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.widgets[w.ID] = w
}

func (s *widgetStore) get(id string) (*generator.Widget, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.widgets[id]
	return w, ok
}

func New(writer *generator.Writer, gate, imageGate *adgate.Counter, logger *zap.Logger) (*Server, error) {
	if writer == nil {
		return nil, errors.New("writer required")
	}
	if gate == nil {
		return nil, errors.New("ad gate counter required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		writer:    writer,
		gate:      gate,
		imageGate: imageGate,
		store:     newStore(),
		logger:    logger,
	}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/tools", s.handleTools)
	mux.HandleFunc("POST /api/generate", s.handleGenerate)
	mux.HandleFunc("POST /api/widgets", s.handleWidgetCreate)
	mux.HandleFunc("GET /api/widgets/{id}", s.handleWidgetGet)
	mux.HandleFunc("POST /api/widgets/{id}/generate", s.handleWidgetGenerate)
	mux.HandleFunc("POST /api/ad/click", s.handleAdClick)
	mux.HandleFunc("POST /api/ad/reset", s.handleAdReset)
	mux.HandleFunc("GET /api/ad/state", s.handleAdState)
	mux.HandleFunc("GET /api/sponsor", s.handleSponsor)
	return logMiddleware(s.logger, mux)
}

// --- Handlers ---

type generateReq struct {
	Tool   generator.ToolKind `json:"tool"`
	Fields map[string]string  `json:"fields"`
}

type generateResp struct {
	Result generator.Result `json:"result"`
	Ad     adgate.Decision  `json:"ad"`
}

type widgetCreateReq struct {
	Tool generator.ToolKind `json:"tool"`
}

type widgetResp struct {
	WidgetID string             `json:"widget_id"`
	Tool     generator.ToolKind `json:"tool"`
	Loading  bool               `json:"loading"`
	Result   generator.Result   `json:"result"`
	Turns    int                `json:"turns"`
}

type widgetGenerateReq struct {
	Fields map[string]string `json:"fields"`
}

func (s *Server) handleTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, generator.Options())
}

// handleGenerate 校验通过的生成动作才经过广告计数器，再调用写作工具。
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !req.Tool.Valid() {
		http.Error(w, "unknown tool", http.StatusBadRequest)
		return
	}
	genReq := generator.NewRequest(req.Tool, req.Fields)

	var ad adgate.Decision
	if err := generator.Validate(genReq); err == nil {
		ad = s.gate.RecordClick(r.Context())
	}

	ctx, cancel := context.WithTimeout(r.Context(), generateTimeout)
	defer cancel()
	res := s.writer.Generate(ctx, genReq)
	writeJSON(w, http.StatusOK, generateResp{Result: res, Ad: ad})
}

func (s *Server) handleWidgetCreate(w http.ResponseWriter, r *http.Request) {
	var req widgetCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	wd, err := generator.NewWidget(req.Tool, s.writer)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.store.set(wd)
	writeJSON(w, http.StatusCreated, toWidgetResp(wd))
}

func (s *Server) handleWidgetGet(w http.ResponseWriter, r *http.Request) {
	wd, ok := s.store.get(r.PathValue("id"))
	if !ok {
		http.Error(w, "widget not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toWidgetResp(wd))
}

func (s *Server) handleWidgetGenerate(w http.ResponseWriter, r *http.Request) {
	wd, ok := s.store.get(r.PathValue("id"))
	if !ok {
		http.Error(w, "widget not found", http.StatusNotFound)
		return
	}
	var req widgetGenerateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var ad adgate.Decision
	ctx, cancel := context.WithTimeout(r.Context(), generateTimeout)
	defer cancel()
	// 只有拿到 widget 且校验通过的提交才计数，409 的提交不影响广告周期。
	res, err := wd.Submit(ctx, req.Fields, func() {
		ad = s.gate.RecordClick(r.Context())
	})
	if errors.Is(err, generator.ErrBusy) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, generateResp{Result: res, Ad: ad})
}

// counterFor 按 ?scope= 选择计数器：默认文本工具，"images" 为图片工具。
func (s *Server) counterFor(w http.ResponseWriter, r *http.Request) (*adgate.Counter, bool) {
	switch r.URL.Query().Get("scope") {
	case "", "text":
		return s.gate, true
	case "images":
		if s.imageGate != nil {
			return s.imageGate, true
		}
	}
	http.Error(w, "unknown counter scope", http.StatusNotFound)
	return nil, false
}

func (s *Server) handleAdClick(w http.ResponseWriter, r *http.Request) {
	gate, ok := s.counterFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, gate.RecordClick(r.Context()))
}

// handleAdReset 清空所有计数器。
func (s *Server) handleAdReset(w http.ResponseWriter, r *http.Request) {
	var errs []error
	for _, gate := range []*adgate.Counter{s.gate, s.imageGate} {
		if gate == nil {
			continue
		}
		if err := gate.Reset(r.Context()); err != nil {
			s.logger.Warn("ad counter reset failed", zap.String("key", gate.Key()), zap.Error(err))
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAdState(w http.ResponseWriter, r *http.Request) {
	gate, ok := s.counterFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, gate.State(r.Context()))
}

// handleSponsor 只重定向到配置的两个赞助链接，且不泄露 referrer。
func (s *Server) handleSponsor(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")
	links := s.gate.Links()
	if target != links.A && target != links.B {
		http.Error(w, "unknown sponsor link", http.StatusBadRequest)
		return
	}
	w.Header().Set("Referrer-Policy", "no-referrer")
	w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
	http.Redirect(w, r, target, http.StatusFound)
}

// --- Helpers ---

func toWidgetResp(wd *generator.Widget) widgetResp {
	return widgetResp{
		WidgetID: wd.ID,
		Tool:     wd.Tool,
		Loading:  wd.Loading(),
		Result:   wd.Result(),
		Turns:    len(wd.History()),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logMiddleware(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)))
	})
}
