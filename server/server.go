package server

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"seo_blog_writer/generator"
	"seo_blog_writer/publisher"
	"seo_blog_writer/seo"
	"seo_blog_writer/store"
)

//go:embed web/index.html
var embeddedStatic embed.FS

const llmTimeout = 60 * time.Second

// PostStore persists saved articles.
type PostStore interface {
	Save(ctx context.Context, article generator.Article) (store.Post, error)
	Get(ctx context.Context, id string) (store.Post, error)
	List(ctx context.Context, limit int) ([]store.Summary, error)
	Delete(ctx context.Context, id string) error
}

// Options configures a Server.
type Options struct {
	WebsiteLink string
	Logger      *slog.Logger
}

type Server struct {
	genAgent    *generator.Agent
	posts       PostStore
	sessions    *sessionStore
	websiteLink string
	logger      *slog.Logger
}

type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*generator.Session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*generator.Session)}
}

func (s *sessionStore) set(id string, sess *generator.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = sess
}

func (s *sessionStore) get(id string) (*generator.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func New(genAgent *generator.Agent, posts PostStore, opts Options) (*Server, error) {
	if genAgent == nil {
		return nil, errors.New("generator agent required")
	}
	if posts == nil {
		return nil, errors.New("post store required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		genAgent:    genAgent,
		posts:       posts,
		sessions:    newSessionStore(),
		websiteLink: opts.WebsiteLink,
		logger:      logger,
	}, nil
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logMiddleware)

	r.Get("/", s.handleIndex)
	r.Route("/api", func(r chi.Router) {
		r.Post("/articles", s.handleArticleCreate)
		r.Post("/analyze", s.handleAnalyze)

		r.Get("/sessions/{id}", s.handleSessionGet)
		r.Post("/sessions/{id}", s.handleSessionRevise)

		r.Get("/posts", s.handlePostList)
		r.Post("/posts", s.handlePostCreate)
		r.Get("/posts/{id}", s.handlePostGet)
		r.Delete("/posts/{id}", s.handlePostDelete)
		r.Get("/posts/{id}/export", s.handlePostExport)
	})
	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := embeddedStatic.ReadFile("web/index.html")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

// --- Handlers ---

type articleCreateReq struct {
	Topic        string `json:"topic"`
	RequiredLine string `json:"required_line"`
	Words        int    `json:"words"`
	WebsiteLink  string `json:"website_link"`
}

type sessionResp struct {
	SessionID string            `json:"session_id"`
	Article   generator.Article `json:"article"`
	Metrics   []seo.Metric      `json:"metrics"`
	History   []generator.Turn  `json:"history"`
}

type reviseReq struct {
	Comment string `json:"comment"`
}

type analyzeReq struct {
	Raw          string `json:"raw"`
	Topic        string `json:"topic"`
	MarkerSyntax string `json:"marker_syntax"`
	WebsiteLink  string `json:"website_link"`
}

type analyzeResp struct {
	Article generator.Article `json:"article"`
	Metrics []seo.Metric      `json:"metrics"`
}

type postCreateReq struct {
	SessionID string `json:"session_id"`
}

func (s *Server) handleArticleCreate(w http.ResponseWriter, r *http.Request) {
	var req articleCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Topic == "" {
		http.Error(w, "topic is required", http.StatusBadRequest)
		return
	}
	spec := generator.Spec{
		Topic:        req.Topic,
		RequiredLine: req.RequiredLine,
		Words:        req.Words,
		WebsiteLink:  req.WebsiteLink,
	}
	if spec.WebsiteLink == "" {
		spec.WebsiteLink = s.websiteLink
	}

	id := uuid.NewString()
	sess := generator.NewSession(id, spec, s.genAgent)
	ctx, cancel := context.WithTimeout(r.Context(), llmTimeout)
	defer cancel()
	article, err := sess.Propose(ctx)
	if err != nil {
		s.logger.Error("generate article", "topic", spec.Topic, "error", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	s.sessions.set(id, sess)
	s.logger.Info("article generated", "session", id, "score", article.Report.FinalScore)
	_, history := sess.Snapshot()
	writeJSON(w, http.StatusOK, sessionResp{SessionID: id, Article: article, Metrics: article.Report.Metrics(), History: history})
}

func (s *Server) handleSessionGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	article, history := sess.Snapshot()
	writeJSON(w, http.StatusOK, sessionResp{SessionID: sess.ID, Article: article, Metrics: article.Report.Metrics(), History: history})
}

func (s *Server) handleSessionRevise(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req reviseReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), llmTimeout)
	defer cancel()
	article, err := sess.Revise(ctx, req.Comment)
	if err != nil {
		s.logger.Error("revise article", "session", sess.ID, "error", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	_, history := sess.Snapshot()
	writeJSON(w, http.StatusOK, sessionResp{SessionID: sess.ID, Article: article, Metrics: article.Report.Metrics(), History: history})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	layout := s.genAgent.Layout()
	if req.MarkerSyntax != "" {
		if !seo.ValidMarkerSyntax(req.MarkerSyntax) {
			http.Error(w, "marker_syntax must contain exactly one %s", http.StatusBadRequest)
			return
		}
		custom := generator.DefaultLayout(req.MarkerSyntax)
		custom.Levels = layout.Levels
		custom.Rules = layout.Rules
		layout = custom
	}
	spec := generator.Spec{Topic: req.Topic, WebsiteLink: req.WebsiteLink}
	if spec.WebsiteLink == "" {
		spec.WebsiteLink = s.websiteLink
	}
	article, err := generator.PostProcess(req.Raw, spec, layout)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, analyzeResp{Article: article, Metrics: article.Report.Metrics()})
}

func (s *Server) handlePostCreate(w http.ResponseWriter, r *http.Request) {
	var req postCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sess, ok := s.sessions.get(req.SessionID)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	article, history := sess.Snapshot()
	if len(history) == 0 {
		http.Error(w, "session has no draft", http.StatusConflict)
		return
	}
	post, err := s.posts.Save(r.Context(), article)
	if err != nil {
		s.logger.Error("save post", "session", sess.ID, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (s *Server) handlePostList(w http.ResponseWriter, r *http.Request) {
	posts, err := s.posts.List(r.Context(), 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if posts == nil {
		posts = []store.Summary{}
	}
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) handlePostGet(w http.ResponseWriter, r *http.Request) {
	post, ok := s.post(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) handlePostDelete(w http.ResponseWriter, r *http.Request) {
	err := s.posts.Delete(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePostExport(w http.ResponseWriter, r *http.Request) {
	post, ok := s.post(w, r)
	if !ok {
		return
	}
	slug := post.Article.Sections.Get(seo.Slug)
	if slug == "" {
		slug = post.ID
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "html":
		page, err := publisher.RenderPage(post.Article)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	case "md", "markdown":
		md, err := publisher.RenderMarkdown(post.Article)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Header().Set("Content-Disposition", attachment(slug+".md"))
		_, _ = w.Write([]byte(md))
	case "pdf":
		var buf bytes.Buffer
		if err := publisher.RenderPDF(post.Article, &buf); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", attachment(slug+".pdf"))
		_, _ = w.Write(buf.Bytes())
	default:
		http.Error(w, "unsupported format "+format, http.StatusBadRequest)
	}
}

// --- Helpers ---

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*generator.Session, bool) {
	sess, ok := s.sessions.get(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return nil, false
	}
	return sess, true
}

func (s *Server) post(w http.ResponseWriter, r *http.Request) (store.Post, bool) {
	post, err := s.posts.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return store.Post{}, false
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return store.Post{}, false
	}
	return post, true
}

func attachment(filename string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": filename})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
