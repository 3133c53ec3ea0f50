package server

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seo_blog_writer/generator"
	"seo_blog_writer/seo"
	"seo_blog_writer/store"
)

type failingLLM struct{}

func (failingLLM) Complete(context.Context, generator.Prompt) (string, error) {
	return "", errors.New("upstream down")
}

func newTestServer(t *testing.T, llm generator.LLMClient) http.Handler {
	t.Helper()
	ctx := context.Background()
	posts, err := store.Open(ctx, filepath.Join(t.TempDir(), "posts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { posts.Close() })
	require.NoError(t, posts.Migrate(ctx))

	agent, err := generator.NewAgent(llm, generator.DefaultLayout(""))
	require.NoError(t, err)
	srv, err := New(agent, posts, Options{WebsiteLink: "https://example.com"})
	require.NoError(t, err)
	return srv.Routes()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, nil, Options{})
	assert.Error(t, err)

	agent, err := generator.NewAgent(generator.MockLLM{}, generator.DefaultLayout(""))
	require.NoError(t, err)
	_, err = New(agent, nil, Options{})
	assert.Error(t, err)
}

func TestIndex(t *testing.T) {
	h := newTestServer(t, generator.MockLLM{})
	rec := do(t, h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "SEO Blog Writer")
}

func TestArticleLifecycle(t *testing.T) {
	h := newTestServer(t, generator.MockLLM{})

	rec := do(t, h, http.MethodPost, "/api/articles", `{"topic":"Home brewing","required_line":"Brew well"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decode[sessionResp](t, rec)
	require.NotEmpty(t, created.SessionID)
	assert.Equal(t, "home-brewing", created.Article.Sections.Get(seo.Slug))
	assert.Equal(t, "https://example.com", created.Article.Links.Website)
	assert.Len(t, created.Metrics, 7)
	assert.Len(t, created.History, 1)

	rec = do(t, h, http.MethodGet, "/api/sessions/"+created.SessionID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.Article.BodyHTML, decode[sessionResp](t, rec).Article.BodyHTML)

	rec = do(t, h, http.MethodPost, "/api/sessions/"+created.SessionID, `{"comment":"more detail"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	revised := decode[sessionResp](t, rec)
	assert.Len(t, revised.History, 2)

	rec = do(t, h, http.MethodPost, "/api/posts", `{"session_id":"`+created.SessionID+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	post := decode[store.Post](t, rec)
	require.NotEmpty(t, post.ID)

	rec = do(t, h, http.MethodGet, "/api/posts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]store.Summary](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, post.ID, list[0].ID)

	rec = do(t, h, http.MethodGet, "/api/posts/"+post.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Home brewing", decode[store.Post](t, rec).Article.Topic)

	rec = do(t, h, http.MethodGet, "/api/posts/"+post.ID+"/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<!DOCTYPE html>")

	rec = do(t, h, http.MethodGet, "/api/posts/"+post.ID+"/export?format=md", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "## Why it matters")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "home-brewing.md")

	rec = do(t, h, http.MethodGet, "/api/posts/"+post.ID+"/export?format=docx", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/posts/"+post.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/posts/"+post.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, h, http.MethodDelete, "/api/posts/"+post.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEmptyPostList(t *testing.T) {
	h := newTestServer(t, generator.MockLLM{})
	rec := do(t, h, http.MethodGet, "/api/posts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestArticleCreate_Errors(t *testing.T) {
	h := newTestServer(t, generator.MockLLM{})

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/articles", `{`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/articles", `{"topic":""}`).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodGet, "/api/articles", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/sessions/nope", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPost, "/api/posts", `{"session_id":"nope"}`).Code)
}

func TestArticleCreate_LLMFailure(t *testing.T) {
	h := newTestServer(t, failingLLM{})
	rec := do(t, h, http.MethodPost, "/api/articles", `{"topic":"x"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "upstream down")
}

func TestAnalyze(t *testing.T) {
	h := newTestServer(t, failingLLM{})

	raw := "Focus Keyphrase:\nword\n\nMeta Title:\n0123456789\n\nMeta Description:\n0123456789\n\nFull Blog Content:\n" + strings.Repeat("word ", 50)
	body, err := json.Marshal(analyzeReq{Raw: raw, Topic: "Word games"})
	require.NoError(t, err)

	rec := do(t, h, http.MethodPost, "/api/analyze", string(body))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[analyzeResp](t, rec)
	assert.Equal(t, 50, resp.Article.Report.WordCount)
	assert.Equal(t, 80, resp.Article.Report.FinalScore)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Word_games", resp.Article.Links.Wikipedia)
	assert.Equal(t, "Final SEO Score", resp.Metrics[6].Name)
}

func TestAnalyze_CustomSyntax(t *testing.T) {
	h := newTestServer(t, failingLLM{})

	body, err := json.Marshal(analyzeReq{Raw: "### Slug:\nabc\n### H1:\nTitle", MarkerSyntax: "### %s:"})
	require.NoError(t, err)
	rec := do(t, h, http.MethodPost, "/api/analyze", string(body))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", decode[analyzeResp](t, rec).Article.Sections.Get(seo.Slug))

	rec = do(t, h, http.MethodPost, "/api/analyze", `{"raw":"x","marker_syntax":"Name:"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/analyze", `{"raw":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAttachment_QuotesFilename(t *testing.T) {
	header := attachment(`say-"hi".md`)

	disposition, params, err := mime.ParseMediaType(header)
	require.NoError(t, err)
	assert.Equal(t, "attachment", disposition)
	assert.Equal(t, `say-"hi".md`, params["filename"])
}
