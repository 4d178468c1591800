package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/innovation-platform/internal/application"
	appai "github.com/bryanwahyu/innovation-platform/internal/application/ai"
	appanalyses "github.com/bryanwahyu/innovation-platform/internal/application/analyses"
	appdocs "github.com/bryanwahyu/innovation-platform/internal/application/documents"
	appideas "github.com/bryanwahyu/innovation-platform/internal/application/ideas"
	appprojects "github.com/bryanwahyu/innovation-platform/internal/application/projects"
	"github.com/bryanwahyu/innovation-platform/internal/domain/ideas"
	"github.com/bryanwahyu/innovation-platform/internal/infra/ai/prompt"
	"github.com/bryanwahyu/innovation-platform/internal/infra/db/memory"
	"github.com/bryanwahyu/innovation-platform/internal/infra/extractor"
	"github.com/bryanwahyu/innovation-platform/internal/middleware"
)

func newTestServer(t *testing.T) (*httptest.Server, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	ai := appai.NewService(nil)
	clock := application.SystemClock{}
	svc := Services{
		Projects:  &appprojects.Service{Repo: store.Projects(), Clock: clock},
		Documents: &appdocs.Service{Repo: store.Documents(), Extractor: extractor.New(), Clock: clock},
		Analyses:  &appanalyses.Service{Repo: store.Analyses(), Documents: store.Documents(), AI: ai, Clock: clock},
		Ideas: &appideas.Service{
			Repo: store.Ideas(), Analyses: store.Analyses(), AI: ai,
			Scorer: appideas.NewScorer(rand.NewPCG(1, 1)), Clock: clock,
		},
	}
	srv := httptest.NewServer(NewRouter(svc, Options{
		Metrics:  middleware.NewMetrics(),
		Checkers: map[string]middleware.HealthChecker{"database": store},
		Version:  "1.0.0",
	}))
	t.Cleanup(srv.Close)
	return srv, store
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var rdr *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, rdr)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

type upload struct {
	name, mime, content string
}

func doUpload(t *testing.T, url, category string, files ...upload) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if category != "" {
		require.NoError(t, mw.WriteField("category", category))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename="%s"`, f.name))
		h.Set("Content-Type", f.mime)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	resp, err := http.Post(url, mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out bytes.Buffer
	_, err = out.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, out.Bytes()
}

func createProject(t *testing.T, base, name string) string {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, base+"/api/projects", map[string]any{"name": name})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var p struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(body, &p))
	require.Equal(t, name, p.Name)
	return p.ID
}

func TestRootAndHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "AI Innovation Platform Backend is running!")
	assert.Contains(t, string(body), `"version":"1.0.0"`)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"healthy"`)
	assert.Contains(t, string(body), `"uptime"`)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/ready", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"ready"`)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/metrics", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateProjectValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/projects", map[string]any{"name": "  "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"name is required"}`, string(body))

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/projects", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListProjectsNewestFirst(t *testing.T) {
	srv, _ := newTestServer(t)
	a := createProject(t, srv.URL, "first")
	b := createProject(t, srv.URL, "second")

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/projects", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 2)
	// equal timestamps are possible on fast machines, so only check membership
	ids := []string{list[0].ID, list[1].ID}
	assert.ElementsMatch(t, []string{a, b}, ids)
}

func TestGetAndDeleteProject(t *testing.T) {
	srv, _ := newTestServer(t)
	id := createProject(t, srv.URL, "gone soon")

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/projects/"+id, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/projects/"+id, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/projects/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "project not found")

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/projects/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUploadWithoutFiles(t *testing.T) {
	srv, _ := newTestServer(t)
	id := createProject(t, srv.URL, "P")

	resp, body := doUpload(t, srv.URL+"/api/projects/"+id+"/documents", "desirability")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"No files uploaded"}`, string(body))

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/projects/"+id+"/documents", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/projects/"+id+"/documents", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))
}

func TestUploadUnknownProject(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, _ := doUpload(t, srv.URL+"/api/projects/6f1c2f9e-3a57-4c1b-9d2e-8f0a1b2c3d4e/documents", "desirability",
		upload{"a.txt", "text/plain", "hello"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAnalyzeWithoutDocuments(t *testing.T) {
	srv, store := newTestServer(t)
	id := createProject(t, srv.URL, "P")

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/projects/"+id+"/analyze", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"No documents found for this project"}`, string(body))
	assert.Empty(t, store.Analyses().All())
}

func TestIdeateAndEvaluatePreconditions(t *testing.T) {
	srv, _ := newTestServer(t)
	id := createProject(t, srv.URL, "P")

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/projects/"+id+"/ideate", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "Please run analysis first")

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/projects/"+id+"/evaluate", map[string]int{"batchSize": 5})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "Please generate ideas first")
}

func TestTopIdeasParams(t *testing.T) {
	srv, _ := newTestServer(t)
	id := createProject(t, srv.URL, "P")

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/projects/"+id+"/top-ideas", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/projects/"+id+"/top-ideas?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/projects/"+id+"/top-ideas?minScore=high", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/projects/"+id+"/top-ideas?limit=-1", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/projects/"+id+"/top-ideas?limit=0", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))
}

func TestFullFlow(t *testing.T) {
	srv, store := newTestServer(t)
	id := createProject(t, srv.URL, "P")
	base := srv.URL + "/api/projects/" + id

	resp, body := doUpload(t, base+"/documents", "desirability", upload{"notes.txt", "text/plain", "Users struggle with X."})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var docs []struct {
		ID          string `json:"id"`
		Category    string `json:"category"`
		Filename    string `json:"filename"`
		ContentText string `json:"content_text"`
	}
	require.NoError(t, json.Unmarshal(body, &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "Users struggle with X.", docs[0].ContentText)
	assert.Equal(t, "desirability", docs[0].Category)

	resp, body = doJSON(t, http.MethodPost, base+"/analyze", map[string]string{})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var analysis map[string][]struct {
		DocumentName string `json:"documentName"`
		Prompt       string `json:"prompt"`
		Response     string `json:"response"`
	}
	require.NoError(t, json.Unmarshal(body, &analysis))
	prompts := prompt.ForCategory("desirability")
	require.Len(t, analysis["desirability"], len(prompts))
	for _, f := range analysis["desirability"] {
		assert.Equal(t, "notes.txt", f.DocumentName)
		assert.True(t, strings.HasPrefix(f.Response, "Demo analysis for: "))
	}
	rows := store.Analyses().All()
	require.Len(t, rows, len(prompts))
	for _, a := range rows {
		assert.Equal(t, docs[0].ID, string(a.DocumentID))
	}

	resp, body = doJSON(t, http.MethodPost, base+"/ideate", map[string]any{"ideasPerInsight": 3})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var ideated struct {
		GeneratedIdeas int `json:"generatedIdeas"`
		Ideas          []struct {
			Text string `json:"idea_text"`
		} `json:"ideas"`
	}
	require.NoError(t, json.Unmarshal(body, &ideated))
	assert.Equal(t, len(ideated.Ideas), ideated.GeneratedIdeas)
	for _, i := range ideated.Ideas {
		assert.NotEmpty(t, strings.TrimSpace(i.Text))
	}
	// the demo reply has one long line per distinct insight
	require.Positive(t, ideated.GeneratedIdeas)

	resp, body = doJSON(t, http.MethodPost, base+"/evaluate", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.JSONEq(t, fmt.Sprintf(`{"evaluated":%d}`, ideated.GeneratedIdeas), string(body))

	resp, body = doJSON(t, http.MethodGet, base+"/ideas", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var all []ideas.Idea
	require.NoError(t, json.Unmarshal(body, &all))
	require.Len(t, all, ideated.GeneratedIdeas)
	for _, i := range all {
		require.NotNil(t, i.EvaluatedAt)
		assert.Positive(t, i.DesirabilityScore)
		assert.Positive(t, i.ViabilityScore)
		assert.Positive(t, i.FeasibilityScore)
		assert.InDelta(t, (i.DesirabilityScore+i.ViabilityScore+i.FeasibilityScore)/3, i.OverallScore, 1e-9)
	}

	resp, body = doJSON(t, http.MethodGet, base+"/top-ideas?minScore=0&limit=2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var top []ideas.Idea
	require.NoError(t, json.Unmarshal(body, &top))
	assert.LessOrEqual(t, len(top), 2)
	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].OverallScore, top[i].OverallScore)
	}

	resp, body = doJSON(t, http.MethodGet, base+"/documents", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "notes.txt")
}
