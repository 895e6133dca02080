package ui

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"edadash/adapters/llm"
	"edadash/domain/table"
	"edadash/internal"
	"edadash/internal/dashboard"
	"edadash/internal/errors"
	"edadash/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, client llm.ChatClient, maxUploadMB int64) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	example := func() (*table.Table, string, error) {
		tbl, err := table.New([]string{"depth", "tool"}, [][]string{{"100", "MWD"}, {"200", "Gyro"}})
		return tbl, "example.csv", err
	}
	svc := dashboard.NewService(client, example, internal.NewLogger(internal.LogLevelError))

	server, err := NewServer(os.DirFS(".."), session.NewStore(), svc, maxUploadMB)
	require.NoError(t, err)
	return server
}

// browser replays the session cookie like a real client
type browser struct {
	t      *testing.T
	server *Server
	cookie *http.Cookie
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}
	w := httptest.NewRecorder()
	b.server.Handler().ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookie {
			b.cookie = c
		}
	}
	return w
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) postForm(path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) upload(name, mediaType string, content []byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	header := make(map[string][]string)
	header["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name="file"; filename="%s"`, name)}
	header["Content-Type"] = []string{mediaType}
	part, err := mw.CreatePart(header)
	require.NoError(b.t, err)
	_, err = part.Write(content)
	require.NoError(b.t, err)
	require.NoError(b.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/dataset/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return b.do(req)
}

func TestHealth(t *testing.T) {
	b := &browser{t: t, server: newTestServer(t, &llm.MockChatClient{}, 200)}
	w := b.get("/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","sessions":0}`, w.Body.String())
}

func TestIndex_StartsSession(t *testing.T) {
	b := &browser{t: t, server: newTestServer(t, &llm.MockChatClient{}, 200)}

	w := b.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, b.cookie)
	assert.True(t, b.cookie.HttpOnly)
	assert.Contains(t, w.Body.String(), "How can I help you?")

	w = b.postForm("/visuals", url.Values{"visual": {"NA Info"}})
	require.Equal(t, http.StatusSeeOther, w.Code)

	first := b.cookie.Value
	b.get("/")
	assert.Equal(t, first, b.cookie.Value, "session is reused")

	w = b.get("/healthz")
	assert.JSONEq(t, `{"status":"ok","sessions":1}`, w.Body.String())
}

func TestIndex_CookielessVisitsStoreNothing(t *testing.T) {
	server := newTestServer(t, &llm.MockChatClient{}, 200)
	for i := 0; i < 5; i++ {
		b := &browser{t: t, server: server}
		w := b.get("/")
		require.Equal(t, http.StatusOK, w.Code)
	}

	b := &browser{t: t, server: server}
	w := b.get("/healthz")
	assert.JSONEq(t, `{"status":"ok","sessions":0}`, w.Body.String())
}

func TestUploadAndRender(t *testing.T) {
	b := &browser{t: t, server: newTestServer(t, &llm.MockChatClient{}, 200)}

	w := b.upload("wells.csv", "text/csv", []byte("depth,tool\n100,MWD\n,Gyro\n300,MWD\n"))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = b.postForm("/visuals", url.Values{"visual": {"NA Info", "Box Plots"}})
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = b.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Dataset contains 3 rows and 2 columns.")
	assert.Contains(t, body, "NA Value Information")
	assert.Contains(t, body, "33.33")
	assert.Contains(t, body, "data:image/svg+xml;base64,")
}

func TestUpload_Errors(t *testing.T) {
	t.Run("malformed csv", func(t *testing.T) {
		b := &browser{t: t, server: newTestServer(t, &llm.MockChatClient{}, 200)}
		w := b.upload("bad.csv", "text/csv", []byte("a,b\n1,2,3\n"))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), errors.CodeParseError)
	})

	t.Run("excel declared but not a workbook", func(t *testing.T) {
		b := &browser{t: t, server: newTestServer(t, &llm.MockChatClient{}, 200)}
		b.postForm("/dataset/format", url.Values{"format": {"excel"}})
		w := b.upload("data.bin", "application/octet-stream", []byte("not a zip"))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("too large", func(t *testing.T) {
		b := &browser{t: t, server: newTestServer(t, &llm.MockChatClient{}, 1)}
		w := b.upload("big.csv", "text/csv", bytes.Repeat([]byte("1\n"), 1<<20))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("no file", func(t *testing.T) {
		b := &browser{t: t, server: newTestServer(t, &llm.MockChatClient{}, 200)}
		w := b.postForm("/dataset/upload", url.Values{})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestExampleToggle(t *testing.T) {
	b := &browser{t: t, server: newTestServer(t, &llm.MockChatClient{}, 200)}

	w := b.postForm("/dataset/example", url.Values{"example": {"on"}})
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = b.get("/")
	assert.Contains(t, w.Body.String(), "Dataset contains 2 rows and 2 columns.")
}

func TestSelectVisuals_Unknown(t *testing.T) {
	b := &browser{t: t, server: newTestServer(t, &llm.MockChatClient{}, 200)}
	w := b.postForm("/visuals", url.Values{"visual": {"Heatmap"}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSetOptions(t *testing.T) {
	b := &browser{t: t, server: newTestServer(t, &llm.MockChatClient{}, 200)}
	b.upload("codes.csv", "text/csv", []byte("code,value\n1,10\n2,20\n"))
	b.postForm("/visuals", url.Values{"visual": {"Count Plots of Categorical Columns"}})

	w := b.get("/")
	assert.Contains(t, w.Body.String(), dashboard.MsgNoCategorical)

	w = b.postForm("/options", url.Values{
		"kind:code":    {"text"},
		"problem_type": {"Classification"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = b.get("/")
	body := w.Body.String()
	assert.NotContains(t, body, dashboard.MsgNoCategorical)
	assert.Contains(t, body, "<em>declared</em>")

	w = b.postForm("/options", url.Values{"problem_type": {"Clustering"}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestChat(t *testing.T) {
	t.Run("missing key shows notice once", func(t *testing.T) {
		client := &llm.MockChatClient{}
		b := &browser{t: t, server: newTestServer(t, client, 200)}

		w := b.postForm("/chat", url.Values{"prompt": {"hello"}})
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Empty(t, client.Calls)

		w = b.get("/")
		assert.Contains(t, w.Body.String(), "Please add your OpenAI API key to continue.")
		w = b.get("/")
		assert.NotContains(t, w.Body.String(), "Please add your OpenAI API key to continue.")
	})

	t.Run("reply rendered as markdown", func(t *testing.T) {
		client := &llm.MockChatClient{Response: "Use **describe** <script>alert(1)</script>"}
		b := &browser{t: t, server: newTestServer(t, client, 200)}

		w := b.postForm("/chat", url.Values{"api_key": {"sk-test"}, "prompt": {"how?"}})
		require.Equal(t, http.StatusSeeOther, w.Code)
		require.Len(t, client.Calls, 1)
		assert.Len(t, client.Calls[0], 2)

		body := b.get("/").Body.String()
		assert.Contains(t, body, "<strong>describe</strong>")
		assert.NotContains(t, body, "<script>alert(1)</script>")
		assert.Contains(t, body, "key saved for this session")
	})

	t.Run("api failure", func(t *testing.T) {
		client := &llm.MockChatClient{Error: errors.ExternalServiceError("chat completion", fmt.Errorf("status 401: invalid key"))}
		b := &browser{t: t, server: newTestServer(t, client, 200)}

		w := b.postForm("/chat", url.Values{"api_key": {"sk-bad"}, "prompt": {"hi"}})
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), "invalid key")

		body := b.get("/").Body.String()
		assert.Contains(t, body, "<p>hi</p>", "user message kept after failure")
	})
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(errors.InvalidInput("x")))
	assert.Equal(t, http.StatusNotFound, statusFor(errors.NotFound("x")))
	assert.Equal(t, http.StatusBadGateway, statusFor(errors.ExternalServiceError("x", fmt.Errorf("y"))))
	assert.Equal(t, http.StatusInternalServerError, statusFor(fmt.Errorf("plain")))
}

func TestRenderMarkdown(t *testing.T) {
	out := string(renderMarkdown("- one\n- two"))
	assert.Contains(t, out, "<li>one</li>")
}

func TestRenderMarkdown_UnsafeURLs(t *testing.T) {
	out := string(renderMarkdown("[click](javascript:alert(document.cookie)) ![x](javascript:alert(1))"))
	assert.NotContains(t, out, "javascript:")
	assert.NotContains(t, out, "<img")
	assert.Contains(t, out, "click")

	out = string(renderMarkdown("[docs](https://example.com/docs) ![chart](https://example.com/a.png)"))
	assert.Contains(t, out, `href="https://example.com/docs"`)
	assert.Contains(t, out, "nofollow")
	assert.Contains(t, out, `src="https://example.com/a.png"`)
}
