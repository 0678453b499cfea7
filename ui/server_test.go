package ui

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bmidash/app"
	"bmidash/domain/core"
	"bmidash/domain/dataset"
	"bmidash/internal"
	apperrors "bmidash/internal/errors"
	"bmidash/internal/piechart"
	"bmidash/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAcquirer struct {
	mock.Mock
	snapshot *dataset.Snapshot
}

func (m *MockAcquirer) Acquire(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockAcquirer) Snapshot() (dataset.Snapshot, bool) {
	if m.snapshot == nil {
		return dataset.Snapshot{}, false
	}
	return *m.snapshot, true
}

type MockLoader struct {
	mock.Mock
}

func (m *MockLoader) Load(ctx context.Context) (*dataset.Table, error) {
	args := m.Called(ctx)
	table, _ := args.Get(0).(*dataset.Table)
	return table, args.Error(1)
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, acquirer *MockAcquirer, loader *MockLoader) *Server {
	t.Helper()
	svc := app.NewDashboardService(acquirer, loader, internal.NewLogger(internal.LogLevelError))
	s, err := NewServer(svc, session.NewStore(), Options{})
	require.NoError(t, err)
	return s
}

func sampleTable() *dataset.Table {
	return &dataset.Table{
		Headers: []string{"Gender", "Height", "Weight", "Index"},
		Records: []dataset.Record{
			{Row: 1, Gender: "Male", Height: 180, Weight: 90},
			{Row: 2, Gender: "Female", Height: 160, Weight: 50},
			{Row: 3, Gender: "Female", Height: 150, Weight: 80},
		},
	}
}

func do(s *Server, method, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func sessionCookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", sessionCookie)
	return nil
}

func TestIndexBeforeDownload(t *testing.T) {
	loader := &MockLoader{}
	s := newTestServer(t, &MockAcquirer{}, loader)

	rec := do(s, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, pageTitle)
	assert.Contains(t, body, "Download Dataset")
	assert.Contains(t, body, "To begin, click the")
	assert.NotContains(t, body, "Number of Overweight Individuals")
	assert.NotContains(t, body, "Customize Pie Chart")
	assert.NotNil(t, sessionCookieFrom(t, rec))

	loader.AssertNotCalled(t, "Load", mock.Anything)
}

func TestDownloadThenRender(t *testing.T) {
	acquirer := &MockAcquirer{}
	acquirer.On("Acquire", mock.Anything).Return(nil).Once()
	loader := &MockLoader{}
	loader.On("Load", mock.Anything).Return(sampleTable(), nil)
	s := newTestServer(t, acquirer, loader)

	first := do(s, http.MethodGet, "/")
	cookie := sessionCookieFrom(t, first)

	rec := do(s, http.MethodPost, "/download", cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = do(s, http.MethodGet, "/?title=My+Chart&color=%23ff0000", cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "Dataset has been downloaded.")
	assert.Contains(t, body, "Number of Overweight Individuals")
	assert.Contains(t, body, "There are 2 overweight individuals in the dataset.")
	assert.Contains(t, body, "Customize Pie Chart")
	assert.Contains(t, body, "<svg")
	assert.Contains(t, body, "My Chart")
	assert.Contains(t, body, `value="#ff0000"`)
	assert.NotContains(t, body, "Download Dataset")

	acquirer.AssertExpectations(t)
}

func TestSessionsAreIndependent(t *testing.T) {
	acquirer := &MockAcquirer{}
	acquirer.On("Acquire", mock.Anything).Return(nil)
	loader := &MockLoader{}
	loader.On("Load", mock.Anything).Return(sampleTable(), nil)
	s := newTestServer(t, acquirer, loader)

	ready := sessionCookieFrom(t, do(s, http.MethodPost, "/download"))
	assert.Contains(t, do(s, http.MethodGet, "/", ready).Body.String(), "Dataset has been downloaded.")

	// a different browser starts over
	rec := do(s, http.MethodGet, "/")
	assert.Contains(t, rec.Body.String(), "Download Dataset")
}

func TestDownloadFailure(t *testing.T) {
	acquirer := &MockAcquirer{}
	acquirer.On("Acquire", mock.Anything).Return(apperrors.AcquisitionFailed(errors.New("connection refused")))
	loader := &MockLoader{}
	s := newTestServer(t, acquirer, loader)

	rec := do(s, http.MethodPost, "/download")
	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error downloading dataset: dataset download failed: connection refused")
	assert.Contains(t, rec.Body.String(), "Download Dataset")

	cookie := sessionCookieFrom(t, rec)
	rec = do(s, http.MethodGet, "/", cookie)
	assert.Contains(t, rec.Body.String(), "Download Dataset")
	loader.AssertNotCalled(t, "Load", mock.Anything)
}

func TestParseErrorIsServerError(t *testing.T) {
	acquirer := &MockAcquirer{}
	acquirer.On("Acquire", mock.Anything).Return(nil)
	loader := &MockLoader{}
	loader.On("Load", mock.Anything).Return(nil, apperrors.ParseFailed("dataset is missing required columns", errors.New("Height")))
	s := newTestServer(t, acquirer, loader)

	cookie := sessionCookieFrom(t, do(s, http.MethodPost, "/download"))
	rec := do(s, http.MethodGet, "/", cookie)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error loading dataset")
	assert.Contains(t, rec.Body.String(), "missing required columns")
}

func TestNoOverweightShowsNote(t *testing.T) {
	acquirer := &MockAcquirer{}
	acquirer.On("Acquire", mock.Anything).Return(nil)
	loader := &MockLoader{}
	loader.On("Load", mock.Anything).Return(&dataset.Table{
		Headers: []string{"Gender", "Height", "Weight"},
		Records: []dataset.Record{{Row: 1, Gender: "Male", Height: 180, Weight: 60}},
	}, nil)
	s := newTestServer(t, acquirer, loader)

	cookie := sessionCookieFrom(t, do(s, http.MethodPost, "/download"))
	body := do(s, http.MethodGet, "/", cookie).Body.String()

	assert.Contains(t, body, "There are 0 overweight individuals in the dataset.")
	assert.Contains(t, body, "No overweight individuals to chart.")
	assert.NotContains(t, body, "<svg")
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, &MockAcquirer{}, &MockLoader{})
	rec := do(s, http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHealthDoesNotStartSessions(t *testing.T) {
	s := newTestServer(t, &MockAcquirer{}, &MockLoader{})

	for i := 0; i < 100; i++ {
		rec := do(s, http.MethodGet, "/healthz")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Result().Cookies())
	}
	assert.Equal(t, 0, s.sessions.Len())

	do(s, http.MethodGet, "/")
	assert.Equal(t, 1, s.sessions.Len())
}

func TestChartTextIsEscaped(t *testing.T) {
	acquirer := &MockAcquirer{}
	acquirer.On("Acquire", mock.Anything).Return(nil)
	loader := &MockLoader{}
	loader.On("Load", mock.Anything).Return(&dataset.Table{
		Headers: []string{"Gender", "Height", "Weight"},
		Records: []dataset.Record{{Row: 1, Gender: "<img src=x onerror=alert(2)>", Height: 160, Weight: 90}},
	}, nil)
	s := newTestServer(t, acquirer, loader)

	cookie := sessionCookieFrom(t, do(s, http.MethodPost, "/download"))
	rec := do(s, http.MethodGet, "/?title=%3Cscript%3Ealert(1)%3C%2Fscript%3E", cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "<svg")
	assert.NotContains(t, body, "<script>")
	assert.NotContains(t, body, "<img")
}

func TestIndexShowsSnapshot(t *testing.T) {
	acquirer := &MockAcquirer{snapshot: &dataset.Snapshot{
		Path:        "people.csv",
		Bytes:       1234,
		Fingerprint: core.NewHash([]byte("abc")),
		AcquiredAt:  core.Timestamp(time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)),
	}}
	acquirer.On("Acquire", mock.Anything).Return(nil)
	loader := &MockLoader{}
	loader.On("Load", mock.Anything).Return(sampleTable(), nil)
	s := newTestServer(t, acquirer, loader)

	cookie := sessionCookieFrom(t, do(s, http.MethodPost, "/download"))
	body := do(s, http.MethodGet, "/", cookie).Body.String()

	assert.Contains(t, body, "Fetched 2024-03-01T12:30:00Z (1234 bytes, sha256 ba7816bf8f01)")
}

func TestTableErrorShowsHint(t *testing.T) {
	acquirer := &MockAcquirer{}
	acquirer.On("Acquire", mock.Anything).Return(nil)
	loader := &MockLoader{}
	loader.On("Load", mock.Anything).Return(nil, apperrors.ParseFailed("dataset is missing required columns", core.NewMissingColumnsError([]string{"Height"})))
	s := newTestServer(t, acquirer, loader)

	cookie := sessionCookieFrom(t, do(s, http.MethodPost, "/download"))
	rec := do(s, http.MethodGet, "/", cookie)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "is not a Gender/Height/Weight table")
}

func TestDownloadUnexpectedErrorIsServerError(t *testing.T) {
	acquirer := &MockAcquirer{}
	acquirer.On("Acquire", mock.Anything).Return(errors.New("disk full"))
	s := newTestServer(t, acquirer, &MockLoader{})

	rec := do(s, http.MethodPost, "/download")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error downloading dataset: disk full")
}

func TestChartOptions(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  piechart.Options
	}{
		{
			name:  "defaults",
			query: "",
			want:  piechart.DefaultOptions(),
		},
		{
			name:  "values are clamped",
			query: "title=Hello&title_font_size=50&label_font_size=5&color=%23ABCDEF",
			want: func() piechart.Options {
				o := piechart.DefaultOptions()
				o.Title = "Hello"
				o.TitleFontSize = piechart.MaxTitleFontSize
				o.LabelFontSize = piechart.MinLabelFontSize
				o.Color = "#abcdef"
				return o
			}(),
		},
		{
			name:  "empty title is kept",
			query: "title=",
			want: func() piechart.Options {
				o := piechart.DefaultOptions()
				o.Title = ""
				return o
			}(),
		},
		{
			name:  "malformed sizes keep defaults",
			query: "title_font_size=big",
			want:  piechart.DefaultOptions(),
		},
		{
			name:  "bad color falls back",
			query: "color=teal",
			want:  piechart.DefaultOptions(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			assert.Equal(t, tt.want, chartOptions(c))
		})
	}
}

func TestRenderMarkdown(t *testing.T) {
	out := string(renderMarkdown("**bold** <script>x</script>"))
	assert.Contains(t, out, "<strong>bold</strong>")
	assert.False(t, strings.Contains(out, "<script>"))
}
