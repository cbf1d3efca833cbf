package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mannadev/scriptura/internal/domain/devotion"
	"github.com/mannadev/scriptura/internal/domain/readingplan"
	"github.com/mannadev/scriptura/internal/domain/versechat"
	"github.com/mannadev/scriptura/internal/infra/config"
	apperrors "github.com/mannadev/scriptura/pkg/errors"
)

type stubPlanService struct {
	plan     readingplan.Plan
	progress readingplan.Progress
	today    readingplan.TodayReading
	err      error
}

func (s *stubPlanService) Create(context.Context, readingplan.CreateRequest) (readingplan.Plan, error) {
	return s.plan, s.err
}

func (s *stubPlanService) Get(context.Context, string) (readingplan.Plan, readingplan.Progress, error) {
	return s.plan, s.progress, s.err
}

func (s *stubPlanService) List(context.Context) ([]readingplan.Plan, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []readingplan.Plan{s.plan}, nil
}

func (s *stubPlanService) MarkDayComplete(context.Context, string, int) (readingplan.Progress, error) {
	return s.progress, s.err
}

func (s *stubPlanService) TodayReading(context.Context, string) (readingplan.TodayReading, error) {
	return s.today, s.err
}

type stubVerseChat struct {
	resp     versechat.Response
	trending []versechat.TrendingQuery
	err      error
}

func (s *stubVerseChat) Analyze(context.Context, versechat.Request) (versechat.Response, error) {
	return s.resp, s.err
}

func (s *stubVerseChat) Trending(context.Context) ([]versechat.TrendingQuery, error) {
	return s.trending, s.err
}

type stubPageSource struct {
	pages []devotion.RawPage
	err   error
}

func (s *stubPageSource) FetchPages(context.Context) ([]devotion.RawPage, error) {
	return s.pages, s.err
}

func devotionalPages() []devotion.RawPage {
	pages := make([]devotion.RawPage, 0, 30)
	for i := 0; i < 30; i++ {
		pages = append(pages, devotion.RawPage{
			PageID: i + 3,
			Content: []devotion.Fragment{{
				Type: "paragraph",
				Text: `He said, "Let not your heart be troubled: ye believe in God, believe also in me." The promise still stands for every weary traveler on the road.`,
			}},
		})
	}
	return pages
}

func testConfig() *config.Config {
	return &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
}

func newTestServer(t *testing.T, planSvc readingplan.Service, source devotion.PageSource, verseSvc versechat.Service) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	devotionSvc := devotion.NewService(source, nil, 0, logger)
	handler := NewHandler(planSvc, devotionSvc, verseSvc, logger)
	server := NewRouter(testConfig(), handler, logger)
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, payload any) *http.Response {
	t.Helper()
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(encoded)
	}
	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	var payload struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return payload.Error.Code
}

func TestCreatePlanValidation(t *testing.T) {
	ts := newTestServer(t, &stubPlanService{}, &stubPageSource{}, &stubVerseChat{})

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/plans", map[string]string{
		"planType": "gospels",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "invalid_request", decodeError(t, resp))

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/v1/plans", map[string]string{
		"planType":  "gospels",
		"startDate": "01/05/2026",
		"endDate":   "2026-06-01",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "invalid_request", decodeError(t, resp))
}

func TestCreatePlanSuccess(t *testing.T) {
	plan := readingplan.Plan{ID: "plan-1", PlanType: readingplan.PlanGospels, DurationDays: 89}
	ts := newTestServer(t, &stubPlanService{plan: plan}, &stubPageSource{}, &stubVerseChat{})

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/plans", map[string]string{
		"planType":  "gospels",
		"startDate": "2026-01-01",
		"endDate":   "2026-03-31",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var decoded readingplan.Plan
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	require.Equal(t, "plan-1", decoded.ID)
	require.Equal(t, 89, decoded.DurationDays)
}

func TestGetPlanNotFound(t *testing.T) {
	planSvc := &stubPlanService{err: apperrors.Wrap("plan_not_found", "plan does not exist", nil)}
	ts := newTestServer(t, planSvc, &stubPageSource{}, &stubVerseChat{})

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/v1/plans/missing", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "plan_not_found", decodeError(t, resp))
}

func TestTodayReadingNotScheduled(t *testing.T) {
	planSvc := &stubPlanService{err: apperrors.Wrap("reading_not_found", "no reading scheduled for today", nil)}
	ts := newTestServer(t, planSvc, &stubPageSource{}, &stubVerseChat{})

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/v1/plans/plan-1/today", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "reading_not_found", decodeError(t, resp))
}

func TestDevotionForDay(t *testing.T) {
	ts := newTestServer(t, &stubPlanService{}, &stubPageSource{pages: devotionalPages()}, &stubVerseChat{})

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/v1/devotions/5", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var decoded devotion.ProcessedDevotion
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	require.Equal(t, 5, decoded.Day)
	require.Equal(t, "Prayer", decoded.Theme)
}

func TestDevotionForDayOutOfRange(t *testing.T) {
	ts := newTestServer(t, &stubPlanService{}, &stubPageSource{pages: devotionalPages()}, &stubVerseChat{})

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/v1/devotions/31", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "devotion_not_found", decodeError(t, resp))

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/v1/devotions/five", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "invalid_request", decodeError(t, resp))
}

func TestSearchDevotionsRequiresQuery(t *testing.T) {
	ts := newTestServer(t, &stubPlanService{}, &stubPageSource{pages: devotionalPages()}, &stubVerseChat{})

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/v1/devotions", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "invalid_request", decodeError(t, resp))

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/v1/devotions?search=troubled", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var decoded struct {
		Devotions []devotion.ProcessedDevotion `json:"devotions"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	require.Len(t, decoded.Devotions, 30)
}

func TestRefreshDevotionsSourceDown(t *testing.T) {
	source := &stubPageSource{err: errors.New("bucket unreachable")}
	ts := newTestServer(t, &stubPlanService{}, source, &stubVerseChat{})

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/devotions/refresh", nil)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	require.Equal(t, "source_unavailable", decodeError(t, resp))
}

func TestVerseChatStatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"llm failure", apperrors.Wrap("llm_error", "completion request failed", errors.New("boom")), http.StatusBadGateway, "llm_error"},
		{"bad input", apperrors.Wrap("invalid_input", "question cannot be empty", nil), http.StatusBadRequest, "invalid_request"},
		{"internal", apperrors.Wrap("versechat_error", "cache lookup failed", errors.New("down")), http.StatusInternalServerError, "versechat_failed"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t, &stubPlanService{}, &stubPageSource{}, &stubVerseChat{err: tc.err})

			resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/versechat", map[string]string{"question": "anything"})
			require.Equal(t, tc.wantStatus, resp.StatusCode)
			require.Equal(t, tc.wantCode, decodeError(t, resp))
		})
	}
}

func TestVerseChatSuccess(t *testing.T) {
	verseSvc := &stubVerseChat{resp: versechat.Response{
		Question: "What is grace?",
		Answer:   "Unmerited favor.",
		Source:   "llm",
		Mode:     versechat.SearchModeHybrid,
	}}
	ts := newTestServer(t, &stubPlanService{}, &stubPageSource{}, verseSvc)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/versechat", map[string]string{"question": "What is grace?"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var decoded versechat.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	require.Equal(t, "Unmerited favor.", decoded.Answer)
	require.Equal(t, "llm", decoded.Source)
}

func TestTrendingEndpoint(t *testing.T) {
	verseSvc := &stubVerseChat{trending: []versechat.TrendingQuery{
		{Query: "What is grace?", Count: 4},
		{Query: "Who wrote Romans?", Count: 2},
	}}
	ts := newTestServer(t, &stubPlanService{}, &stubPageSource{}, verseSvc)

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/v1/versechat/trending", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var decoded struct {
		Recommendations []versechat.TrendingQuery `json:"recommendations"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	require.Len(t, decoded.Recommendations, 2)
	require.Equal(t, int64(4), decoded.Recommendations[0].Count)
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, &stubPlanService{}, &stubPageSource{}, &stubVerseChat{})

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/v1/plans", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
