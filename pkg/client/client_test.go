package client

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letsconfuse/manualQaLabs/pkg/api"
	"github.com/letsconfuse/manualQaLabs/pkg/logging"
	"github.com/letsconfuse/manualQaLabs/pkg/monitor"
	"github.com/letsconfuse/manualQaLabs/pkg/report"
	"github.com/letsconfuse/manualQaLabs/pkg/runner"
	"github.com/letsconfuse/manualQaLabs/pkg/scenario"
	"github.com/letsconfuse/manualQaLabs/pkg/scenarios/agegate"
)

func newLabServer(t *testing.T, opts ...api.ServerOption) *httptest.Server {
	t.Helper()
	collector := monitor.NewEventCollector(0)
	r := runner.NewRunner(runner.WithCollector(collector))
	dash := monitor.BuildDashboardData(r.Registry().Definitions(), collector)
	collector.OnEvent(dash.UpdateFromEvent)

	opts = append([]api.ServerOption{
		api.WithAccessLog(io.Discard),
		api.WithDashboard(dash),
	}, opts...)
	ts := httptest.NewServer(api.NewServer(r, opts...).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestNewAPIClient_Defaults(t *testing.T) {
	c := NewAPIClient("http://localhost:8080/")
	assert.Equal(t, "http://localhost:8080", c.BaseURL())
	assert.Equal(t, 30*time.Second, c.httpClient.Timeout)

	c = NewAPIClient("http://x", WithTimeout(time.Second), WithToken("t"))
	assert.Equal(t, time.Second, c.httpClient.Timeout)
	assert.Equal(t, "t", c.token)

	hc := &http.Client{}
	c = NewAPIClient("http://x", WithHTTPClient(hc), WithHTTPClient(nil))
	assert.Same(t, hc, c.httpClient)
}

func TestAPIClient_Flow(t *testing.T) {
	ts := newLabServer(t)
	c := NewAPIClient(ts.URL)
	ctx := context.Background()

	h, err := c.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", h.Status)

	list, err := c.Scenarios(ctx, "")
	require.NoError(t, err)
	assert.Len(t, list, 8)

	security, err := c.Scenarios(ctx, scenario.TypeSecurity)
	require.NoError(t, err)
	assert.Len(t, security, 2)

	info, err := c.Open(ctx, agegate.ID)
	require.NoError(t, err)

	out, err := c.Submit(ctx, info.ID, scenario.NewAction("submit", "age", "18"))
	require.NoError(t, err)
	assert.Equal(t, []string{agegate.MinBoundary}, out.Solved)

	got, err := c.Session(ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Actions)

	sessions, err := c.Sessions(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)

	eval, err := c.Evaluate(ctx, agegate.ID, scenario.NewAction("submit", "age", "17"))
	require.NoError(t, err)
	assert.Equal(t, []string{agegate.BelowMin}, eval.Solved)

	checklist, err := c.Checklist(ctx, agegate.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, checklist.Solved)
	assert.Equal(t, report.HiddenTitle, checklist.Items[2].Title)

	snap, err := c.Progress(ctx, agegate.ID)
	require.NoError(t, err)
	assert.Len(t, snap.Solved, 2)

	summary, err := c.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.SolvedRules)

	dash, err := c.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, dash.Scenarios[0].Solved)

	snap, err = c.Reset(ctx, agegate.ID)
	require.NoError(t, err)
	assert.Empty(t, snap.Solved)

	require.NoError(t, c.Close(ctx, info.ID))
	err = c.Close(ctx, info.ID)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestAPIClient_Errors(t *testing.T) {
	ts := newLabServer(t)
	c := NewAPIClient(ts.URL)
	ctx := context.Background()

	_, err := c.Checklist(ctx, "nope")
	require.Error(t, err)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.Contains(t, se.Message, "scenario not found")

	_, err = c.Submit(ctx, "s1", scenario.Action{})
	require.Error(t, err)
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Code)
	assert.False(t, IsNotFound(err))
}

func TestAPIClient_Token(t *testing.T) {
	ts := newLabServer(t, api.WithToken("lab-secret-token"))
	ctx := context.Background()

	_, err := NewAPIClient(ts.URL).Open(ctx, agegate.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 401")

	var buf bytes.Buffer
	logger := logging.NewWriterLogger(&buf, logging.LevelDebug, true)
	c := NewAPIClient(ts.URL, WithToken("lab-secret-token"), WithLogger(logger))
	_, err = c.Open(ctx, agegate.ID)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "api request")
	assert.NotContains(t, buf.String(), "lab-secret-token")
}

func TestAPIClient_NonJSONResponses(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		errMsg  string
		isState bool
	}{
		{"plain error", http.StatusBadGateway, "upstream down\n", "HTTP 502: upstream down", true},
		{"bad json", http.StatusOK, "{not json", "parse response", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			_, err := NewAPIClient(ts.URL).Health(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
			var se *StatusError
			assert.Equal(t, tt.isState, errors.As(err, &se))
		})
	}
}

func TestAPIClient_ConnectionError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := NewAPIClient(url, WithTimeout(time.Second)).Health(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
}
