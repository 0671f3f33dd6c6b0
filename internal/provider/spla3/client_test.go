package spla3_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/stagewatch/internal/config"
	"github.com/albapepper/stagewatch/internal/provider/spla3"
)

const body = `{"results":[
	{"stages":[{"id":1,"name":"ユノハナ大渓谷"},{"id":2,"name":"ゴンズイ地区"}],
	 "start_time":"2024-05-01T09:00:00+09:00","end_time":"2024-05-01T11:00:00+09:00"},
	{"stages":[{"id":3,"name":"ヤガラ市場"}],
	 "start_time":"2024-05-01T11:00:00+09:00","end_time":"2024-05-01T13:00:00+09:00"}
]}`

var jst = time.FixedZone("JST", 9*60*60)

func serve(t *testing.T, status int, payload string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, spla3.UserAgent, r.Header.Get("User-Agent"))
		w.WriteHeader(status)
		w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newClient() *spla3.Client {
	return spla3.NewClient(5*time.Second, 6000, nil)
}

func TestFetchFirstResult(t *testing.T) {
	srv := serve(t, http.StatusOK, body)

	snap, err := newClient().Fetch(context.Background(),
		config.Category{Name: "Regular", URL: srv.URL}, time.Now())

	require.NoError(t, err)
	assert.Equal(t, []string{"ユノハナ大渓谷", "ゴンズイ地区"}, snap.Stages)
	assert.True(t, snap.Start.Equal(time.Date(2024, 5, 1, 9, 0, 0, 0, jst)))
	assert.True(t, snap.End.Equal(time.Date(2024, 5, 1, 11, 0, 0, 0, jst)))
}

func TestFetchWindowedCategory(t *testing.T) {
	srv := serve(t, http.StatusOK, body)
	cat := config.Category{Name: "Fest", URL: srv.URL, Windowed: true}

	snap, err := newClient().Fetch(context.Background(), cat, time.Date(2024, 5, 1, 10, 0, 0, 0, jst))
	require.NoError(t, err)
	assert.NotNil(t, snap)

	_, err = newClient().Fetch(context.Background(), cat, time.Date(2024, 5, 1, 8, 59, 59, 0, jst))
	assert.ErrorIs(t, err, spla3.ErrNoActiveEvent)

	_, err = newClient().Fetch(context.Background(), cat, time.Date(2024, 5, 1, 11, 0, 1, 0, jst))
	assert.ErrorIs(t, err, spla3.ErrNoActiveEvent)
}

func TestFetchFailures(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		payload string
		want    string
	}{
		{"non-success status", http.StatusServiceUnavailable, "down", "returned 503"},
		{"malformed body", http.StatusOK, "{not json", "decode response"},
		{"empty results", http.StatusOK, `{"results":[]}`, "empty results"},
		{"bad timestamp", http.StatusOK, `{"results":[{"stages":[],"start_time":"soon","end_time":"later"}]}`, "start_time"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := serve(t, tc.status, tc.payload)

			snap, err := newClient().Fetch(context.Background(),
				config.Category{Name: "Regular", URL: srv.URL}, time.Now())

			assert.Nil(t, snap)
			assert.ErrorContains(t, err, tc.want)
			assert.NotErrorIs(t, err, spla3.ErrNoActiveEvent)
		})
	}
}

func TestFetchNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newClient().Fetch(context.Background(), config.Category{Name: "Regular", URL: url}, time.Now())
	assert.ErrorContains(t, err, "http request")
}

func TestFetchOffsetlessTimestamps(t *testing.T) {
	srv := serve(t, http.StatusOK,
		`{"results":[{"stages":[{"name":"A"}],"start_time":"2024-05-01T09:00:00","end_time":"2024-05-01T11:00:00"}]}`)

	snap, err := newClient().Fetch(context.Background(), config.Category{Name: "Regular", URL: srv.URL}, time.Now())

	require.NoError(t, err)
	assert.Equal(t, time.Local, snap.Start.Location())
	assert.Equal(t, 9, snap.Start.Hour())
}
