package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/kiosk-feed/internal/board"
	"github.com/i474232898/kiosk-feed/internal/slot"
)

const kmaOK = `{"response":{"header":{"resultCode":"00","resultMsg":"NORMAL_SERVICE"},
"body":{"dataType":"JSON","items":{"item":[
{"baseDate":"20250514","baseTime":"0800","category":"SKY","fcstDate":"20250514","fcstTime":"0900","fcstValue":"1","nx":73,"ny":103},
{"baseDate":"20250514","baseTime":"0800","category":"T1H","fcstDate":"20250514","fcstTime":"0900","fcstValue":21,"nx":73,"ny":103}
]},"pageNo":1,"numOfRows":60,"totalCount":2}}}`

func newTestKMA(t *testing.T, h http.HandlerFunc) *KMAProvider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	p := NewKMAProvider(srv.Client(), "secret", Grid{NX: 73, NY: 103})
	p.baseURL = srv.URL
	p.httpCfg.Backoff.InitialInterval = 10 * time.Millisecond
	return p
}

func TestKMAFetchForecast(t *testing.T) {
	p := newTestKMA(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "secret", q.Get("serviceKey"))
		assert.Equal(t, "60", q.Get("numOfRows"))
		assert.Equal(t, "1", q.Get("pageNo"))
		assert.Equal(t, "JSON", q.Get("dataType"))
		assert.Equal(t, "20250514", q.Get("base_date"))
		assert.Equal(t, "0800", q.Get("base_time"))
		assert.Equal(t, "73", q.Get("nx"))
		assert.Equal(t, "103", q.Get("ny"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(kmaOK))
	})

	records, err := p.FetchForecast(context.Background(), slot.ForecastSlot{Date: "20250514", Time: "0800"})
	require.NoError(t, err)
	assert.Equal(t, []board.ForecastRecord{
		{ForecastTime: "0900", Category: "SKY", Value: "1"},
		{ForecastTime: "0900", Category: "T1H", Value: "21"},
	}, records)
}

func TestKMAFetchForecastResultCode(t *testing.T) {
	p := newTestKMA(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":{"header":{"resultCode":"03","resultMsg":"NO_DATA"}}}`))
	})

	_, err := p.FetchForecast(context.Background(), slot.ForecastSlot{Date: "20250514", Time: "0800"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errKMAResult)
}

func TestKMAFetchForecastBadShape(t *testing.T) {
	cases := map[string]string{
		"no envelope": `{"foo":1}`,
		"not json":    `<OpenAPI_ServiceResponse><cmmMsgHeader/></OpenAPI_ServiceResponse>`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			p := newTestKMA(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})
			_, err := p.FetchForecast(context.Background(), slot.ForecastSlot{Date: "20250514", Time: "0800"})
			assert.Error(t, err)
		})
	}
}

func TestKMAFetchForecastRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	p := newTestKMA(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(kmaOK))
	})

	records, err := p.FetchForecast(context.Background(), slot.ForecastSlot{Date: "20250514", Time: "0800"})
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.EqualValues(t, 2, calls.Load())
}

func TestKMAFetchForecastDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	p := newTestKMA(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := p.FetchForecast(context.Background(), slot.ForecastSlot{Date: "20250514", Time: "0800"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errUnexpected)
	assert.EqualValues(t, 1, calls.Load())
}

func TestKMAFetchForecastHonoursDeadline(t *testing.T) {
	release := make(chan struct{})
	p := newTestKMA(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := p.FetchForecast(ctx, slot.ForecastSlot{Date: "20250514", Time: "0800"})
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestKMAFetchForecastRequiresKey(t *testing.T) {
	p := NewKMAProvider(http.DefaultClient, "", Grid{NX: 73, NY: 103})
	_, err := p.FetchForecast(context.Background(), slot.ForecastSlot{Date: "20250514", Time: "0800"})
	assert.Error(t, err)
}

func TestCircuitOpensAfterRepeatedFailures(t *testing.T) {
	var calls atomic.Int32
	p := newTestKMA(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	})

	for i := 0; i < 5; i++ {
		_, _ = p.FetchForecast(context.Background(), slot.ForecastSlot{Date: "20250514", Time: "0800"})
	}
	_, err := p.FetchForecast(context.Background(), slot.ForecastSlot{Date: "20250514", Time: "0800"})

	assert.ErrorIs(t, err, errCircuitOpen)
	assert.EqualValues(t, 5, calls.Load())
}
