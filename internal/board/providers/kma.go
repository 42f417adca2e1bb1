package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker"

	"github.com/i474232898/kiosk-feed/internal/board"
	"github.com/i474232898/kiosk-feed/internal/slot"
)

const kmaResultOK = "00"

var (
	errKMAMissingEnvelope = errors.New("kma response has no header")
	errKMAResult          = errors.New("kma result code")
)

// Grid is a point on the KMA forecast grid.
type Grid struct {
	NX int
	NY int
}

// KMAProvider implements board.ForecastProvider for the KMA ultra-short-term forecast.
type KMAProvider struct {
	name       string
	serviceKey string
	baseURL    string
	grid       Grid
	rows       int
	httpCfg    HTTPClientConfig
	circuit    *gobreaker.CircuitBreaker
}

func NewKMAProvider(client *http.Client, serviceKey string, grid Grid) *KMAProvider {
	return &KMAProvider{
		name:       "kma",
		serviceKey: serviceKey,
		baseURL:    "https://apis.data.go.kr/1360000/VilageFcstInfoService_2.0/getUltraSrtFcst",
		grid:       grid,
		rows:       60,
		httpCfg:    defaultHTTPConfig(client),
		circuit:    newCircuitBreaker("kma"),
	}
}

func (p *KMAProvider) Name() string {
	return p.name
}

func (p *KMAProvider) FetchForecast(ctx context.Context, s slot.ForecastSlot) ([]board.ForecastRecord, error) {
	if p.serviceKey == "" {
		return nil, fmt.Errorf("kma service key is not configured")
	}

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("serviceKey", p.serviceKey)
		values.Set("numOfRows", strconv.Itoa(p.rows))
		values.Set("pageNo", "1")
		values.Set("dataType", "JSON")
		values.Set("base_date", s.Date)
		values.Set("base_time", s.Time)
		values.Set("nx", strconv.Itoa(p.grid.NX))
		values.Set("ny", strconv.Itoa(p.grid.NY))

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Response *struct {
			Header *struct {
				ResultCode string `json:"resultCode"`
				ResultMsg  string `json:"resultMsg"`
			} `json:"header"`
			Body struct {
				Items struct {
					Item []struct {
						FcstTime  string     `json:"fcstTime"`
						Category  string     `json:"category"`
						FcstValue flexString `json:"fcstValue"`
					} `json:"item"`
				} `json:"items"`
			} `json:"body"`
		} `json:"response"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode kma response: %w", err)
	}

	if payload.Response == nil || payload.Response.Header == nil {
		return nil, errKMAMissingEnvelope
	}
	if h := payload.Response.Header; h.ResultCode != kmaResultOK {
		return nil, fmt.Errorf("%w %q: %s", errKMAResult, h.ResultCode, h.ResultMsg)
	}

	items := payload.Response.Body.Items.Item
	records := make([]board.ForecastRecord, 0, len(items))
	for _, it := range items {
		records = append(records, board.ForecastRecord{
			ForecastTime: it.FcstTime,
			Category:     it.Category,
			Value:        string(it.FcstValue),
		})
	}
	return records, nil
}
