package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker"

	"github.com/i474232898/kiosk-feed/internal/board"
	"github.com/i474232898/kiosk-feed/internal/slot"
)

// NEIS meal codes (MMEAL_SC_CODE).
var neisMealCodes = map[slot.MealCode]string{
	slot.Breakfast: "1",
	slot.Lunch:     "2",
	slot.Dinner:    "3",
}

// School identifies an institution in NEIS.
type School struct {
	OfficeCode string // ATPT_OFCDC_SC_CODE
	SchoolCode string // SD_SCHUL_CODE
}

// NEISProvider implements board.MealProvider for the NEIS meal service.
type NEISProvider struct {
	name    string
	apiKey  string
	baseURL string
	school  School
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewNEISProvider(client *http.Client, apiKey string, school School) *NEISProvider {
	return &NEISProvider{
		name:    "neis",
		apiKey:  apiKey,
		baseURL: "https://open.neis.go.kr/hub/mealServiceDietInfo",
		school:  school,
		httpCfg: defaultHTTPConfig(client),
		circuit: newCircuitBreaker("neis"),
	}
}

func (p *NEISProvider) Name() string {
	return p.name
}

// FetchMeal returns the raw DDISH_NM text for the slot, or board.ErrNoMealData
// when the service has nothing published.
func (p *NEISProvider) FetchMeal(ctx context.Context, s slot.MealSlot) (string, error) {
	code, ok := neisMealCodes[s.Code]
	if !ok {
		return "", fmt.Errorf("unknown meal code %q", s.Code)
	}

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("KEY", p.apiKey)
		values.Set("Type", "json")
		values.Set("ATPT_OFCDC_SC_CODE", p.school.OfficeCode)
		values.Set("SD_SCHUL_CODE", p.school.SchoolCode)
		values.Set("MMEAL_SC_CODE", code)
		values.Set("MLSV_YMD", s.Date)

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	// The first group is a header block, the second holds the rows.
	var payload struct {
		MealServiceDietInfo []json.RawMessage `json:"mealServiceDietInfo"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode neis response: %w", err)
	}
	if len(payload.MealServiceDietInfo) < 2 {
		return "", board.ErrNoMealData
	}

	var group struct {
		Row []struct {
			DishName string `json:"DDISH_NM"`
		} `json:"row"`
	}
	if err := json.Unmarshal(payload.MealServiceDietInfo[1], &group); err != nil {
		return "", fmt.Errorf("decode neis rows: %w", err)
	}
	if len(group.Row) == 0 || group.Row[0].DishName == "" {
		return "", board.ErrNoMealData
	}
	return group.Row[0].DishName, nil
}
