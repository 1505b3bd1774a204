package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"TrendSentinel/internal/model"
)

// OKXFetcher implements Fetcher using the OKX candles REST API.
type OKXFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewOKXFetcher creates a new OKX fetcher. baseURL defaults to the public
// endpoint when empty; the API key is optional for market data.
func NewOKXFetcher(baseURL, apiKey, proxyURL string) *OKXFetcher {
	if baseURL == "" {
		baseURL = "https://www.okx.com"
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &OKXFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *OKXFetcher) Name() string { return "okx" }

// okxCandles is the response envelope. Each candle is a positional string
// array: [ts, open, high, low, close, vol, ...].
type okxCandles struct {
	Code string     `json:"code"`
	Msg  string     `json:"msg"`
	Data [][]string `json:"data"`
}

// okxBarValue maps common interval notation ("1h", "4h", "1d") onto OKX's
// bar parameter ("1H", "4H", "1D").
func okxBarValue(interval string) string {
	if strings.HasSuffix(interval, "m") {
		return interval
	}
	return strings.ToUpper(interval)
}

func (f *OKXFetcher) FetchBars(symbol, interval string, limit int) ([]model.Bar, error) {
	endpoint := fmt.Sprintf("%s/api/v5/market/candles?instId=%s&bar=%s&limit=%d",
		f.BaseURL, url.QueryEscape(symbol), okxBarValue(interval), limit)

	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	if f.APIKey != "" {
		req.Header.Set("OK-ACCESS-KEY", f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch candles: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch candles: status %d, body: %s", resp.StatusCode, string(body))
	}

	var envelope okxCandles
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode candles: %w", err)
	}
	if envelope.Code != "0" {
		return nil, fmt.Errorf("okx API error: code %s, msg %s", envelope.Code, envelope.Msg)
	}

	bars := make([]model.Bar, 0, len(envelope.Data))
	for _, c := range envelope.Data {
		if len(c) < 6 {
			continue
		}
		ts, err := strconv.ParseInt(c[0], 10, 64)
		if err != nil {
			continue
		}
		bars = append(bars, model.Bar{
			Time:   time.UnixMilli(ts),
			Open:   parseField(c[1]),
			High:   parseField(c[2]),
			Low:    parseField(c[3]),
			Close:  parseField(c[4]),
			Volume: parseField(c[5]),
		})
	}

	// OKX returns newest first.
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

func (f *OKXFetcher) FetchCurrentPrice(symbol string) (float64, error) {
	endpoint := fmt.Sprintf("%s/api/v5/market/ticker?instId=%s", f.BaseURL, url.QueryEscape(symbol))
	resp, err := f.Client.Get(endpoint)
	if err != nil {
		return 0, fmt.Errorf("fetch ticker: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("fetch ticker: status %d", resp.StatusCode)
	}
	var envelope struct {
		Code string `json:"code"`
		Data []struct {
			Last string `json:"last"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return 0, fmt.Errorf("decode ticker: %w", err)
	}
	if envelope.Code != "0" || len(envelope.Data) == 0 {
		return 0, fmt.Errorf("okx: no ticker data")
	}
	return strconv.ParseFloat(envelope.Data[0].Last, 64)
}

func parseField(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
