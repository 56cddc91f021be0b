package quotes

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rmhservices05-prog/alohomora/app/config"
)

const providerTimeout = 9 * time.Second

const delayedDataWarning = "Quotes served from a delayed backup provider."

// DefaultProviders builds the production fallback chain: a batch quote
// endpoint, a per-symbol chart endpoint, and a per-symbol delayed CSV
// endpoint as the last resort.
func DefaultProviders(client *http.Client, userAgent string) []Provider {
	batch := &batchQuoteProvider{
		client:    client,
		userAgent: userAgent,
		baseURL:   "https://query1.finance.yahoo.com/v7/finance/quote",
	}
	chart := &chartProvider{
		client:    client,
		userAgent: userAgent,
		baseURL:   "https://query1.finance.yahoo.com/v8/finance/chart",
	}
	csvDaily := &csvHistoryProvider{
		client:    client,
		userAgent: userAgent,
		baseURL:   "https://stooq.com/q/d/l/",
	}

	return []Provider{
		{Name: "batch", Fetch: batch.fetch},
		{Name: "chart", Fetch: chart.fetch},
		{Name: "csv", Warning: delayedDataWarning, Fetch: csvDaily.fetch},
	}
}

func fetchBody(ctx context.Context, client *http.Client, userAgent, rawURL string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quotes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// batchQuoteProvider resolves every symbol in a single request.
type batchQuoteProvider struct {
	client    *http.Client
	userAgent string
	baseURL   string
}

func (p *batchQuoteProvider) fetch(ctx context.Context, symbols []config.Symbol) ([]Quote, error) {
	codes := make([]string, 0, len(symbols))
	for _, s := range symbols {
		codes = append(codes, s.Code)
	}

	u := p.baseURL + "?symbols=" + url.QueryEscape(strings.Join(codes, ","))
	body, err := fetchBody(ctx, p.client, p.userAgent, u)
	if err != nil {
		return nil, err
	}

	return parseBatchResponse(body, symbols)
}

func parseBatchResponse(body []byte, symbols []config.Symbol) ([]Quote, error) {
	var payload struct {
		QuoteResponse struct {
			Result []struct {
				Symbol                     string   `json:"symbol"`
				ShortName                  string   `json:"shortName"`
				RegularMarketPrice         *float64 `json:"regularMarketPrice"`
				RegularMarketChangePercent *float64 `json:"regularMarketChangePercent"`
			} `json:"result"`
		} `json:"quoteResponse"`
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse batch response: %w", err)
	}

	bySymbol := make(map[string]Quote, len(payload.QuoteResponse.Result))
	for _, r := range payload.QuoteResponse.Result {
		bySymbol[r.Symbol] = Quote{
			Symbol:        r.Symbol,
			Name:          r.ShortName,
			Price:         r.RegularMarketPrice,
			ChangePercent: r.RegularMarketChangePercent,
		}
	}

	return alignToSymbols(bySymbol, symbols), nil
}

// chartProvider resolves symbols one by one, concurrently.
type chartProvider struct {
	client    *http.Client
	userAgent string
	baseURL   string
}

func (p *chartProvider) fetch(ctx context.Context, symbols []config.Symbol) ([]Quote, error) {
	quotes := make([]Quote, len(symbols))

	var wg sync.WaitGroup
	for i, symbol := range symbols {
		wg.Add(1)
		go func(i int, symbol config.Symbol) {
			defer wg.Done()
			quotes[i] = p.fetchOne(ctx, symbol)
		}(i, symbol)
	}
	wg.Wait()

	return quotes, nil
}

func (p *chartProvider) fetchOne(ctx context.Context, symbol config.Symbol) Quote {
	quote := Quote{Symbol: symbol.Code, Name: symbol.Name}

	u := p.baseURL + "/" + url.PathEscape(symbol.Code) + "?range=1d&interval=1d"
	body, err := fetchBody(ctx, p.client, p.userAgent, u)
	if err != nil {
		return quote
	}

	price, changePercent, err := parseChartResponse(body)
	if err != nil {
		return quote
	}

	quote.Price = price
	quote.ChangePercent = changePercent
	return quote
}

func parseChartResponse(body []byte) (price, changePercent *float64, err error) {
	var payload struct {
		Chart struct {
			Result []struct {
				Meta struct {
					RegularMarketPrice *float64 `json:"regularMarketPrice"`
					PreviousClose      *float64 `json:"chartPreviousClose"`
				} `json:"meta"`
			} `json:"result"`
		} `json:"chart"`
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, nil, fmt.Errorf("failed to parse chart response: %w", err)
	}
	if len(payload.Chart.Result) == 0 {
		return nil, nil, fmt.Errorf("chart response has no result")
	}

	meta := payload.Chart.Result[0].Meta
	if meta.RegularMarketPrice == nil {
		return nil, nil, fmt.Errorf("chart response has no price")
	}

	price = meta.RegularMarketPrice
	if meta.PreviousClose != nil && *meta.PreviousClose != 0 {
		pct := (*price - *meta.PreviousClose) / *meta.PreviousClose * 100
		changePercent = &pct
	}

	return price, changePercent, nil
}

// csvHistoryProvider reads per-symbol daily history CSV and derives the
// change percent from the previous close. The data is known to be delayed,
// so the chain attaches a staleness warning to its results.
type csvHistoryProvider struct {
	client    *http.Client
	userAgent string
	baseURL   string
}

func (p *csvHistoryProvider) fetch(ctx context.Context, symbols []config.Symbol) ([]Quote, error) {
	quotes := make([]Quote, len(symbols))

	var wg sync.WaitGroup
	for i, symbol := range symbols {
		wg.Add(1)
		go func(i int, symbol config.Symbol) {
			defer wg.Done()
			quotes[i] = p.fetchOne(ctx, symbol)
		}(i, symbol)
	}
	wg.Wait()

	return quotes, nil
}

func (p *csvHistoryProvider) fetchOne(ctx context.Context, symbol config.Symbol) Quote {
	quote := Quote{Symbol: symbol.Code, Name: symbol.Name}

	u := p.baseURL + "?s=" + url.QueryEscape(strings.ToLower(symbol.Code)+".us") + "&i=d"
	body, err := fetchBody(ctx, p.client, p.userAgent, u)
	if err != nil {
		return quote
	}

	price, changePercent, err := parseHistoryCSV(body)
	if err != nil {
		return quote
	}

	quote.Price = price
	quote.ChangePercent = changePercent
	return quote
}

// parseHistoryCSV expects Date,Open,High,Low,Close,Volume rows in
// chronological order. The last row's close is the price, and the row
// before it supplies the previous close for the change percent.
func parseHistoryCSV(body []byte) (price, changePercent *float64, err error) {
	reader := csv.NewReader(strings.NewReader(string(body)))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, nil, fmt.Errorf("CSV has no data rows")
	}

	header := records[0]
	closeIdx := -1
	for i, col := range header {
		if strings.EqualFold(col, "Close") {
			closeIdx = i
		}
	}
	if closeIdx < 0 {
		return nil, nil, fmt.Errorf("CSV has no Close column")
	}

	rows := records[1:]
	last := rows[len(rows)-1]
	if closeIdx >= len(last) {
		return nil, nil, fmt.Errorf("malformed CSV row")
	}

	lastClose, err := strconv.ParseFloat(last[closeIdx], 64)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse close price: %w", err)
	}
	price = &lastClose

	if len(rows) >= 2 {
		prev := rows[len(rows)-2]
		if closeIdx < len(prev) {
			if prevClose, err := strconv.ParseFloat(prev[closeIdx], 64); err == nil && prevClose != 0 {
				pct := (lastClose - prevClose) / prevClose * 100
				changePercent = &pct
			}
		}
	}

	return price, changePercent, nil
}

// alignToSymbols orders provider results to the configured symbol list and
// fills placeholders for symbols the provider did not return.
func alignToSymbols(bySymbol map[string]Quote, symbols []config.Symbol) []Quote {
	quotes := make([]Quote, 0, len(symbols))
	for _, s := range symbols {
		if q, ok := bySymbol[s.Code]; ok {
			if q.Name == "" {
				q.Name = s.Name
			}
			quotes = append(quotes, q)
			continue
		}
		quotes = append(quotes, Quote{Symbol: s.Code, Name: s.Name})
	}
	return quotes
}
