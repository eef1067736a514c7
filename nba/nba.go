package nba

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/albertkuo/nba-comeback/utils"
)

const DefaultBaseURL = "https://stats.nba.com/stats"

type Client struct {
	BaseURL    string
	httpClient *http.Client
}

// NewClient returns a client for stats.nba.com. timeout bounds each request.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		BaseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func initNBAReq(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Add("Accept", "application/json")
	req.Header.Add("Referer", "https://www.nba.com/")
	req.Header.Add("Origin", "https://www.nba.com")
	req.Header.Add("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	return req, nil
}

type resultSetsResp struct {
	ResultSets []resultSet `json:"resultSets"`
}

type resultSet struct {
	Name    string          `json:"name"`
	Headers []string        `json:"headers"`
	RowSet  [][]interface{} `json:"rowSet"`
}

// columns maps each wanted header to its index in the row set, failing if
// stats.nba.com stopped sending one of them.
func (rs resultSet) columns(wanted ...string) (map[string]int, error) {
	idx := make(map[string]int, len(rs.Headers))
	for i, h := range rs.Headers {
		idx[h] = i
	}
	cols := make(map[string]int, len(wanted))
	for _, w := range wanted {
		i, ok := idx[w]
		if !ok {
			return nil, fmt.Errorf("uh oh! result set %q is missing header %s", rs.Name, w)
		}
		cols[w] = i
	}
	return cols, nil
}

// cell returns nil for short rows so maybe[T] treats them like JSON nulls.
func cell(row []interface{}, i int) interface{} {
	if i >= len(row) {
		return nil
	}
	return row[i]
}

func (c *Client) getResultSet(ctx context.Context, url string) (*resultSet, error) {
	req, err := initNBAReq(ctx, url)
	if err != nil {
		return nil, utils.ErrorWithTrace(err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, utils.ErrorWithTrace(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, utils.ErrorWithTrace(err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, utils.ErrorWithTrace(fmt.Errorf("stats.nba.com error: status=%d, body=%s", resp.StatusCode, string(body)))
	}

	unmarshalledBody := resultSetsResp{}
	if err := json.Unmarshal(body, &unmarshalledBody); err != nil {
		return nil, utils.ErrorWithTrace(err)
	}
	if len(unmarshalledBody.ResultSets) == 0 {
		return nil, utils.ErrorWithTrace(fmt.Errorf("no result sets returned from %s", url))
	}
	return &unmarshalledBody.ResultSets[0], nil
}

func maybe[T any](x any) *T {
	if x, ok := x.(T); ok {
		return &x
	}
	return nil
}
