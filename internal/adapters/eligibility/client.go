package eligibility

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ogurasousui/hr-employee-service/internal/core/employee"
	"github.com/ogurasousui/hr-employee-service/internal/core/promotion"
	"github.com/rs/zerolog"
)

const (
	eligibilityPath = "/api/promotioneligibilities/"
	maxErrorBody    = 512
)

// Response は昇進可否 API のレスポンスボディです。
type Response struct {
	EligibleForPromotion bool `json:"eligibleForPromotion"`
}

// Client は HTTP 経由で昇進可否を問い合わせる promotion.EligibilityChecker の実装です。
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient は Client を生成します。httpClient が nil の場合は 5 秒タイムアウトのクライアントを使用します。
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	parsed, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("eligibility: parse base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("eligibility: base url must be absolute: %q", baseURL)
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}

	return &Client{
		baseURL:    strings.TrimRight(parsed.String(), "/"),
		httpClient: httpClient,
	}, nil
}

// IsEligibleForPromotion は社員の昇進可否を問い合わせます。
// 通信失敗、2xx 以外の応答、デコード失敗は promotion.ErrEligibilityUnavailable として返します。
func (c *Client) IsEligibleForPromotion(ctx context.Context, emp *employee.InternalEmployee) (bool, error) {
	if emp == nil {
		return false, employee.ErrEmployeeRequired
	}

	endpoint := c.baseURL + eligibilityPath + url.PathEscape(emp.ID.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("%w: build request: %w", promotion.ErrEligibilityUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %w", promotion.ErrEligibilityUnavailable, err)
	}
	defer resp.Body.Close()

	zerolog.Ctx(ctx).Debug().
		Str("url", endpoint).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("eligibility lookup")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return false, fmt.Errorf("%w: unexpected status %d: %s", promotion.ErrEligibilityUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("%w: decode response: %w", promotion.ErrEligibilityUnavailable, err)
	}

	return out.EligibleForPromotion, nil
}
