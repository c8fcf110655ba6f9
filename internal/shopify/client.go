// Package shopify talks to the commerce platform's admin API to turn a
// discount prize into a redeemable code: first a single-use percentage price
// rule, then a discount code bound to it.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/promokit/lucky-wheel/internal/domain"
)

var ErrNotConfigured = errors.New("shopify store domain or access token not set")

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	validity   time.Duration
	now        func() time.Time
}

func NewClient(storeDomain, accessToken, apiVersion string, validity time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    fmt.Sprintf("https://%s/admin/api/%s", storeDomain, apiVersion),
		token:      accessToken,
		validity:   validity,
		now:        time.Now,
	}
}

type priceRuleRequest struct {
	PriceRule priceRule `json:"price_rule"`
}

type priceRule struct {
	ID                int64  `json:"id,omitempty"`
	Title             string `json:"title"`
	TargetType        string `json:"target_type"`
	TargetSelection   string `json:"target_selection"`
	AllocationMethod  string `json:"allocation_method"`
	ValueType         string `json:"value_type"`
	Value             string `json:"value"`
	CustomerSelection string `json:"customer_selection"`
	OncePerCustomer   bool   `json:"once_per_customer"`
	UsageLimit        int    `json:"usage_limit"`
	StartsAt          string `json:"starts_at"`
	EndsAt            string `json:"ends_at"`
}

type discountCodeRequest struct {
	DiscountCode discountCode `json:"discount_code"`
}

type discountCode struct {
	Code string `json:"code"`
}

// IssueCoupon creates a time-bounded single-use percentage rule for the prize
// and binds a human-meaningful code to it. The returned code is what the
// customer redeems at checkout.
func (c *Client) IssueCoupon(ctx context.Context, prizeValue string) (string, error) {
	if c.token == "" || strings.HasPrefix(c.baseURL, "https:///") {
		return "", ErrNotConfigured
	}

	percent := domain.DiscountPercent(prizeValue)
	if percent == 0 {
		return "", fmt.Errorf("prize %q is not a discount", prizeValue)
	}

	code := couponCode(percent)
	start := c.now().UTC()

	rule := priceRuleRequest{PriceRule: priceRule{
		Title:             code,
		TargetType:        "line_item",
		TargetSelection:   "all",
		AllocationMethod:  "across",
		ValueType:         "percentage",
		Value:             fmt.Sprintf("-%d.0", percent),
		CustomerSelection: "all",
		OncePerCustomer:   true,
		UsageLimit:        1,
		StartsAt:          start.Format(time.RFC3339),
		EndsAt:            start.Add(c.validity).Format(time.RFC3339),
	}}

	var ruleResp priceRuleRequest
	if err := c.post(ctx, "/price_rules.json", rule, &ruleResp); err != nil {
		return "", fmt.Errorf("create price rule: %w", err)
	}
	if ruleResp.PriceRule.ID == 0 {
		return "", errors.New("price rule response missing id")
	}

	var codeResp discountCodeRequest
	path := fmt.Sprintf("/price_rules/%d/discount_codes.json", ruleResp.PriceRule.ID)
	if err := c.post(ctx, path, discountCodeRequest{DiscountCode: discountCode{Code: code}}, &codeResp); err != nil {
		return "", fmt.Errorf("create discount code: %w", err)
	}
	if codeResp.DiscountCode.Code == "" {
		return "", errors.New("discount code response missing code")
	}

	return codeResp.DiscountCode.Code, nil
}

func (c *Client) post(ctx context.Context, path string, body, target any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("shopify returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func couponCode(percent int) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:8]
	return fmt.Sprintf("WHEEL%d-%s", percent, suffix)
}
