package shopify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c := NewClient("test-store.myshopify.com", "shpat_test_token", "2024-01", 48*time.Hour)
	c.baseURL = baseURL
	c.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }
	return c
}

func TestIssueCoupon_Success(t *testing.T) {
	var ruleBody priceRuleRequest
	var codeBody discountCodeRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "shpat_test_token", r.Header.Get("X-Shopify-Access-Token"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		switch {
		case r.URL.Path == "/price_rules.json":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&ruleBody))
			json.NewEncoder(w).Encode(priceRuleRequest{PriceRule: priceRule{ID: 4242}})
		case r.URL.Path == "/price_rules/4242/discount_codes.json":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&codeBody))
			json.NewEncoder(w).Encode(codeBody)
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	code, err := testClient(t, srv.URL).IssueCoupon(context.Background(), "-10%")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(code, "WHEEL10-"), "code %q", code)
	assert.Equal(t, code, ruleBody.PriceRule.Title)
	assert.Equal(t, code, codeBody.DiscountCode.Code)

	assert.Equal(t, "percentage", ruleBody.PriceRule.ValueType)
	assert.Equal(t, "-10.0", ruleBody.PriceRule.Value)
	assert.True(t, ruleBody.PriceRule.OncePerCustomer)
	assert.Equal(t, 1, ruleBody.PriceRule.UsageLimit)
	assert.Equal(t, "2026-08-30T12:00:00Z", ruleBody.PriceRule.StartsAt)
	assert.Equal(t, "2026-09-01T12:00:00Z", ruleBody.PriceRule.EndsAt)
}

func TestIssueCoupon_NonDiscountPrize(t *testing.T) {
	_, err := testClient(t, "http://unused").IssueCoupon(context.Background(), "CADEAU1")
	require.Error(t, err)
}

func TestIssueCoupon_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":"Unauthorized"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := testClient(t, srv.URL).IssueCoupon(context.Background(), "-20%")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestIssueCoupon_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := testClient(t, srv.URL).IssueCoupon(context.Background(), "-20%")
	require.Error(t, err)
}

func TestIssueCoupon_NotConfigured(t *testing.T) {
	c := NewClient("", "", "2024-01", time.Hour)
	_, err := c.IssueCoupon(context.Background(), "-10%")
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestIssueCoupon_MissingRuleID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"price_rule": map[string]any{}})
	}))
	defer srv.Close()

	_, err := testClient(t, srv.URL).IssueCoupon(context.Background(), "-30%")
	require.Error(t, err)
}
