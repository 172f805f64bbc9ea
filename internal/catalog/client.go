package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"otomo/internal/observability"
)

const (
	defaultEndpoint = "https://app.rakuten.co.jp/services/api/IchibaItem/Search/20170706"

	// DefaultLimit is the number of candidates requested for keyword searches.
	DefaultLimit = 12
)

var imageSizePattern = regexp.MustCompile(`_ex=\d+x\d+`)

// Candidate is a single product mapped from the Ichiba search response.
// Nullable fields are pointers so they serialize as JSON null when absent.
type Candidate struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
	Price       int     `json:"price"`
	RakutenURL  string  `json:"rakuten_url"`
	ShopName    string  `json:"shop_name"`
}

// ClientConfig carries the credentials and tuning for the Ichiba client.
type ClientConfig struct {
	AppID       string
	AffiliateID string
	Timeout     time.Duration
	// Endpoint overrides the Ichiba search URL. Empty means production.
	Endpoint string
	Logger   *slog.Logger
}

// Client calls the Rakuten Ichiba item search API. All search methods
// swallow transport and decode failures: they log, record a metric and
// return an empty slice so callers can treat any miss uniformly.
type Client struct {
	httpClient  *http.Client
	endpoint    string
	appID       string
	affiliateID string
	logger      *slog.Logger
}

func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		endpoint:    endpoint,
		appID:       cfg.AppID,
		affiliateID: cfg.AffiliateID,
		logger:      logger,
	}
}

// SearchByKeyword returns up to limit candidates matching the keyword.
func (c *Client) SearchByKeyword(ctx context.Context, keyword string, limit int) []Candidate {
	if limit <= 0 {
		limit = DefaultLimit
	}
	params := url.Values{}
	params.Set("keyword", keyword)
	params.Set("hits", strconv.Itoa(limit))
	return c.search(ctx, "keyword", params)
}

// SearchByCode looks up the single item identified by shop and item code.
func (c *Client) SearchByCode(ctx context.Context, shopCode, itemCode string) []Candidate {
	params := url.Values{}
	params.Set("itemCode", shopCode+":"+itemCode)
	return c.search(ctx, "code", params)
}

// SearchByKeywordAndShop searches for the keyword restricted to one shop.
func (c *Client) SearchByKeywordAndShop(ctx context.Context, keyword, shopCode string) []Candidate {
	params := url.Values{}
	params.Set("keyword", keyword)
	params.Set("shopCode", shopCode)
	params.Set("hits", "1")
	return c.search(ctx, "keyword_and_shop", params)
}

func (c *Client) search(ctx context.Context, operation string, params url.Values) []Candidate {
	params.Set("format", "json")
	params.Set("applicationId", c.appID)
	if c.affiliateID != "" {
		params.Set("affiliateId", c.affiliateID)
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		c.fail(operation, "error", err)
		return nil
	}

	resp, err := c.httpClient.Do(req)
	observability.CatalogRequestLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		reason := "error"
		if isTimeout(err) {
			reason = "timeout"
		}
		c.fail(operation, reason, err)
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		c.fail(operation, "error", err)
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("catalog search returned non-200",
			"operation", operation, "status", resp.StatusCode)
		observability.CatalogClientFailures.WithLabelValues(operation, "error").Inc()
		return nil
	}

	items := gjson.GetBytes(body, "Items")
	if !items.IsArray() {
		c.logger.Warn("catalog response missing Items array", "operation", operation)
		observability.CatalogClientFailures.WithLabelValues(operation, "error").Inc()
		return nil
	}

	candidates := make([]Candidate, 0, len(items.Array()))
	items.ForEach(func(_, entry gjson.Result) bool {
		item := entry.Get("Item")
		if !item.Exists() {
			item = entry
		}
		candidates = append(candidates, mapItem(item))
		return true
	})
	return candidates
}

func (c *Client) fail(operation, reason string, err error) {
	c.logger.Error("catalog search failed",
		"operation", operation, "reason", reason, "error", err)
	observability.CatalogClientFailures.WithLabelValues(operation, reason).Inc()
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

func mapItem(item gjson.Result) Candidate {
	cand := Candidate{
		Title:      item.Get("itemName").String(),
		Price:      int(item.Get("itemPrice").Int()),
		RakutenURL: item.Get("itemUrl").String(),
		ShopName:   item.Get("shopName").String(),
	}
	if desc := StripTags(item.Get("itemCaption").String()); desc != "" {
		cand.Description = &desc
	}
	cand.ImageURL = resolveImageURL(item)
	return cand
}

// resolveImageURL picks the best available image: the first medium image
// rewritten to 400x400, then the first small image, then the legacy
// top-level imageUrl. Returns nil when the item carries no image at all.
func resolveImageURL(item gjson.Result) *string {
	if u := firstImageURL(item.Get("mediumImageUrls")); u != "" {
		u = imageSizePattern.ReplaceAllString(u, "_ex=400x400")
		return &u
	}
	if u := firstImageURL(item.Get("smallImageUrls")); u != "" {
		return &u
	}
	if u := item.Get("imageUrl").String(); u != "" {
		return &u
	}
	return nil
}

// firstImageURL handles both response shapes Ichiba has used over time:
// a list of {"imageUrl": "..."} objects or a plain list of strings.
func firstImageURL(list gjson.Result) string {
	arr := list.Array()
	if len(arr) == 0 {
		return ""
	}
	if arr[0].IsObject() {
		return arr[0].Get("imageUrl").String()
	}
	return arr[0].String()
}
