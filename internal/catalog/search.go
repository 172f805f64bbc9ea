package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"otomo/internal/observability"
)

// SearchType tells the frontend how the input was interpreted.
type SearchType string

const (
	SearchTypeURL     SearchType = "url"
	SearchTypeKeyword SearchType = "keyword"
	SearchTypeNone    SearchType = ""
)

const (
	maxURLLength     = 1000
	maxKeywordLength = 100

	msgBlankInput      = "商品名またはURLを入力してください"
	msgURLTooLong      = "URLは1000文字以内で入力してください"
	msgKeywordTooLong  = "商品名は100文字以内で入力してください"
	msgURLNotFound     = "指定されたURLの商品が見つかりませんでした"
	msgConnectionError = "API接続エラーが発生しました。しばらく経ってから再試行してください。"
)

var rakutenURLPattern = regexp.MustCompile(`https?://(?:www\.|item\.)?rakuten\.co\.jp/`)

// Searcher is the subset of the Ichiba client the orchestrator needs.
type Searcher interface {
	SearchByKeyword(ctx context.Context, keyword string, limit int) []Candidate
	SearchByCode(ctx context.Context, shopCode, itemCode string) []Candidate
	SearchByKeywordAndShop(ctx context.Context, keyword, shopCode string) []Candidate
}

// Result is the outcome of a product search, ready to serialize.
// Success stays true on zero results; false means the input was invalid
// or the search blew up, and then Error carries the user-facing message.
type Result struct {
	Success    bool        `json:"success"`
	Products   []Candidate `json:"products"`
	Count      int         `json:"count"`
	SearchType SearchType  `json:"search_type"`
	Message    string      `json:"message,omitempty"`
	Error      string      `json:"error,omitempty"`
	Timestamp  string      `json:"timestamp"`

	internalErr bool
}

// HTTPStatus maps the result onto the response status code.
func (r Result) HTTPStatus() int {
	switch {
	case r.internalErr:
		return http.StatusInternalServerError
	case r.Error != "":
		return http.StatusBadRequest
	default:
		return http.StatusOK
	}
}

func validationResult(searchType SearchType, msg string) Result {
	return Result{Products: []Candidate{}, SearchType: searchType, Error: msg}
}

// SearchService classifies free-form input as a Rakuten URL or a keyword
// and runs the matching search strategy. Search never panics or returns
// an error to the caller; every failure mode becomes a Result.
type SearchService struct {
	client Searcher
	logger *slog.Logger
}

func NewSearchService(client Searcher, logger *slog.Logger) *SearchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchService{client: client, logger: logger}
}

func (s *SearchService) Search(ctx context.Context, rawInput string) (res Result) {
	// runs after the recover below, so the panic result is stamped too
	defer func() {
		res.Timestamp = time.Now().Format(time.RFC3339)
	}()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("product search panicked", "panic", r)
			res = Result{Products: []Candidate{}, Error: msgConnectionError, internalErr: true}
		}
	}()

	input := strings.TrimSpace(rawInput)
	if input == "" {
		observability.CatalogSearches.WithLabelValues("none", "invalid").Inc()
		return validationResult(SearchTypeNone, msgBlankInput)
	}

	if rakutenURLPattern.MatchString(input) {
		if utf8.RuneCountInString(input) > maxURLLength {
			observability.CatalogSearches.WithLabelValues(string(SearchTypeURL), "invalid").Inc()
			return validationResult(SearchTypeURL, msgURLTooLong)
		}
		return s.searchFromURL(ctx, input)
	}

	if utf8.RuneCountInString(input) > maxKeywordLength {
		observability.CatalogSearches.WithLabelValues(string(SearchTypeKeyword), "invalid").Inc()
		return validationResult(SearchTypeKeyword, msgKeywordTooLong)
	}
	return s.searchFromKeyword(ctx, input)
}

// searchFromURL resolves the product codes out of the URL and walks a
// three-stage fallback chain, from the exact item code down to a bare
// keyword search. Each stage is isolated: a panic inside one stage is
// logged and treated as no results so the next stage still runs.
func (s *SearchService) searchFromURL(ctx context.Context, rawURL string) Result {
	shopCode, itemCode, ok := ResolveItemURL(rawURL)
	if !ok {
		observability.CatalogSearches.WithLabelValues(string(SearchTypeURL), "empty").Inc()
		return Result{
			Success:    true,
			Products:   []Candidate{},
			SearchType: SearchTypeURL,
			Message:    msgURLNotFound,
		}
	}

	stages := []struct {
		name string
		run  func() []Candidate
	}{
		{"exact_code", func() []Candidate {
			return s.client.SearchByCode(ctx, shopCode, itemCode)
		}},
		{"keyword_and_shop", func() []Candidate {
			return s.client.SearchByKeywordAndShop(ctx, itemCode, shopCode)
		}},
		{"keyword_only", func() []Candidate {
			return s.client.SearchByKeyword(ctx, itemCode, DefaultLimit)
		}},
	}

	for _, stage := range stages {
		candidates := s.runStage(stage.name, stage.run)
		if len(candidates) > 0 {
			observability.CatalogSearches.WithLabelValues(string(SearchTypeURL), "hit").Inc()
			return Result{
				Success:    true,
				Products:   candidates[:1],
				Count:      1,
				SearchType: SearchTypeURL,
			}
		}
	}

	observability.CatalogSearches.WithLabelValues(string(SearchTypeURL), "empty").Inc()
	return Result{
		Success:    true,
		Products:   []Candidate{},
		SearchType: SearchTypeURL,
		Message:    msgURLNotFound,
	}
}

func (s *SearchService) searchFromKeyword(ctx context.Context, keyword string) Result {
	candidates := s.client.SearchByKeyword(ctx, keyword, DefaultLimit)
	if len(candidates) == 0 {
		observability.CatalogSearches.WithLabelValues(string(SearchTypeKeyword), "empty").Inc()
		return Result{
			Success:    true,
			Products:   []Candidate{},
			SearchType: SearchTypeKeyword,
			Message:    fmt.Sprintf("「%s」に該当する商品が見つかりませんでした", keyword),
		}
	}
	observability.CatalogSearches.WithLabelValues(string(SearchTypeKeyword), "hit").Inc()
	return Result{
		Success:    true,
		Products:   candidates,
		Count:      len(candidates),
		SearchType: SearchTypeKeyword,
	}
}

func (s *SearchService) runStage(name string, run func() []Candidate) (out []Candidate) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("search stage panicked", "stage", name, "panic", r)
			out = nil
		}
	}()
	return run()
}
