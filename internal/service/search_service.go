package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"inkpress/internal/domain"
	"inkpress/internal/repository"
)

// SearchLimit caps the number of hits either strategy returns.
const SearchLimit = 20

// SearchStrategy names the resolution path that produced a result.
type SearchStrategy string

const (
	StrategyNone      SearchStrategy = ""
	StrategyIndexed   SearchStrategy = "indexed"
	StrategySubstring SearchStrategy = "substring"
)

// SearchResult holds the hits and the strategy that produced them.
type SearchResult struct {
	Posts    []domain.PostSummary
	Strategy SearchStrategy
}

// SearchOptions configures the resolver.
type SearchOptions struct {
	// FullText enables the indexed strategy. When false every query goes
	// straight to the substring scan.
	FullText bool
	Logger   logrus.FieldLogger
}

// SearchService resolves free-text queries over published posts.
type SearchService interface {
	Search(ctx context.Context, query string) (*SearchResult, error)
}

type searchService struct {
	repo     repository.SearchRepository
	fullText bool
	logger   logrus.FieldLogger
}

func NewSearchService(repo repository.SearchRepository, opts SearchOptions) SearchService {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &searchService{
		repo:     repo,
		fullText: opts.FullText,
		logger:   logger,
	}
}

// Search tries the full-text index first and degrades to a substring scan
// when ShouldFallback accepts the failure.
func (s *searchService) Search(ctx context.Context, query string) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return &SearchResult{Posts: []domain.PostSummary{}, Strategy: StrategyNone}, nil
	}

	if s.fullText {
		posts, err := s.repo.MatchIndexed(ctx, query, SearchLimit)
		if err == nil {
			return &SearchResult{Posts: posts, Strategy: StrategyIndexed}, nil
		}
		if !ShouldFallback(err) {
			return nil, fmt.Errorf("%w: %w", ErrSearchUnavailable, err)
		}
		s.logger.WithFields(logrus.Fields{
			"query": query,
			"cause": fallbackCause(err),
		}).Warnf("indexed search failed, using substring match: %v", err)
	}

	posts, err := s.repo.MatchSubstring(ctx, query, SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSearchUnavailable, err)
	}
	return &SearchResult{Posts: posts, Strategy: StrategySubstring}, nil
}

// ShouldFallback decides whether an indexed-search failure may be retried as
// a substring scan. A missing index, a rejected query and a generic store
// error all qualify; a cancelled or expired context does not.
func ShouldFallback(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

func fallbackCause(err error) string {
	switch {
	case errors.Is(err, repository.ErrIndexUnavailable):
		return "index_unavailable"
	case errors.Is(err, repository.ErrMalformedQuery):
		return "malformed_query"
	}
	return "store_error"
}
