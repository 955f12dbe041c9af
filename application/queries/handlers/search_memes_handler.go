package handlers

import (
	"context"
	"fmt"

	"memebrowser/application/ports"
	"memebrowser/application/queries"
	"memebrowser/application/services"
	"memebrowser/domain/core/entities"
	"memebrowser/pkg/common"
	"memebrowser/pkg/fuzzy"

	"go.uber.org/zap"
)

// SearchMemesHandler filters the whole store by tags and title, then pages the result
type SearchMemesHandler struct {
	index    ports.IndexEnumerator
	loader   *services.MemeLoader
	settings ports.SearchSettings
	logger   *zap.Logger
}

// NewSearchMemesHandler creates a new search handler
func NewSearchMemesHandler(
	index ports.IndexEnumerator,
	loader *services.MemeLoader,
	settings ports.SearchSettings,
	logger *zap.Logger,
) *SearchMemesHandler {
	return &SearchMemesHandler{
		index:    index,
		loader:   loader,
		settings: settings,
		logger:   logger,
	}
}

// Handle executes the search query. Every indexed record is loaded because the
// filters look at record content; records that fail to load are not counted.
// Matches keep ascending id order and the window indexes into the matches.
func (h *SearchMemesHandler) Handle(ctx context.Context, query queries.SearchMemesQuery) (*queries.ResultPage, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	ids, err := h.index.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list meme ids: %w", err)
	}

	memes, err := h.loader.LoadMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	matcher := fuzzy.NewMatcher(h.settings.MatchThreshold())
	window := common.NewWindow(query.Page, query.Limit)

	page := make([]*entities.Meme, 0, min(query.Limit, len(memes)))
	total := 0
	for _, meme := range memes {
		if !matchesTags(meme, query) || !matchesText(meme, query, matcher) {
			continue
		}
		if window.Contains(total) {
			page = append(page, meme)
		}
		total++
	}

	h.logger.Debug("Searched memes",
		zap.String("query", query.Query),
		zap.String("tag", query.Tag),
		zap.Strings("tags", query.Tags),
		zap.Float64("threshold", matcher.Threshold()),
		zap.Int("scanned", len(memes)),
		zap.Int("matched", total),
	)

	return &queries.ResultPage{
		Data:    queries.NewMemeViews(page),
		Total:   total,
		Page:    query.Page,
		Limit:   query.Limit,
		HasMore: window.HasMore(total),
	}, nil
}

func matchesTags(meme *entities.Meme, query queries.SearchMemesQuery) bool {
	if query.Tag != "" && !meme.HasTag(query.Tag) {
		return false
	}
	return meme.HasAllTags(query.Tags)
}

func matchesText(meme *entities.Meme, query queries.SearchMemesQuery, matcher fuzzy.Matcher) bool {
	if !query.HasTextFilter() {
		return true
	}
	return matcher.Match(query.Query, meme.Title())
}
