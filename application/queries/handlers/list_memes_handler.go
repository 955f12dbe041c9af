package handlers

import (
	"context"
	"fmt"

	"memebrowser/application/ports"
	"memebrowser/application/queries"
	"memebrowser/application/services"
	"memebrowser/pkg/common"

	"go.uber.org/zap"
)

// ListMemesHandler pages over the identifier index without filtering
type ListMemesHandler struct {
	index  ports.IndexEnumerator
	loader *services.MemeLoader
	logger *zap.Logger
}

// NewListMemesHandler creates a new list handler
func NewListMemesHandler(index ports.IndexEnumerator, loader *services.MemeLoader, logger *zap.Logger) *ListMemesHandler {
	return &ListMemesHandler{
		index:  index,
		loader: loader,
		logger: logger,
	}
}

// Handle executes the list query. The window is taken over the identifier index,
// so Total counts indexed ids even when some of the page's records fail to load.
func (h *ListMemesHandler) Handle(ctx context.Context, query queries.ListMemesQuery) (*queries.ResultPage, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	ids, err := h.index.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list meme ids: %w", err)
	}

	window := common.NewWindow(query.Page, query.Limit)
	start, end := window.Bounds(len(ids))

	memes, err := h.loader.LoadMany(ctx, ids[start:end])
	if err != nil {
		return nil, err
	}

	h.logger.Debug("Listed memes",
		zap.Int("page", query.Page),
		zap.Int("limit", query.Limit),
		zap.Int("returned", len(memes)),
		zap.Int("total", len(ids)),
	)

	return &queries.ResultPage{
		Data:    queries.NewMemeViews(memes),
		Total:   len(ids),
		Page:    query.Page,
		Limit:   query.Limit,
		HasMore: window.HasMore(len(ids)),
	}, nil
}
