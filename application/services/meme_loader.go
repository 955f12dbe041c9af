package services

import (
	"context"

	"memebrowser/application/ports"
	"memebrowser/domain/core/entities"
	"memebrowser/domain/core/valueobjects"
	pkgerrors "memebrowser/pkg/errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Reasons reported to the SkipRecorder
const (
	SkipReasonNotFound = "not_found"
	SkipReasonDecode   = "decode"
	SkipReasonIO       = "io"
)

const defaultLoadConcurrency = 8

// MemeLoader reads single records and decorates them for presentation
type MemeLoader struct {
	store       ports.RecordStore
	decoder     ports.RecordDecoder
	skips       ports.SkipRecorder
	concurrency int
	logger      *zap.Logger
}

// NewMemeLoader creates a new meme loader. skips may be nil.
func NewMemeLoader(
	store ports.RecordStore,
	decoder ports.RecordDecoder,
	skips ports.SkipRecorder,
	concurrency int,
	logger *zap.Logger,
) *MemeLoader {
	if concurrency < 1 {
		concurrency = defaultLoadConcurrency
	}
	return &MemeLoader{
		store:       store,
		decoder:     decoder,
		skips:       skips,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Load reads and decodes one record. The result always carries the synthetic
// tag "$<id>"; the tag is never written back to storage.
func (l *MemeLoader) Load(ctx context.Context, id valueobjects.MemeID) (*entities.Meme, error) {
	data, err := l.store.ReadRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	record, err := l.decoder.Decode(data)
	if err != nil {
		return nil, pkgerrors.NewDecodeError("meme "+id.String(), err)
	}

	return decorate(entities.ReconstructMeme(id, record)), nil
}

// decorate applies presentation-only additions at the load boundary
func decorate(meme *entities.Meme) *entities.Meme {
	return meme.WithTags(meme.DisplayID())
}

// LoadMany loads ids in parallel and returns the successes in the order given.
// A record that fails to load is skipped and counted; only cancellation of ctx
// is returned as an error.
func (l *MemeLoader) LoadMany(ctx context.Context, ids []valueobjects.MemeID) ([]*entities.Meme, error) {
	slots := make([]*entities.Meme, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			meme, err := l.Load(gctx, id)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				l.skip(id, err)
				return nil
			}
			slots[i] = meme
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	memes := make([]*entities.Meme, 0, len(slots))
	for _, meme := range slots {
		if meme != nil {
			memes = append(memes, meme)
		}
	}
	if l.skips != nil {
		l.skips.RecordLoaded(len(memes))
	}
	return memes, nil
}

func (l *MemeLoader) skip(id valueobjects.MemeID, err error) {
	reason := SkipReasonIO
	switch {
	case pkgerrors.IsNotFound(err):
		reason = SkipReasonNotFound
	case pkgerrors.IsDecode(err):
		reason = SkipReasonDecode
	}

	l.logger.Debug("Skipping meme record",
		zap.String("id", id.String()),
		zap.String("reason", reason),
		zap.Error(err),
	)
	if l.skips != nil {
		l.skips.RecordSkipped(reason)
	}
}
