package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"memebrowser/application/ports"
	"memebrowser/application/queries"
	querybus "memebrowser/application/queries/bus"
	"memebrowser/pkg/common"
	pkgerrors "memebrowser/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PageDefaults supplies the page size used when a request names none
type PageDefaults interface {
	DefaultLimit() int
}

// MemeHandler handles meme-related HTTP requests
type MemeHandler struct {
	queryBus *querybus.QueryBus
	store    ports.RecordStore
	defaults PageDefaults
	errors   *pkgerrors.ErrorHandler
	logger   *zap.Logger
}

// NewMemeHandler creates a new meme handler
func NewMemeHandler(
	queryBus *querybus.QueryBus,
	store ports.RecordStore,
	defaults PageDefaults,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *MemeHandler {
	return &MemeHandler{
		queryBus: queryBus,
		store:    store,
		defaults: defaults,
		errors:   errorHandler,
		logger:   logger,
	}
}

// ListMemes handles GET /memes
func (h *MemeHandler) ListMemes(w http.ResponseWriter, r *http.Request) {
	params, err := h.pagination(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	query := queries.ListMemesQuery{
		Page:  params.Page,
		Limit: params.Limit,
	}

	h.ask(w, r, query)
}

// SearchMemes handles GET /memes/search
func (h *MemeHandler) SearchMemes(w http.ResponseWriter, r *http.Request) {
	params, err := h.pagination(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	values := r.URL.Query()
	var tags []string
	for _, key := range []string{"tags[]", "tags"} {
		for _, tag := range values[key] {
			if tag != "" {
				tags = append(tags, tag)
			}
		}
	}

	query := queries.SearchMemesQuery{
		Page:  params.Page,
		Limit: params.Limit,
		Query: values.Get("query"),
		Tag:   values.Get("tag"),
		Tags:  tags,
	}

	h.ask(w, r, query)
}

// GetImage handles GET /memes/image/{name}
func (h *MemeHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	image, err := h.store.OpenImage(r.Context(), name)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	defer image.Close()

	contentType := mime.TypeByExtension(filepath.Ext(image.Name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(image.Size, 10))
	w.Header().Set("Last-Modified", image.ModTime.UTC().Format(http.TimeFormat))
	w.WriteHeader(http.StatusOK)

	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(w, image); err != nil {
		h.logger.Debug("Image stream interrupted",
			zap.String("name", name),
			zap.Error(err),
		)
	}
}

func (h *MemeHandler) pagination(r *http.Request) (common.PaginationParams, error) {
	params, malformed := common.ExtractPaginationParams(r, h.defaults.DefaultLimit())
	if len(malformed) > 0 {
		return params, pkgerrors.NewValidationError(
			fmt.Sprintf("%s must be an integer", strings.Join(malformed, " and ")),
		)
	}
	return params, nil
}

func (h *MemeHandler) ask(w http.ResponseWriter, r *http.Request, query querybus.Query) {
	page, err := querybus.AskFor[*queries.ResultPage](r.Context(), h.queryBus, query)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, page)
}

func (h *MemeHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}
