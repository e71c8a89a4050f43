package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	domainNews "newsarchive/internal/domain/news"
	usecaseNews "newsarchive/internal/usecase/news"
)

// NewsLister is the listing use case consumed by NewsHandler.
type NewsLister interface {
	List(ctx context.Context, params usecaseNews.Params) (usecaseNews.Result, error)
}

// NewsHandler exposes the news listing endpoint.
type NewsHandler struct {
	service   NewsLister
	formatter NewsFormatter
	logger    *slog.Logger
}

// NewNewsHandler builds a NewsHandler. A nil formatter falls back to
// DefaultNewsFormatter and a nil logger to slog.Default().
func NewNewsHandler(service NewsLister, formatter NewsFormatter, logger *slog.Logger) *NewsHandler {
	if formatter == nil {
		formatter = DefaultNewsFormatter{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NewsHandler{
		service:   service,
		formatter: formatter,
		logger:    logger,
	}
}

// RegisterRoutes wires news endpoints.
func (h *NewsHandler) RegisterRoutes(r routeRegistrar) {
	r.Get("/news", h.handleList)
}

func (h *NewsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeError(w, http.StatusInternalServerError, errServiceUnavailable)
		return
	}

	params := readNewsParams(r)
	result, err := h.service.List(r.Context(), params)
	if err != nil {
		var badRequest *domainNews.BadDataRequestError
		if errors.As(err, &badRequest) {
			h.logger.Debug("rejected news listing request", "query", r.URL.RawQuery, "error", err)
			writeError(w, http.StatusBadRequest, badRequest)
			return
		}
		h.logger.Error("list news failed", "query", r.URL.RawQuery, "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	resp, err := h.buildListResponse(result)
	if err != nil {
		h.logger.Error("format news failed", "query", r.URL.RawQuery, "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// buildListResponse formats every record in storage order. Items are wrapped
// in one extra array level, which clients of the endpoint rely on.
func (h *NewsHandler) buildListResponse(result usecaseNews.Result) (newsListResponse, error) {
	formatted := make([]any, 0, len(result.News))
	for _, item := range result.News {
		out, err := h.formatter.Format(item)
		if err != nil {
			return newsListResponse{}, err
		}
		formatted = append(formatted, out)
	}
	return newsListResponse{
		Items: [][]any{formatted},
		Page:  result.Page,
		Limit: result.Limit,
		Total: result.Total,
	}, nil
}

func readNewsParams(r *http.Request) usecaseNews.Params {
	query := r.URL.Query()
	return usecaseNews.Params{
		Page:  query.Get("page"),
		Tags:  readQueryList(query, "tag"),
		Year:  query.Get("year"),
		Month: query.Get("month"),
	}
}

var errServiceUnavailable = errors.New("service unavailable")

type newsListResponse struct {
	Items [][]any `json:"items"`
	Page  int     `json:"page"`
	Limit int     `json:"limit"`
	Total int64   `json:"total"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	message := "internal error"
	if status == http.StatusBadRequest && err != nil {
		message = err.Error()
	}
	writeJSON(w, status, map[string]string{"error": message})
}
