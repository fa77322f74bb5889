package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"reelfeed/internal/catalog"
	"reelfeed/internal/feed"
	"reelfeed/internal/likes"
)

const (
	Version = "0.1.0"

	defaultPageLimit = 20
	maxPageLimit     = 100
)

// FeedService is the controller surface the handlers use.
type FeedService interface {
	Load(ctx context.Context) bool
	CurrentState() feed.State
	Len() int
	Items() []catalog.Item
	ItemAt(index int) (catalog.Item, bool)
	ErrorMessage() string
	ToggleLike(itemID int64) (likes.Record, error)
	IsLiked(itemID int64) bool
	LikeCount(itemID int64) int
	Profile(ownerID int64) (feed.Profile, bool)
}

type LikeLister interface {
	LikedIDs() ([]int64, error)
}

type Handler struct {
	feed   FeedService
	liked  LikeLister
	logger zerolog.Logger
}

func NewHandler(feedService FeedService, liked LikeLister, logger zerolog.Logger) *Handler {
	return &Handler{
		feed:   feedService,
		liked:  liked,
		logger: logger,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: Version,
	})
}

func (h *Handler) GetFeed(w http.ResponseWriter, r *http.Request) {
	state := h.feed.CurrentState()
	resp := FeedStatusResponse{
		State: state.String(),
		Count: h.feed.Len(),
	}
	if state == feed.StateFailed {
		resp.Error = h.feed.ErrorMessage()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) ReloadFeed(w http.ResponseWriter, r *http.Request) {
	if !h.feed.Load(r.Context()) {
		writeJSON(w, http.StatusOK, ReloadResponse{
			Status:  "in_progress",
			Message: "Load already in progress",
		})
		return
	}

	writeJSON(w, http.StatusAccepted, ReloadResponse{
		Status:  "started",
		Message: "Feed load started",
	})
}

func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	offset, err := queryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid offset")
		return
	}
	limit, err := queryInt(r, "limit", defaultPageLimit)
	if err != nil || limit <= 0 {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid limit")
		return
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	items := h.feed.Items()
	resp := ItemsResponse{
		Items:  []ItemResponse{},
		Offset: offset,
		Total:  len(items),
	}

	if offset < len(items) {
		end := offset + limit
		if end > len(items) {
			end = len(items)
		}
		for i := offset; i < end; i++ {
			resp.Items = append(resp.Items, h.itemDTO(i, items[i]))
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid index")
		return
	}

	item, ok := h.feed.ItemAt(index)
	if !ok {
		writeError(w, http.StatusNotFound, "ITEM_NOT_FOUND", "Item not found")
		return
	}

	writeJSON(w, http.StatusOK, h.itemDTO(index, item))
}

func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	rec, err := h.feed.ToggleLike(id)
	if err != nil {
		h.logger.Error().Err(err).Int64("id", id).Msg("failed to toggle like")
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to save like")
		return
	}

	writeJSON(w, http.StatusOK, LikeResponse{ID: id, Liked: rec.Liked, Count: rec.Count})
}

func (h *Handler) GetLike(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, LikeResponse{
		ID:    id,
		Liked: h.feed.IsLiked(id),
		Count: h.feed.LikeCount(id),
	})
}

func (h *Handler) ListLiked(w http.ResponseWriter, r *http.Request) {
	ids, err := h.liked.LikedIDs()
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list liked items")
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list likes")
		return
	}
	if ids == nil {
		ids = []int64{}
	}
	writeJSON(w, http.StatusOK, LikedResponse{IDs: ids})
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	profile, found := h.feed.Profile(id)
	if !found {
		writeError(w, http.StatusNotFound, "OWNER_NOT_FOUND", "No items from this user in the feed")
		return
	}

	resp := ProfileResponse{
		Owner:          ownerDTO(profile.Owner),
		Items:          make([]ItemResponse, 0, len(profile.Items)),
		TotalLikes:     profile.TotalLikes,
		TotalLikesText: humanize.Comma(int64(profile.TotalLikes)),
	}
	for i, item := range profile.Items {
		resp.Items = append(resp.Items, h.itemDTO(i, item))
	}

	writeJSON(w, http.StatusOK, resp)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid id")
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
