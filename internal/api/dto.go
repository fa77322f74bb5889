package api

import (
	"github.com/dustin/go-humanize"
	"reelfeed/internal/catalog"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type FeedStatusResponse struct {
	State string `json:"state"`
	Count int    `json:"count"`
	Error string `json:"error,omitempty"`
}

type ReloadResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type OwnerDTO struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	ProfileURL string `json:"url"`
}

type ItemResponse struct {
	Index         int      `json:"index"`
	ID            int64    `json:"id"`
	Width         int      `json:"width"`
	Height        int      `json:"height"`
	Duration      int      `json:"duration"`
	Portrait      bool     `json:"portrait"`
	Tags          []string `json:"tags"`
	PageURL       string   `json:"url"`
	ThumbnailURL  string   `json:"image"`
	CoverURL      string   `json:"cover"`
	VideoURL      *string  `json:"video_url,omitempty"`
	VideoSize     string   `json:"video_size,omitempty"`
	Owner         OwnerDTO `json:"user"`
	Liked         bool     `json:"liked"`
	LikeCount     int      `json:"like_count"`
	LikeCountText string   `json:"like_count_text"`
}

type ItemsResponse struct {
	Items  []ItemResponse `json:"items"`
	Offset int            `json:"offset"`
	Total  int            `json:"total"`
}

type LikeResponse struct {
	ID    int64 `json:"id"`
	Liked bool  `json:"liked"`
	Count int   `json:"count"`
}

type LikedResponse struct {
	IDs []int64 `json:"ids"`
}

type ProfileResponse struct {
	Owner          OwnerDTO       `json:"user"`
	Items          []ItemResponse `json:"items"`
	TotalLikes     int            `json:"total_likes"`
	TotalLikesText string         `json:"total_likes_text"`
}

func ownerDTO(o catalog.Owner) OwnerDTO {
	return OwnerDTO{ID: o.ID, Name: o.DisplayName, ProfileURL: o.ProfileURL}
}

func (h *Handler) itemDTO(index int, item catalog.Item) ItemResponse {
	count := h.feed.LikeCount(item.ID)
	resp := ItemResponse{
		Index:         index,
		ID:            item.ID,
		Width:         item.Width,
		Height:        item.Height,
		Duration:      item.DurationSeconds,
		Portrait:      item.IsPortrait(),
		Tags:          item.Tags,
		PageURL:       item.URL,
		ThumbnailURL:  item.ThumbnailURL,
		CoverURL:      item.CoverURL(),
		Owner:         ownerDTO(item.Owner),
		Liked:         h.feed.IsLiked(item.ID),
		LikeCount:     count,
		LikeCountText: humanize.Comma(int64(count)),
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}

	if url, ok := catalog.BestVariant(item); ok {
		resp.VideoURL = &url
		for _, v := range item.Variants {
			if v.URL == url && v.SizeBytes != nil && *v.SizeBytes >= 0 {
				resp.VideoSize = humanize.Bytes(uint64(*v.SizeBytes))
				break
			}
		}
	}

	return resp
}
