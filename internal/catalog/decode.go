package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrDecode is wrapped by every error returned from DecodePage.
var ErrDecode = errors.New("decode failed")

// Wire shapes mirror the API response with pointers on every field so that
// absent and null values can be told apart from zero values.
type wirePage struct {
	Page         *int         `json:"page"`
	PerPage      *int         `json:"per_page"`
	Videos       *[]wireVideo `json:"videos"`
	TotalResults *int         `json:"total_results"`
	NextPage     *string      `json:"next_page"`
	URL          *string      `json:"url"`
}

type wireVideo struct {
	ID            *int64        `json:"id"`
	Width         *int          `json:"width"`
	Height        *int          `json:"height"`
	Duration      *int          `json:"duration"`
	FullRes       *string       `json:"full_res"`
	Tags          []string      `json:"tags"`
	URL           *string       `json:"url"`
	Image         *string       `json:"image"`
	AvgColor      *string       `json:"avg_color"`
	User          *wireUser     `json:"user"`
	VideoFiles    []wireFile    `json:"video_files"`
	VideoPictures []wirePicture `json:"video_pictures"`
}

type wireUser struct {
	ID   *int64  `json:"id"`
	Name *string `json:"name"`
	URL  *string `json:"url"`
}

type wireFile struct {
	ID       *int64   `json:"id"`
	Quality  *string  `json:"quality"`
	FileType *string  `json:"file_type"`
	Width    *int     `json:"width"`
	Height   *int     `json:"height"`
	FPS      *float64 `json:"fps"`
	Link     *string  `json:"link"`
	Size     *int64   `json:"size"`
}

type wirePicture struct {
	ID      *int64  `json:"id"`
	Nr      *int    `json:"nr"`
	Picture *string `json:"picture"`
}

// DecodePage decodes one search response body. Missing, null or mistyped
// required fields fail the whole page.
func DecodePage(data []byte) (*Page, error) {
	var wp wirePage
	if err := json.Unmarshal(data, &wp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	// a top-level null leaves wp zero, so it is caught here too
	if wp.Videos == nil {
		return nil, missing("videos")
	}
	videos := *wp.Videos

	page := &Page{
		Page:         wp.Page,
		PerPage:      wp.PerPage,
		TotalResults: wp.TotalResults,
		NextPage:     wp.NextPage,
		URL:          wp.URL,
		Items:        make([]Item, 0, len(videos)),
	}

	for i, wv := range videos {
		item, err := wv.toItem(fmt.Sprintf("videos[%d]", i))
		if err != nil {
			return nil, err
		}
		page.Items = append(page.Items, item)
	}

	return page, nil
}

func missing(path string) error {
	return fmt.Errorf("%w: missing required field %s", ErrDecode, path)
}

func (wv wireVideo) toItem(path string) (Item, error) {
	switch {
	case wv.ID == nil:
		return Item{}, missing(path + ".id")
	case wv.Width == nil:
		return Item{}, missing(path + ".width")
	case wv.Height == nil:
		return Item{}, missing(path + ".height")
	case wv.Duration == nil:
		return Item{}, missing(path + ".duration")
	case wv.URL == nil:
		return Item{}, missing(path + ".url")
	case wv.Image == nil:
		return Item{}, missing(path + ".image")
	case wv.User == nil:
		return Item{}, missing(path + ".user")
	case wv.User.ID == nil:
		return Item{}, missing(path + ".user.id")
	case wv.User.Name == nil:
		return Item{}, missing(path + ".user.name")
	case wv.User.URL == nil:
		return Item{}, missing(path + ".user.url")
	}

	item := Item{
		ID:              *wv.ID,
		Width:           *wv.Width,
		Height:          *wv.Height,
		DurationSeconds: *wv.Duration,
		FullRes:         wv.FullRes,
		Tags:            wv.Tags,
		URL:             *wv.URL,
		ThumbnailURL:    *wv.Image,
		AvgColor:        wv.AvgColor,
		Owner: Owner{
			ID:          *wv.User.ID,
			DisplayName: *wv.User.Name,
			ProfileURL:  *wv.User.URL,
		},
		Variants: make([]Variant, 0, len(wv.VideoFiles)),
		Pictures: make([]Picture, 0, len(wv.VideoPictures)),
	}
	if item.Tags == nil {
		item.Tags = []string{}
	}

	for j, wf := range wv.VideoFiles {
		fpath := fmt.Sprintf("%s.video_files[%d]", path, j)
		switch {
		case wf.ID == nil:
			return Item{}, missing(fpath + ".id")
		case wf.FileType == nil:
			return Item{}, missing(fpath + ".file_type")
		case wf.Link == nil:
			return Item{}, missing(fpath + ".link")
		}
		item.Variants = append(item.Variants, Variant{
			ID:         *wf.ID,
			Quality:    parseQuality(wf.Quality),
			RawQuality: wf.Quality,
			FileType:   *wf.FileType,
			Width:      wf.Width,
			Height:     wf.Height,
			FrameRate:  wf.FPS,
			URL:        *wf.Link,
			SizeBytes:  wf.Size,
		})
	}

	for j, wpic := range wv.VideoPictures {
		ppath := fmt.Sprintf("%s.video_pictures[%d]", path, j)
		switch {
		case wpic.ID == nil:
			return Item{}, missing(ppath + ".id")
		case wpic.Nr == nil:
			return Item{}, missing(ppath + ".nr")
		case wpic.Picture == nil:
			return Item{}, missing(ppath + ".picture")
		}
		item.Pictures = append(item.Pictures, Picture{
			ID:             *wpic.ID,
			SequenceNumber: *wpic.Nr,
			URL:            *wpic.Picture,
		})
	}

	return item, nil
}
