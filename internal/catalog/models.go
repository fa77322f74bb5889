package catalog

// Quality is the rendition class reported by the API for a video file.
type Quality int

const (
	QualityOther Quality = iota // absent, null or unrecognised
	QualitySD
	QualityHD
)

func (q Quality) String() string {
	switch q {
	case QualityHD:
		return "hd"
	case QualitySD:
		return "sd"
	default:
		return ""
	}
}

func parseQuality(raw *string) Quality {
	if raw == nil {
		return QualityOther
	}
	switch *raw {
	case "hd":
		return QualityHD
	case "sd":
		return QualitySD
	default:
		return QualityOther
	}
}

// Page is one decoded search response.
type Page struct {
	Page         *int    `json:"page,omitempty"`
	PerPage      *int    `json:"per_page,omitempty"`
	TotalResults *int    `json:"total_results,omitempty"`
	NextPage     *string `json:"next_page,omitempty"`
	URL          *string `json:"url,omitempty"`
	Items        []Item  `json:"videos"`
}

// Item is a single video in the catalog. Items are treated as immutable once
// decoded; callers that need to change one should copy it.
type Item struct {
	ID              int64     `json:"id"`
	Width           int       `json:"width"`
	Height          int       `json:"height"`
	DurationSeconds int       `json:"duration"`
	FullRes         *string   `json:"full_res,omitempty"`
	Tags            []string  `json:"tags"`
	URL             string    `json:"url"`
	ThumbnailURL    string    `json:"image"`
	AvgColor        *string   `json:"avg_color,omitempty"`
	Owner           Owner     `json:"user"`
	Variants        []Variant `json:"video_files"`
	Pictures        []Picture `json:"video_pictures"`
}

type Owner struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"name"`
	ProfileURL  string `json:"url"`
}

// Variant is one encoded rendition of an item's video.
type Variant struct {
	ID         int64    `json:"id"`
	Quality    Quality  `json:"-"`
	RawQuality *string  `json:"quality,omitempty"`
	FileType   string   `json:"file_type"`
	Width      *int     `json:"width,omitempty"`
	Height     *int     `json:"height,omitempty"`
	FrameRate  *float64 `json:"fps,omitempty"`
	URL        string   `json:"link"`
	SizeBytes  *int64   `json:"size,omitempty"`
}

type Picture struct {
	ID             int64  `json:"id"`
	SequenceNumber int    `json:"nr"`
	URL            string `json:"picture"`
}

// BestVideoURL is shorthand for BestVariant(item).
func (i Item) BestVideoURL() (string, bool) {
	return BestVariant(i)
}

// AspectRatio returns width/height, or 0 when height is unknown.
func (i Item) AspectRatio() float64 {
	if i.Height <= 0 {
		return 0
	}
	return float64(i.Width) / float64(i.Height)
}

func (i Item) IsPortrait() bool {
	return i.Height > i.Width
}

// CoverURL returns the first preview picture, falling back to the thumbnail.
func (i Item) CoverURL() string {
	for _, p := range i.Pictures {
		if p.URL != "" {
			return p.URL
		}
	}
	return i.ThumbnailURL
}
