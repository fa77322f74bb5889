package catalog

import (
	"errors"
	"strings"
	"testing"
)

const samplePage = `{
	"page": 1,
	"per_page": 80,
	"videos": [
		{
			"id": 123,
			"width": 1920,
			"height": 1080,
			"duration": 30,
			"full_res": null,
			"tags": ["nature", "people"],
			"url": "https://example.com/video",
			"image": "https://example.com/image.jpg",
			"avg_color": "#000000",
			"user": {
				"id": 456,
				"name": "John Doe",
				"url": "https://example.com/user"
			},
			"video_files": [
				{
					"id": 789,
					"quality": "hd",
					"file_type": "video/mp4",
					"width": 1920,
					"height": 1080,
					"fps": 30.0,
					"link": "https://example.com/video.mp4",
					"size": 1024000
				},
				{
					"id": 790,
					"quality": null,
					"file_type": "video/mp4",
					"width": null,
					"height": null,
					"fps": null,
					"link": "https://example.com/stream.m3u8",
					"size": null
				}
			],
			"video_pictures": [
				{"id": 1, "nr": 0, "picture": "https://example.com/thumb.jpg"}
			]
		}
	],
	"total_results": 200,
	"next_page": "https://api.pexels.com/videos/search?page=2",
	"url": "https://api.pexels.com/videos/search?page=1"
}`

func intPtr(v int) *int { return &v }

func TestDecodePage(t *testing.T) {
	page, err := DecodePage([]byte(samplePage))
	if err != nil {
		t.Fatalf("DecodePage() error = %v", err)
	}

	if page.Page == nil || *page.Page != 1 {
		t.Errorf("Page = %v, want 1", page.Page)
	}
	if page.PerPage == nil || *page.PerPage != 80 {
		t.Errorf("PerPage = %v, want 80", page.PerPage)
	}
	if page.TotalResults == nil || *page.TotalResults != 200 {
		t.Errorf("TotalResults = %v, want 200", page.TotalResults)
	}
	if page.NextPage == nil || *page.NextPage != "https://api.pexels.com/videos/search?page=2" {
		t.Errorf("NextPage = %v", page.NextPage)
	}
	if len(page.Items) != 1 {
		t.Fatalf("len(Items) = %d, want 1", len(page.Items))
	}

	item := page.Items[0]
	if item.ID != 123 || item.Width != 1920 || item.Height != 1080 || item.DurationSeconds != 30 {
		t.Errorf("unexpected item dimensions: %+v", item)
	}
	if item.FullRes != nil {
		t.Errorf("FullRes = %v, want nil", *item.FullRes)
	}
	if len(item.Tags) != 2 || item.Tags[0] != "nature" || item.Tags[1] != "people" {
		t.Errorf("Tags = %v", item.Tags)
	}
	if item.Owner.DisplayName != "John Doe" || item.Owner.ID != 456 {
		t.Errorf("Owner = %+v", item.Owner)
	}
	if len(item.Variants) != 2 || len(item.Pictures) != 1 {
		t.Fatalf("variants=%d pictures=%d", len(item.Variants), len(item.Pictures))
	}
	if item.Variants[0].Quality != QualityHD {
		t.Errorf("Variants[0].Quality = %v, want hd", item.Variants[0].Quality)
	}
	if v := item.Variants[1]; v.Quality != QualityOther || v.Width != nil || v.FrameRate != nil || v.SizeBytes != nil {
		t.Errorf("null optional fields not preserved: %+v", v)
	}
	if item.Pictures[0].SequenceNumber != 0 || item.Pictures[0].URL != "https://example.com/thumb.jpg" {
		t.Errorf("Pictures[0] = %+v", item.Pictures[0])
	}
}

func TestDecodePageMissingRequiredFields(t *testing.T) {
	tests := []struct {
		name  string
		field string
		body  string
	}{
		{
			name:  "missing id",
			field: "videos[0].id",
			body:  `{"videos":[{"width":1,"height":1,"duration":1,"url":"u","image":"i","user":{"id":1,"name":"n","url":"u"}}]}`,
		},
		{
			name:  "null image",
			field: "videos[0].image",
			body:  `{"videos":[{"id":1,"width":1,"height":1,"duration":1,"url":"u","image":null,"user":{"id":1,"name":"n","url":"u"}}]}`,
		},
		{
			name:  "missing user name",
			field: "videos[0].user.name",
			body:  `{"videos":[{"id":1,"width":1,"height":1,"duration":1,"url":"u","image":"i","user":{"id":1,"url":"u"}}]}`,
		},
		{
			name:  "missing variant link",
			field: "videos[0].video_files[0].link",
			body:  `{"videos":[{"id":1,"width":1,"height":1,"duration":1,"url":"u","image":"i","user":{"id":1,"name":"n","url":"u"},"video_files":[{"id":2,"file_type":"video/mp4"}]}]}`,
		},
		{
			name:  "missing variant file type",
			field: "videos[0].video_files[0].file_type",
			body:  `{"videos":[{"id":1,"width":1,"height":1,"duration":1,"url":"u","image":"i","user":{"id":1,"name":"n","url":"u"},"video_files":[{"id":2,"link":"l"}]}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePage([]byte(tt.body))
			if !errors.Is(err, ErrDecode) {
				t.Fatalf("DecodePage() error = %v, want ErrDecode", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not name field %q", err.Error(), tt.field)
			}
		})
	}
}

func TestDecodePageTypeMismatch(t *testing.T) {
	body := `{"videos":[{"id":"abc","width":1,"height":1,"duration":1,"url":"u","image":"i","user":{"id":1,"name":"n","url":"u"}}]}`
	if _, err := DecodePage([]byte(body)); !errors.Is(err, ErrDecode) {
		t.Fatalf("DecodePage() error = %v, want ErrDecode", err)
	}

	if _, err := DecodePage([]byte("not json")); !errors.Is(err, ErrDecode) {
		t.Fatalf("DecodePage(garbage) error = %v, want ErrDecode", err)
	}
}

func TestDecodePageMissingVideos(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty object", `{}`},
		{"top-level null", `null`},
		{"null videos", `{"page":1,"videos":null}`},
		{"error object", `{"error":"rate limited"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := DecodePage([]byte(tt.body))
			if !errors.Is(err, ErrDecode) {
				t.Fatalf("DecodePage() = %v, %v; want ErrDecode", page, err)
			}
			if !strings.Contains(err.Error(), "videos") {
				t.Errorf("error %q does not name videos", err)
			}
		})
	}

	page, err := DecodePage([]byte(`{"videos":[]}`))
	if err != nil {
		t.Fatalf("empty videos list: error = %v", err)
	}
	if page.Items == nil || len(page.Items) != 0 {
		t.Errorf("Items = %v, want empty", page.Items)
	}
}

func TestDecodePageEmptyCollections(t *testing.T) {
	body := `{"videos":[{"id":1,"width":1,"height":1,"duration":1,"url":"u","image":"i","tags":null,"user":{"id":1,"name":"n","url":"u"}}]}`
	page, err := DecodePage([]byte(body))
	if err != nil {
		t.Fatalf("DecodePage() error = %v", err)
	}
	item := page.Items[0]
	if item.Tags == nil || len(item.Tags) != 0 {
		t.Errorf("Tags = %v, want empty", item.Tags)
	}
	if len(item.Variants) != 0 || len(item.Pictures) != 0 {
		t.Errorf("expected no variants or pictures")
	}
	if _, ok := BestVariant(item); ok {
		t.Error("BestVariant() on item without variants should return none")
	}
	if page.Page != nil {
		t.Errorf("Page = %v, want nil", *page.Page)
	}
}

func TestBestVariantPrefersHD(t *testing.T) {
	sd := Variant{ID: 2, Quality: QualitySD, Width: intPtr(640), URL: "https://example.com/sd.mp4"}
	hd := Variant{ID: 1, Quality: QualityHD, Width: intPtr(1280), URL: "https://example.com/hd.mp4"}

	orders := [][]Variant{{sd, hd}, {hd, sd}}
	for _, variants := range orders {
		url, ok := BestVariant(Item{Variants: variants})
		if !ok || url != hd.URL {
			t.Errorf("BestVariant(%v) = %q, %v; want %q", variants, url, ok, hd.URL)
		}
	}
}

func TestBestVariantOnlySD(t *testing.T) {
	sd := Variant{ID: 1, Quality: QualitySD, Width: intPtr(640), URL: "https://example.com/sd.mp4"}
	url, ok := BestVariant(Item{Variants: []Variant{sd}})
	if !ok || url != sd.URL {
		t.Errorf("BestVariant() = %q, %v; want %q", url, ok, sd.URL)
	}
}

func TestBestVariantNone(t *testing.T) {
	if _, ok := BestVariant(Item{}); ok {
		t.Error("BestVariant() with no variants should return none")
	}

	empty := []Variant{
		{ID: 1, Quality: QualityHD, Width: intPtr(1920), URL: ""},
		{ID: 2, Quality: QualitySD, Width: intPtr(640), URL: ""},
	}
	if _, ok := BestVariant(Item{Variants: empty}); ok {
		t.Error("BestVariant() with only empty URLs should return none")
	}
}

func TestBestVariantRanking(t *testing.T) {
	tests := []struct {
		name     string
		variants []Variant
		want     string
	}{
		{
			name: "empty hd url skipped",
			variants: []Variant{
				{Quality: QualityHD, Width: intPtr(3840), URL: ""},
				{Quality: QualitySD, Width: intPtr(960), URL: "sd"},
			},
			want: "sd",
		},
		{
			name: "wider hd wins",
			variants: []Variant{
				{Quality: QualityHD, Width: intPtr(1280), URL: "hd720"},
				{Quality: QualityHD, Width: intPtr(1920), URL: "hd1080"},
			},
			want: "hd1080",
		},
		{
			name: "hd beats wider sd",
			variants: []Variant{
				{Quality: QualitySD, Width: intPtr(4096), URL: "sdwide"},
				{Quality: QualityHD, Width: intPtr(1280), URL: "hd"},
			},
			want: "hd",
		},
		{
			name: "absent quality ranks with sd",
			variants: []Variant{
				{Quality: QualitySD, Width: intPtr(640), URL: "sd"},
				{Quality: QualityOther, Width: intPtr(960), URL: "other"},
			},
			want: "other",
		},
		{
			name: "ties keep api order",
			variants: []Variant{
				{Quality: QualityOther, URL: "first"},
				{Quality: QualityOther, URL: "second"},
			},
			want: "first",
		},
		{
			name: "absent width ranks below known width",
			variants: []Variant{
				{Quality: QualityHD, URL: "nowidth"},
				{Quality: QualityHD, Width: intPtr(1), URL: "tiny"},
			},
			want: "tiny",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := BestVariant(Item{Variants: tt.variants})
			if !ok || got != tt.want {
				t.Errorf("BestVariant() = %q, %v; want %q", got, ok, tt.want)
			}
		})
	}
}

func TestBestVariantDoesNotMutate(t *testing.T) {
	variants := []Variant{
		{ID: 1, Quality: QualitySD, Width: intPtr(640), URL: "sd"},
		{ID: 2, Quality: QualityHD, Width: intPtr(1920), URL: "hd"},
	}
	item := Item{Variants: variants}

	BestVariant(item)

	if item.Variants[0].ID != 1 || item.Variants[1].ID != 2 {
		t.Errorf("BestVariant() reordered the item's variants: %+v", item.Variants)
	}
}

func TestItemHelpers(t *testing.T) {
	item := Item{Width: 1080, Height: 1920, ThumbnailURL: "thumb"}
	if !item.IsPortrait() {
		t.Error("IsPortrait() = false, want true")
	}
	if got := item.AspectRatio(); got != 0.5625 {
		t.Errorf("AspectRatio() = %v, want 0.5625", got)
	}
	if got := item.CoverURL(); got != "thumb" {
		t.Errorf("CoverURL() = %q, want thumb", got)
	}

	item.Pictures = []Picture{{URL: ""}, {URL: "pic"}}
	if got := item.CoverURL(); got != "pic" {
		t.Errorf("CoverURL() = %q, want pic", got)
	}

	if got := (Item{}).AspectRatio(); got != 0 {
		t.Errorf("AspectRatio() on zero item = %v, want 0", got)
	}
}
