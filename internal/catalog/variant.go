package catalog

import "sort"

// BestVariant picks the URL of the highest quality playable rendition: hd
// before anything else, then the widest, keeping API order on ties.
// Variants with an empty URL are never chosen. The item is not modified.
func BestVariant(item Item) (string, bool) {
	playable := make([]Variant, 0, len(item.Variants))
	for _, v := range item.Variants {
		if v.URL != "" {
			playable = append(playable, v)
		}
	}

	if len(playable) == 0 {
		return "", false
	}

	sort.SliceStable(playable, func(i, j int) bool {
		return variantLess(playable[i], playable[j])
	})

	return playable[0].URL, true
}

// variantLess reports whether a ranks strictly above b.
func variantLess(a, b Variant) bool {
	aHD := a.Quality == QualityHD
	bHD := b.Quality == QualityHD
	if aHD != bHD {
		return aHD
	}
	return widthOf(a) > widthOf(b)
}

func widthOf(v Variant) int {
	if v.Width == nil {
		return 0
	}
	return *v.Width
}
