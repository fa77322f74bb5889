package storage

// LikeRecord is the persisted like state of one catalog item. HasCount is
// false when the item is in the liked set but has no stored count.
type LikeRecord struct {
	ItemID   int64 `json:"item_id"`
	Liked    bool  `json:"liked"`
	Count    int   `json:"count"`
	HasCount bool  `json:"-"`
}
