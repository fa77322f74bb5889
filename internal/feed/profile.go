package feed

import (
	"math/rand"

	"reelfeed/internal/catalog"
)

// Profile groups catalog items under one owner with their combined likes.
type Profile struct {
	Owner      catalog.Owner
	Items      []catalog.Item
	TotalLikes int
}

// Profile collects the owner's items in catalog order. It returns false when
// the current catalog has nothing from that owner.
func (c *Controller) Profile(ownerID int64) (Profile, bool) {
	c.mu.RLock()
	var owned []catalog.Item
	for _, item := range c.items {
		if item.Owner.ID == ownerID {
			owned = append(owned, item)
		}
	}
	c.mu.RUnlock()

	if len(owned) == 0 {
		return Profile{}, false
	}

	return Profile{
		Owner:      owned[0].Owner,
		Items:      owned,
		TotalLikes: c.likes.TotalLikes(itemIDs(owned)),
	}, true
}

// SampleProfile builds a showcase profile for owner from up to n catalog
// items picked with a seeded shuffle, so the same seed gives the same grid.
func (c *Controller) SampleProfile(owner catalog.Owner, n int, seed int64) Profile {
	items := c.Items()
	if n > len(items) {
		n = len(items)
	}
	if n < 0 {
		n = 0
	}

	rng := rand.New(rand.NewSource(seed))
	picked := make([]catalog.Item, 0, n)
	for _, i := range rng.Perm(len(items))[:n] {
		picked = append(picked, items[i])
	}

	return Profile{
		Owner:      owner,
		Items:      picked,
		TotalLikes: c.likes.TotalLikes(itemIDs(picked)),
	}
}

func itemIDs(items []catalog.Item) []int64 {
	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}
