package memory

import (
	"sort"

	"github.com/sgeraldes/hidock-next-sub000/internal/entity"

	"github.com/patrickmn/go-cache"
)

// DownloadQueueRepository holds queue items in process memory, keyed by
// device filename. Items never expire; they leave the queue only through
// Delete or Clear. Values are copied on the way in and out so callers cannot
// mutate shared state.
type DownloadQueueRepository struct {
	cache *cache.Cache
}

func NewDownloadQueueRepository() *DownloadQueueRepository {
	return &DownloadQueueRepository{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (r *DownloadQueueRepository) Save(item *entity.DownloadQueueItem) {
	cp := *item
	r.cache.Set(item.Filename, &cp, cache.NoExpiration)
}

// Add stores the item only when the filename is not queued yet.
func (r *DownloadQueueRepository) Add(item *entity.DownloadQueueItem) bool {
	cp := *item
	return r.cache.Add(item.Filename, &cp, cache.NoExpiration) == nil
}

func (r *DownloadQueueRepository) Get(filename string) (*entity.DownloadQueueItem, bool) {
	if x, found := r.cache.Get(filename); found {
		cp := *x.(*entity.DownloadQueueItem)
		return &cp, true
	}
	return nil, false
}

func (r *DownloadQueueRepository) Delete(filename string) {
	r.cache.Delete(filename)
}

// List returns every item ordered by queue time, then filename.
func (r *DownloadQueueRepository) List() []*entity.DownloadQueueItem {
	items := make([]*entity.DownloadQueueItem, 0, r.cache.ItemCount())
	for _, x := range r.cache.Items() {
		cp := *x.Object.(*entity.DownloadQueueItem)
		items = append(items, &cp)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].QueuedAt.Equal(items[j].QueuedAt) {
			return items[i].Filename < items[j].Filename
		}
		return items[i].QueuedAt.Before(items[j].QueuedAt)
	})
	return items
}

func (r *DownloadQueueRepository) Count() int {
	return r.cache.ItemCount()
}

func (r *DownloadQueueRepository) Clear() int {
	n := r.cache.ItemCount()
	r.cache.Flush()
	return n
}
