package util

import (
	"context"
	"time"

	"github.com/ariebrainware/clinic-records/model"
	cache "github.com/patrickmn/go-cache"
)

// DoctorFinder is the lookup the name cache falls back to.
type DoctorFinder interface {
	FindDoctorByID(ctx context.Context, id model.DoctorID) (*model.Doctor, error)
}

// DoctorNameCache caches doctor names by id. Doctors are never updated, so an
// entry only leaves the cache when it expires.
type DoctorNameCache struct {
	names *cache.Cache
}

// NewDoctorNameCache returns a cache whose entries live for ttl. A ttl <= 0
// uses ten minutes.
func NewDoctorNameCache(ttl time.Duration) *DoctorNameCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &DoctorNameCache{names: cache.New(ttl, 2*ttl)}
}

// Name returns the doctor's name from the cache, asking finder on a miss.
// Errors from finder are returned unchanged and nothing is cached for them.
func (d *DoctorNameCache) Name(ctx context.Context, finder DoctorFinder, id model.DoctorID) (string, error) {
	key := string(id)
	if v, ok := d.names.Get(key); ok {
		if name, ok := v.(string); ok {
			return name, nil
		}
	}

	doctor, err := finder.FindDoctorByID(ctx, id)
	if err != nil {
		return "", err
	}
	d.names.Set(key, doctor.Name, cache.DefaultExpiration)
	return doctor.Name, nil
}

// Len returns the number of cached names.
func (d *DoctorNameCache) Len() int {
	return d.names.ItemCount()
}
