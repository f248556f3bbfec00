package addrspec

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/moriyoshi/addrspec/internal/rfc5322"
)

// patternCache memoizes compiled patterns per dialect. Entries are never
// evicted; there are only a few thousand distinct dialects.
type patternCache struct {
	patterns sync.Map
	group    singleflight.Group
}

var patterns patternCache

func (c *patternCache) get(d rfc5322.Dialect) (*rfc5322.Pattern, error) {
	if p, ok := c.patterns.Load(d); ok {
		return p.(*rfc5322.Pattern), nil
	}
	v, err, _ := c.group.Do(fmt.Sprintf("%+v", d), func() (interface{}, error) {
		if p, ok := c.patterns.Load(d); ok {
			return p, nil
		}
		p, err := rfc5322.Compile(d)
		if err != nil {
			return nil, err
		}
		c.patterns.Store(d, p)
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*rfc5322.Pattern), nil
}
