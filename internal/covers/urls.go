package covers

import (
	"fmt"

	"github.com/mrlokans/bookfinder/internal/openlibrary"
)

// RoutePrefix is where the HTTP server serves cached covers.
const RoutePrefix = "/covers"

// URLFunc returns the function used to build cover image URLs. With a cache
// the images go through the local /covers route, otherwise they point at the
// covers host directly.
func URLFunc(c *Cache, urls openlibrary.URLs) func(id int, size openlibrary.CoverSize) string {
	if c == nil {
		return urls.CoverURL
	}
	return func(id int, size openlibrary.CoverSize) string {
		if id <= 0 {
			return ""
		}
		if size == "" {
			size = openlibrary.CoverMedium
		}
		return fmt.Sprintf("%s/%d/%s", RoutePrefix, id, size)
	}
}
