package content

import (
	"path/filepath"
	"sync/atomic"
)

type snapshot struct {
	sponsors Sponsors
	hotels   []Hotel
}

// Catalog holds the loaded content and swaps it whole on reload.
type Catalog struct {
	dir        string
	hotelNames []string
	current    atomic.Pointer[snapshot]
}

// NewCatalog creates an empty catalog over dir, which holds the sponsors and
// hotels directories. Call Reload to load it.
func NewCatalog(dir string, hotelNames []string) *Catalog {
	c := &Catalog{dir: dir, hotelNames: hotelNames}
	c.current.Store(&snapshot{sponsors: emptySponsors(), hotels: []Hotel{}})
	return c
}

func (c *Catalog) SponsorsDir() string {
	return filepath.Join(c.dir, "sponsors")
}

func (c *Catalog) HotelsDir() string {
	return filepath.Join(c.dir, "hotels")
}

// Reload reads the content again. On error the previous content is kept.
func (c *Catalog) Reload() error {
	sponsors, err := LoadSponsors(c.SponsorsDir())
	if err != nil {
		return err
	}
	hotels, err := LoadHotels(c.HotelsDir(), c.hotelNames)
	if err != nil {
		return err
	}
	c.current.Store(&snapshot{sponsors: sponsors, hotels: hotels})
	return nil
}

func (c *Catalog) Sponsors() Sponsors {
	return c.current.Load().sponsors
}

func (c *Catalog) Hotels() []Hotel {
	return c.current.Load().hotels
}
