// Package content serves the sponsor and hotel listings kept as YAML files.
package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cloudnative-denmark/conference-companion/internal/logging"
)

// LogoURLPrefix is where sponsor logos are served.
const LogoURLPrefix = "/static/sponsors"

// Sponsor is a listed sponsor.
type Sponsor struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Scale   string `json:"scale,omitempty"`
	LogoURL string `json:"logo_url"`
}

// Sponsors groups sponsors by tier.
type Sponsors struct {
	Platinum  []Sponsor `json:"platinum"`
	Gold      []Sponsor `json:"gold"`
	Bronze    []Sponsor `json:"bronze"`
	Community []Sponsor `json:"community"`
	Partners  []Sponsor `json:"partners"`
}

func emptySponsors() Sponsors {
	return Sponsors{
		Platinum:  []Sponsor{},
		Gold:      []Sponsor{},
		Bronze:    []Sponsor{},
		Community: []Sponsor{},
		Partners:  []Sponsor{},
	}
}

// tier returns the list a category directory feeds. The "partner"
// directory is published as partners.
func (s *Sponsors) tier(category string) *[]Sponsor {
	switch category {
	case "platinum":
		return &s.Platinum
	case "gold":
		return &s.Gold
	case "bronze":
		return &s.Bronze
	case "community":
		return &s.Community
	case "partner":
		return &s.Partners
	}
	return nil
}

type sponsorFile struct {
	Title   string `yaml:"title"`
	URL     string `yaml:"url"`
	Logo    string `yaml:"logo"`
	Scale   string `yaml:"scale"`
	Enabled bool   `yaml:"enabled"`
}

// Hotel is a recommended place to stay.
type Hotel struct {
	Name        string `json:"name" yaml:"name"`
	Website     string `json:"website,omitempty" yaml:"website"`
	Description string `json:"description,omitempty" yaml:"description"`
	Image       string `json:"image,omitempty" yaml:"image"`
	Address     string `json:"address,omitempty" yaml:"address"`
	Phone       string `json:"phone,omitempty" yaml:"phone"`
}

// LoadSponsors reads dir/<category>/*.yaml. Disabled entries, entries
// missing a title, url or logo, and entries whose logo file is absent are
// skipped with a warning. A missing dir yields no sponsors.
func LoadSponsors(dir string) (Sponsors, error) {
	logger := logging.New(context.Background())
	out := emptySponsors()

	categories, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return out, nil
	}
	if err != nil {
		return out, fmt.Errorf("read sponsors dir: %w", err)
	}

	for _, cat := range categories {
		if !cat.IsDir() {
			continue
		}
		category := cat.Name()
		list := out.tier(category)
		if list == nil {
			logger.LogWarnf("load_sponsors", "category=%s unknown, skipped", category)
			continue
		}

		files, err := filepath.Glob(filepath.Join(dir, category, "*.yaml"))
		if err != nil {
			return out, fmt.Errorf("list %s sponsors: %w", category, err)
		}
		sort.Strings(files)

		for _, file := range files {
			sponsor, ok := loadSponsor(logger, dir, category, file)
			if ok {
				*list = append(*list, sponsor)
			}
		}
	}
	return out, nil
}

func loadSponsor(logger *logging.Logger, dir, category, file string) (Sponsor, bool) {
	raw, err := os.ReadFile(file)
	if err != nil {
		logger.LogWarnf("load_sponsors", "file=%s error=%v", file, err)
		return Sponsor{}, false
	}

	var sf sponsorFile
	if err := yaml.Unmarshal(raw, &sf); err != nil {
		logger.LogWarnf("load_sponsors", "file=%s error=%v", file, err)
		return Sponsor{}, false
	}
	if !sf.Enabled {
		return Sponsor{}, false
	}
	if sf.Title == "" || sf.URL == "" || sf.Logo == "" {
		logger.LogWarnf("load_sponsors", "file=%s missing title, url or logo", file)
		return Sponsor{}, false
	}

	logo := filepath.Clean(filepath.FromSlash(sf.Logo))
	if strings.HasPrefix(logo, "..") || filepath.IsAbs(logo) {
		logger.LogWarnf("load_sponsors", "file=%s logo %q escapes the category dir", file, sf.Logo)
		return Sponsor{}, false
	}
	if _, err := os.Stat(filepath.Join(dir, category, logo)); err != nil {
		logger.LogWarnf("load_sponsors", "Image not found for sponsor %s: %s/%s", sf.Title, category, sf.Logo)
		return Sponsor{}, false
	}

	return Sponsor{
		Title:   sf.Title,
		URL:     sf.URL,
		Scale:   sf.Scale,
		LogoURL: path.Join(LogoURLPrefix, category, filepath.ToSlash(logo)),
	}, true
}

// LoadHotels reads dir/<name>.yaml for each name, in order. With no names
// every YAML file in dir is read in name order. Unreadable hotels are
// skipped with a warning.
func LoadHotels(dir string, names []string) ([]Hotel, error) {
	logger := logging.New(context.Background())

	if len(names) == 0 {
		files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
		if err != nil {
			return nil, fmt.Errorf("list hotels: %w", err)
		}
		sort.Strings(files)
		for _, f := range files {
			names = append(names, strings.TrimSuffix(filepath.Base(f), ".yaml"))
		}
	}

	hotels := make([]Hotel, 0, len(names))
	for _, name := range names {
		raw, err := os.ReadFile(filepath.Join(dir, name+".yaml"))
		if err != nil {
			logger.LogWarnf("load_hotels", "Failed to load hotel %s: %v", name, err)
			continue
		}
		var h Hotel
		if err := yaml.Unmarshal(raw, &h); err != nil {
			logger.LogWarnf("load_hotels", "Failed to load hotel %s: %v", name, err)
			continue
		}
		hotels = append(hotels, h)
	}
	return hotels, nil
}
