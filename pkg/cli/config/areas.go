package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// Areas holds the path of the area catalog file. The catalog constrains
// which area tags documents and tickets may carry.
type Areas struct {
	path string
}

// Flags returns CLI flags for the area catalog
func (a *Areas) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "areas-config",
			Usage:       "Path to the TOML area catalog (optional)",
			Sources:     cli.EnvVars("MNEMOSYNE_AREAS_CONFIG"),
			Destination: &a.path,
		},
	}
}

// Load reads and validates the catalog. Returns nil if no path is
// configured, in which case any area tag is accepted.
func (a *Areas) Load() (*AreaCatalog, error) {
	if a.path == "" {
		return nil, nil
	}
	return LoadAreaCatalog(a.path)
}

// AreaCatalog is the parsed area catalog
type AreaCatalog struct {
	Areas []Area `toml:"area"`
}

// Area is one product area with its optional sub-areas
type Area struct {
	ID          string    `toml:"id"`
	Name        string    `toml:"name"`
	Description string    `toml:"description"`
	SubAreas    []SubArea `toml:"sub_area"`
}

// SubArea is a finer-grained tag inside an area
type SubArea struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
}

// Validate checks if the Area is valid
func (a *Area) Validate() error {
	if a.ID == "" {
		return goerr.New("area id is required")
	}
	if a.Name == "" {
		return goerr.New("area name is required", goerr.V("id", a.ID))
	}
	subIDs := make(map[string]bool)
	for _, sub := range a.SubAreas {
		if sub.ID == "" {
			return goerr.New("sub-area id is required", goerr.V("area", a.ID))
		}
		if subIDs[sub.ID] {
			return goerr.New("duplicate sub-area ID", goerr.V("area", a.ID), goerr.V("id", sub.ID))
		}
		subIDs[sub.ID] = true
	}
	return nil
}

// Validate checks if the AreaCatalog is valid
func (c *AreaCatalog) Validate() error {
	ids := make(map[string]bool)
	for i := range c.Areas {
		if err := c.Areas[i].Validate(); err != nil {
			return goerr.Wrap(err, "invalid area")
		}
		if ids[c.Areas[i].ID] {
			return goerr.New("duplicate area ID", goerr.V("id", c.Areas[i].ID))
		}
		ids[c.Areas[i].ID] = true
	}
	return nil
}

// Contains reports whether tag names a catalogued area
func (c *AreaCatalog) Contains(tag string) bool {
	for i := range c.Areas {
		if c.Areas[i].ID == tag {
			return true
		}
	}
	return false
}

// LoadAreaCatalog loads the area catalog from a TOML file
func LoadAreaCatalog(path string) (*AreaCatalog, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read area catalog", goerr.V("path", path))
	}

	var catalog AreaCatalog
	if err := toml.Unmarshal(data, &catalog); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML area catalog", goerr.V("path", path))
	}

	if err := catalog.Validate(); err != nil {
		return nil, goerr.Wrap(err, "area catalog validation failed", goerr.V("path", path))
	}

	return &catalog, nil
}
