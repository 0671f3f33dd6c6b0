package config

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// --------------------------------------------------------------------------
// Category registry — one independently polled schedule feed each
// --------------------------------------------------------------------------

// Category names a schedule feed and where to fetch it from. Windowed
// categories only report a schedule while their event is running.
type Category struct {
	Name     string `yaml:"name" json:"name"`
	URL      string `yaml:"url" json:"url"`
	Windowed bool   `yaml:"windowed" json:"windowed"`
}

// BaseURL is the public spla3 schedule API.
const BaseURL = "https://spla3.yuu26.com/api"

// DefaultCategories is the built-in feed list, in processing order.
var DefaultCategories = []Category{
	{Name: "ナワバリバトル", URL: BaseURL + "/regular/now"},
	{Name: "バンカラマッチ：チャレンジ", URL: BaseURL + "/bankara-challenge/now"},
	{Name: "バンカラマッチ：オープン", URL: BaseURL + "/bankara-open/now"},
	{Name: "Xマッチ", URL: BaseURL + "/x/now"},
	{Name: "フェス", URL: BaseURL + "/fes/now", Windowed: true},
}

type categoriesFile struct {
	Categories []Category `yaml:"categories"`
}

// LoadCategories returns the categories to poll. An empty path selects
// DefaultCategories; otherwise the YAML file at path is read from fsys and
// its order is kept.
func LoadCategories(fsys afero.Fs, path string) ([]Category, error) {
	if path == "" {
		out := make([]Category, len(DefaultCategories))
		copy(out, DefaultCategories)
		return out, nil
	}

	raw, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read categories file: %w", err)
	}

	var f categoriesFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse categories file %s: %w", path, err)
	}
	if len(f.Categories) == 0 {
		return nil, fmt.Errorf("categories file %s defines no categories", path)
	}

	seen := make(map[string]bool, len(f.Categories))
	for i, c := range f.Categories {
		c.Name = strings.TrimSpace(c.Name)
		c.URL = strings.TrimSpace(c.URL)
		if c.Name == "" || c.URL == "" {
			return nil, fmt.Errorf("category %d: name and url are required", i)
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("category %q defined twice", c.Name)
		}
		seen[c.Name] = true
		f.Categories[i] = c
	}
	return f.Categories, nil
}
