package configs

import (
	_ "embed"
	"fmt"

	"restaurant/entity"

	"gopkg.in/yaml.v3"
)

//go:embed menu_seed.yaml
var menuSeedYAML []byte

type seedItem struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Price       int64  `yaml:"price"`
	Category    string `yaml:"category"`
	Image       string `yaml:"image"`
}

// DemoMenu returns the fixed demo catalog.
func DemoMenu() ([]entity.MenuItem, error) {
	var doc struct {
		Items []seedItem `yaml:"items"`
	}
	if err := yaml.Unmarshal(menuSeedYAML, &doc); err != nil {
		return nil, fmt.Errorf("parse demo menu: %w", err)
	}

	items := make([]entity.MenuItem, 0, len(doc.Items))
	for _, it := range doc.Items {
		items = append(items, entity.MenuItem{
			Name:        it.Name,
			Description: it.Description,
			Price:       it.Price,
			Category:    it.Category,
			Image:       it.Image,
		})
	}
	return items, nil
}
