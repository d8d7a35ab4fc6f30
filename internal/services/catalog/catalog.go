package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/anastasia-gushchina/topdj-bot/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type packDocument struct {
	HumanName   string `yaml:"human_name"`
	Price       int64  `yaml:"price"`
	FileName    string `yaml:"file_name"`
	DocumentID  string `yaml:"document_id"`
	TrackCount  int    `yaml:"track_count"`
	Description string `yaml:"description"`
}

type categoryDocument struct {
	Name  string         `yaml:"name"`
	Packs []packDocument `yaml:"packs"`
}

type document struct {
	Categories []categoryDocument `yaml:"categories"`
}

type category struct {
	name  string
	packs []domain.Pack
}

// Catalog неизменяемый справочник паков, безопасен для конкурентного чтения
type Catalog struct {
	categories []category
	byCategory map[string]int
	byFold     map[string]string // имя категории в нижнем регистре -> имя из каталога
	byName     map[string]domain.Pack
}

// Result результат Lookup: либо пак, либо паки категории
type Result struct {
	Pack  *domain.Pack
	Packs map[string]domain.Pack // машинное имя -> пак
}

// Load загружает каталог из файла path, пустой path - встроенный каталог
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Parse(defaultCatalog)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse разбирает YAML документ каталога
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(doc.Categories) == 0 {
		return nil, fmt.Errorf("catalog has no categories")
	}

	c := &Catalog{
		byCategory: make(map[string]int, len(doc.Categories)),
		byFold:     make(map[string]string, len(doc.Categories)),
		byName:     make(map[string]domain.Pack),
	}
	for _, catDoc := range doc.Categories {
		name := strings.TrimSpace(catDoc.Name)
		if name == "" {
			return nil, fmt.Errorf("catalog category without name")
		}
		folded := strings.ToLower(name)
		if _, dup := c.byFold[folded]; dup {
			return nil, fmt.Errorf("duplicate category %q", name)
		}

		cat := category{name: name}
		for _, p := range catDoc.Packs {
			pack, err := toPack(name, p)
			if err != nil {
				return nil, err
			}
			if _, dup := c.byName[pack.Name]; dup {
				return nil, fmt.Errorf("duplicate pack %q", pack.Name)
			}
			c.byName[pack.Name] = pack
			cat.packs = append(cat.packs, pack)
		}
		c.byCategory[name] = len(c.categories)
		c.byFold[folded] = name
		c.categories = append(c.categories, cat)
	}

	// категория перекрывает пак с тем же ключом в Lookup
	for name := range c.byName {
		if _, clash := c.byCategory[name]; clash {
			return nil, fmt.Errorf("pack %q clashes with category name", name)
		}
	}
	return c, nil
}

func toPack(categoryName string, p packDocument) (domain.Pack, error) {
	if strings.TrimSpace(p.HumanName) == "" {
		return domain.Pack{}, fmt.Errorf("pack without name in category %q", categoryName)
	}
	if p.Price <= 0 {
		return domain.Pack{}, fmt.Errorf("pack %q: price must be positive", p.HumanName)
	}
	if p.FileName == "" && p.DocumentID == "" {
		return domain.Pack{}, fmt.Errorf("pack %q: file_name or document_id is required", p.HumanName)
	}
	return domain.Pack{
		Name:        domain.MachineName(p.HumanName),
		HumanName:   strings.TrimSpace(p.HumanName),
		Price:       p.Price,
		Category:    categoryName,
		FileName:    p.FileName,
		DocumentID:  p.DocumentID,
		TrackCount:  p.TrackCount,
		Description: p.Description,
	}, nil
}

// Lookup ищет сначала категорию с именем key, потом пак с машинным именем key
func (c *Catalog) Lookup(key string) (Result, error) {
	if idx, ok := c.byCategory[key]; ok {
		packs := make(map[string]domain.Pack, len(c.categories[idx].packs))
		for _, p := range c.categories[idx].packs {
			packs[p.Name] = p
		}
		return Result{Packs: packs}, nil
	}
	if p, ok := c.byName[key]; ok {
		return Result{Pack: &p}, nil
	}
	return Result{}, fmt.Errorf("catalog key %q: %w", key, domain.ErrNotFound)
}

// Pack пак по машинному имени
func (c *Catalog) Pack(name string) (*domain.Pack, error) {
	p, ok := c.byName[name]
	if !ok {
		return nil, fmt.Errorf("pack %q: %w", name, domain.ErrNotFound)
	}
	return &p, nil
}

// PriceOf цена пака в копейках, 0 для nil и неизвестного имени
func (c *Catalog) PriceOf(name *string) int64 {
	if name == nil || *name == "" {
		return 0
	}
	p, ok := c.byName[*name]
	if !ok {
		return 0
	}
	return p.Price
}

// CategoryName имя категории из каталога без учёта регистра: "house" -> "House"
func (c *Catalog) CategoryName(input string) (string, bool) {
	name, ok := c.byFold[strings.ToLower(strings.TrimSpace(input))]
	return name, ok
}

// Categories имена категорий в порядке каталога
func (c *Catalog) Categories() []string {
	names := make([]string, len(c.categories))
	for i, cat := range c.categories {
		names[i] = cat.name
	}
	return names
}

// PacksIn паки категории в порядке каталога
func (c *Catalog) PacksIn(categoryName string) ([]domain.Pack, error) {
	idx, ok := c.byCategory[categoryName]
	if !ok {
		return nil, fmt.Errorf("category %q: %w", categoryName, domain.ErrNotFound)
	}
	packs := make([]domain.Pack, len(c.categories[idx].packs))
	copy(packs, c.categories[idx].packs)
	return packs, nil
}

// Packs все паки в порядке каталога
func (c *Catalog) Packs() []domain.Pack {
	var packs []domain.Pack
	for _, cat := range c.categories {
		packs = append(packs, cat.packs...)
	}
	return packs
}
