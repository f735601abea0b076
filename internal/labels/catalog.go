// Package labels localizes fee chart labels and amounts.
package labels

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rpggio/hostboard/internal/domain/fees"
	"golang.org/x/text/cases"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the locale used when nothing better matches.
const BaseLocale = "en-US"

type catalogFile struct {
	Locale string            `yaml:"locale"`
	Series map[string]string `yaml:"series"`
	Months []string          `yaml:"months"`
}

// Catalog holds the labels of one locale.
type Catalog struct {
	tag    language.Tag
	series map[string]string
	months [12]string
}

// Bundle holds every loaded catalog and matches locales against them.
type Bundle struct {
	catalogs []*Catalog
	matcher  language.Matcher
}

//go:embed locales/*.yaml
var embeddedFS embed.FS

// LoadEmbedded loads the catalogs shipped with this package.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embeddedFS)
}

// LoadFromFS loads locales/*.yaml from fsys. The base locale must be present.
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob label catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no label catalogs found")
	}
	sort.Strings(paths)

	var catalogs []*Catalog
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		c, err := parseCatalog(data)
		if err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}
		catalogs = append(catalogs, c)
	}

	base := language.MustParse(BaseLocale)
	idx := -1
	for i, c := range catalogs {
		if c.tag == base {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("missing %s catalog", BaseLocale)
	}
	// The matcher falls back to its first tag.
	catalogs[0], catalogs[idx] = catalogs[idx], catalogs[0]

	tags := make([]language.Tag, 0, len(catalogs))
	for _, c := range catalogs {
		tags = append(tags, c.tag)
	}
	return &Bundle{catalogs: catalogs, matcher: language.NewMatcher(tags)}, nil
}

func parseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	tag, err := language.Parse(f.Locale)
	if err != nil {
		return nil, fmt.Errorf("locale %q: %w", f.Locale, err)
	}
	if len(f.Months) != 0 && len(f.Months) != 12 {
		return nil, fmt.Errorf("expected 12 months, got %d", len(f.Months))
	}

	c := &Catalog{tag: tag, series: make(map[string]string, len(f.Series))}
	for k, v := range f.Series {
		c.series[strings.ToUpper(k)] = v
	}
	copy(c.months[:], f.Months)
	return c, nil
}

// Match returns the catalog best matching locale, which may be a single tag
// or an Accept-Language header value.
func (b *Bundle) Match(locale string) *Catalog {
	if strings.TrimSpace(locale) == "" {
		return b.catalogs[0]
	}
	_, idx := language.MatchStrings(b.matcher, locale)
	return b.catalogs[idx]
}

// Localizers returns a fees.LocalizerFunc backed by b. An empty locale
// resolves to defaultLocale.
func (b *Bundle) Localizers(defaultLocale string) fees.LocalizerFunc {
	return func(locale string) fees.Localizer {
		if strings.TrimSpace(locale) == "" {
			locale = defaultLocale
		}
		return b.Match(locale)
	}
}

// Locales lists the loaded locale tags, base locale first.
func (b *Bundle) Locales() []string {
	out := make([]string, 0, len(b.catalogs))
	for _, c := range b.catalogs {
		out = append(out, c.tag.String())
	}
	return out
}

// Locale returns the catalog's locale tag.
func (c *Catalog) Locale() string {
	return c.tag.String()
}

// SeriesLabel returns the label of a series key. Unknown settlement
// statuses are title-cased, so "PENDING_REVIEW" reads "Pending Review".
func (c *Catalog) SeriesLabel(key string) string {
	if l, ok := c.series[strings.ToUpper(key)]; ok {
		return l
	}
	words := strings.ReplaceAll(strings.ToLower(key), "_", " ")
	return cases.Title(c.tag).String(words)
}

// MonthLabel returns the short name of a month.
func (c *Catalog) MonthLabel(month time.Month) string {
	if month < time.January || month > time.December {
		return ""
	}
	if l := c.months[month-1]; l != "" {
		return l
	}
	return month.String()[:3]
}

// FormatAmount formats a major unit value in an ISO 4217 currency. Unknown
// currencies are printed as a plain decimal followed by the code.
func (c *Catalog) FormatAmount(value float64, code string) string {
	p := message.NewPrinter(c.tag)
	unit, err := currency.ParseISO(code)
	if err != nil {
		s := strconv.FormatFloat(value, 'f', 2, 64)
		if code == "" {
			return s
		}
		return s + " " + code
	}
	return p.Sprint(currency.Symbol(unit.Amount(value)))
}
