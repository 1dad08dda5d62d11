package lint

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/language"

	"github.com/sevigo/text-warden/internal/core"
)

// RegionAuto selects the region from the user's preferred locales.
const RegionAuto = "auto"

var (
	ErrUnsupportedLocale = errors.New("locale does not support linting")
	ErrUnknownRegion     = errors.New("unknown linting region")
)

type localeRegions struct {
	defaultRegion string
	regions       map[string]core.Dialect
}

// lintLocales maps a language base to the regions the linter knows for it.
var lintLocales = map[string]localeRegions{
	"en": {
		defaultRegion: RegionAuto,
		regions: map[string]core.Dialect{
			RegionAuto: core.DialectAmerican,
			"US":       core.DialectAmerican,
			"GB":       core.DialectBritish,
			"AU":       core.DialectAustralian,
			"CA":       core.DialectCanadian,
			"IN":       core.DialectIndian,
		},
	},
}

// NormalizeLocale turns POSIX style locale names such as "en_GB.UTF-8" into
// BCP 47 tags such as "en-GB".
func NormalizeLocale(locale string) string {
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	return strings.ReplaceAll(strings.TrimSpace(locale), "_", "-")
}

func lookupLocale(locale string) (localeRegions, bool) {
	tag, err := language.Parse(NormalizeLocale(locale))
	if err != nil {
		return localeRegions{}, false
	}
	base, _ := tag.Base()
	cfg, ok := lintLocales[base.String()]
	return cfg, ok
}

// SupportsLinting reports whether the linter has a dialect for locale.
func SupportsLinting(locale string) bool {
	_, ok := lookupLocale(locale)
	return ok
}

// Regions lists the region ids available for locale, RegionAuto first.
func Regions(locale string) ([]string, error) {
	cfg, ok := lookupLocale(locale)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLocale, locale)
	}

	regions := make([]string, 0, len(cfg.regions))
	for id := range cfg.regions {
		if id != RegionAuto {
			regions = append(regions, id)
		}
	}
	slices.Sort(regions)
	return append([]string{RegionAuto}, regions...), nil
}

// BestMatchingRegion returns the first explicit region of the preferred
// locales that locale supports, or the locale's default region.
func BestMatchingRegion(locale string, preferred []string) string {
	cfg, ok := lookupLocale(locale)
	if !ok {
		return ""
	}

	for _, p := range preferred {
		tag, err := language.Parse(NormalizeLocale(p))
		if err != nil {
			continue
		}
		region, conf := tag.Region()
		if conf != language.Exact {
			continue
		}
		if _, ok := cfg.regions[region.String()]; ok {
			return region.String()
		}
	}
	return cfg.defaultRegion
}

// ResolveDialect maps a locale and region id to the dialect used by the
// engine. RegionAuto is resolved through BestMatchingRegion.
func ResolveDialect(locale, region string, preferred []string) (core.Dialect, error) {
	cfg, ok := lookupLocale(locale)
	if !ok {
		return core.DialectAmerican, fmt.Errorf("%w: %s", ErrUnsupportedLocale, locale)
	}

	if region == "" || strings.EqualFold(region, RegionAuto) {
		region = BestMatchingRegion(locale, preferred)
	}
	if region != RegionAuto {
		region = strings.ToUpper(region)
	}
	dialect, ok := cfg.regions[region]
	if !ok {
		return core.DialectAmerican, fmt.Errorf("%w: %s", ErrUnknownRegion, region)
	}
	return dialect, nil
}
