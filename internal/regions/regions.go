// Package regions is the fixed directory of the 24 Tunisian governorates the
// service monitors.
package regions

import (
	"github.com/bobby-s-dev/weather-vigilance/internal/i18n"
)

// Region is one governorate with its representative coordinates.
type Region struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	NameAr    string  `json:"name_ar"`
	NameEn    string  `json:"name_en"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LocalName returns the display name for the locale.
func (r Region) LocalName(locale i18n.Locale) string {
	switch locale {
	case i18n.Arabic:
		return r.NameAr
	case i18n.English:
		return r.NameEn
	default:
		return r.Name
	}
}

var governorates = []Region{
	{"tunis", "Tunis", "تونس", "Tunis", 36.8065, 10.1815},
	{"ariana", "Ariana", "أريانة", "Ariana", 36.8663, 10.1647},
	{"ben-arous", "Ben Arous", "بن عروس", "Ben Arous", 36.7533, 10.2283},
	{"manouba", "Manouba", "منوبة", "Manouba", 36.8101, 9.8614},
	{"nabeul", "Nabeul", "نابل", "Nabeul", 36.4513, 10.7357},
	{"zaghouan", "Zaghouan", "زغوان", "Zaghouan", 36.4028, 10.1428},
	{"bizerte", "Bizerte", "بنزرت", "Bizerte", 37.2744, 9.8739},
	{"beja", "Béja", "باجة", "Beja", 36.7256, 9.1817},
	{"jendouba", "Jendouba", "جندوبة", "Jendouba", 36.5011, 8.7803},
	{"kef", "Le Kef", "الكاف", "Kef", 36.1743, 8.7049},
	{"siliana", "Siliana", "سليانة", "Siliana", 36.0849, 9.3708},
	{"sousse", "Sousse", "سوسة", "Sousse", 35.8254, 10.6360},
	{"monastir", "Monastir", "المنستير", "Monastir", 35.7643, 10.8113},
	{"mahdia", "Mahdia", "المهدية", "Mahdia", 35.5047, 11.0622},
	{"sfax", "Sfax", "صفاقس", "Sfax", 34.7406, 10.7603},
	{"kairouan", "Kairouan", "القيروان", "Kairouan", 35.6781, 10.0963},
	{"kasserine", "Kasserine", "القصرين", "Kasserine", 35.1676, 8.8304},
	{"sidi-bouzid", "Sidi Bouzid", "سيدي بوزيد", "Sidi Bouzid", 35.0354, 9.4839},
	{"gabes", "Gabès", "قابس", "Gabes", 33.8815, 10.0982},
	{"medenine", "Médenine", "مدنين", "Medenine", 33.3399, 10.5055},
	{"tataouine", "Tataouine", "تطاوين", "Tataouine", 32.9297, 10.4518},
	{"gafsa", "Gafsa", "قفصة", "Gafsa", 34.4311, 8.7757},
	{"tozeur", "Tozeur", "توزر", "Tozeur", 33.9197, 8.1339},
	{"kebili", "Kébili", "قبلي", "Kebili", 33.7044, 8.9650},
}

// Directory is an immutable, ordered set of regions.
type Directory struct {
	ordered []Region
	byID    map[string]Region
}

var defaultDirectory = New(governorates)

// Default returns the directory of the 24 governorates.
func Default() *Directory {
	return defaultDirectory
}

// New builds a directory preserving the order of list. Later duplicates are
// ignored.
func New(list []Region) *Directory {
	d := &Directory{
		ordered: make([]Region, 0, len(list)),
		byID:    make(map[string]Region, len(list)),
	}
	for _, r := range list {
		if _, dup := d.byID[r.ID]; dup {
			continue
		}
		d.ordered = append(d.ordered, r)
		d.byID[r.ID] = r
	}
	return d
}

// All returns the regions in canonical order.
func (d *Directory) All() []Region {
	out := make([]Region, len(d.ordered))
	copy(out, d.ordered)
	return out
}

// IDs returns region ids in canonical order.
func (d *Directory) IDs() []string {
	ids := make([]string, len(d.ordered))
	for i, r := range d.ordered {
		ids[i] = r.ID
	}
	return ids
}

func (d *Directory) Get(id string) (Region, bool) {
	r, ok := d.byID[id]
	return r, ok
}

func (d *Directory) Len() int {
	return len(d.ordered)
}

// RegionName resolves the localized display name of a region.
func (d *Directory) RegionName(id string, locale i18n.Locale) (string, bool) {
	r, ok := d.byID[id]
	if !ok {
		return "", false
	}
	return r.LocalName(locale), true
}

// Name is RegionName with the id as fallback.
func (d *Directory) Name(id string, locale i18n.Locale) string {
	if name, ok := d.RegionName(id, locale); ok {
		return name
	}
	return id
}
