package content

import (
	"strings"
	"unicode"
)

// IconHandle names an icon the portal frontends know how to draw.
type IconHandle string

// DefaultIcon is drawn for unknown icon names.
const DefaultIcon IconHandle = "circle"

var knownIcons = map[IconHandle]struct{}{
	"banknote": {}, "bed": {}, "bus": {}, "camera": {}, "circle": {}, "cloud-sun": {},
	"coffee": {}, "compass": {}, "facebook": {}, "gift": {}, "globe": {}, "heart": {},
	"home": {}, "info": {}, "instagram": {}, "mail": {}, "map": {}, "map-pin": {},
	"music": {}, "phone": {}, "plane": {}, "shopping-bag": {}, "sparkles": {}, "star": {},
	"tag": {}, "ticket": {}, "twitter": {}, "utensils": {}, "wifi": {}, "youtube": {},
}

// IsAssetRef reports whether an icon field holds an uploaded image path
// rather than an icon name.
func IsAssetRef(name string) bool {
	return strings.HasPrefix(name, "/") || strings.Contains(name, ".")
}

// ResolveIcon maps a stored icon name ("MapPin", "map-pin", "mapPin") to a
// known handle. ok is false and DefaultIcon is returned for unknown names.
func ResolveIcon(name string) (IconHandle, bool) {
	h := IconHandle(kebab(strings.TrimSpace(name)))
	if _, ok := knownIcons[h]; ok {
		return h, true
	}
	return DefaultIcon, false
}

func kebab(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == '_' || r == ' ':
			b.WriteByte('-')
		case unicode.IsUpper(r):
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
