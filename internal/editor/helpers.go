package editor

import (
	"errors"

	"github.com/captiveportal/portal-cms/internal/content"
)

// ErrFooterFull is returned when the footer already holds the maximum number of icons.
var ErrFooterFull = errors.New("footer already has the maximum number of icons")

// AddChip appends c with a fresh id and returns the id.
func AddChip(d *content.Document, c content.Chip) string {
	c.ID = content.NewID()
	d.Chips = append(d.Chips, c)
	return c.ID
}

// AddHeroBanner appends b with a fresh id and returns the id.
func AddHeroBanner(d *content.Document, b content.HeroBanner) string {
	b.ID = content.NewID()
	d.HeroBanners = append(d.HeroBanners, b)
	return b.ID
}

// AddHeroVideo appends v with a fresh id and returns the id.
func AddHeroVideo(d *content.Document, v content.HeroVideo) string {
	v.ID = content.NewID()
	d.HeroVideos = append(d.HeroVideos, v)
	return v.ID
}

// AddFooterIcon appends icon unless the footer is full.
func AddFooterIcon(d *content.Document, icon content.FooterIcon) (string, error) {
	if d.Footer == nil {
		d.Footer = &content.Footer{Icons: []content.FooterIcon{}, Styling: content.DefaultFooterStyling()}
	}
	if len(d.Footer.Icons) >= content.MaxFooterIcons {
		return "", ErrFooterFull
	}
	icon.ID = content.NewID()
	d.Footer.Icons = append(d.Footer.Icons, icon)
	return icon.ID, nil
}

// RemoveByID returns items without the element whose id matches, and whether
// one was removed.
func RemoveByID[T any](items []T, id string, idOf func(T) string) ([]T, bool) {
	for i := range items {
		if idOf(items[i]) == id {
			out := make([]T, 0, len(items)-1)
			out = append(out, items[:i]...)
			return append(out, items[i+1:]...), true
		}
	}
	return items, false
}

func ChipID(c content.Chip) string             { return c.ID }
func HeroBannerID(b content.HeroBanner) string { return b.ID }
func HeroVideoID(v content.HeroVideo) string   { return v.ID }
func FooterIconID(f content.FooterIcon) string { return f.ID }
