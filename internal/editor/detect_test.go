package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/captiveportal/portal-cms/internal/content"
)

func TestDetectNoWindow(t *testing.T) {
	server := content.Default()
	server.LastModified = 100
	working := content.Default()
	working.Chips = []content.Chip{{ID: "x"}}

	r := Detect(server, working, 100)
	assert.False(t, r.Window)
	assert.Empty(t, r.Conflicts, "differences outside a window are not conflicts")
	assert.Equal(t, "", r.String())
}

func TestDetectWindowWithoutDifferences(t *testing.T) {
	server := content.Default()
	server.LastModified = 200
	r := Detect(server, content.Default(), 100)
	assert.True(t, r.Window)
	assert.Empty(t, r.Conflicts)
	assert.Equal(t, int64(200), r.ServerModified)
}

func TestDetectReportsSectionsInOrder(t *testing.T) {
	server := content.Default()
	server.LastModified = 200
	server.HeroBanners = []content.HeroBanner{{ID: "b1"}, {ID: "b2"}, {ID: "b3"}}
	server.Chips = []content.Chip{{ID: "c1"}}
	server.Footer.Styling.IconColor = "red"

	working := content.Default()
	working.HeroBanners = []content.HeroBanner{{ID: "b1"}, {ID: "b2"}}
	working.Chips = []content.Chip{{ID: "c1"}}
	working.Utilities.City = "Mostar"

	r := Detect(server, working, 100)
	require.True(t, r.Window)
	require.Len(t, r.Conflicts, 2)
	assert.Equal(t, content.FieldHeroBanners, r.Conflicts[0].Section)
	assert.Equal(t, "3 on server vs 2 in editor", r.Conflicts[0].Summary)
	assert.Equal(t, content.FieldFooter, r.Conflicts[1].Section)
	assert.Empty(t, r.Conflicts[1].Summary)

	s := r.String()
	assert.Contains(t, s, "• Hero Banners (3 on server vs 2 in editor)")
	assert.Contains(t, s, "• Footer")
}

func TestDetectNilVersusEmptyIsNotAConflict(t *testing.T) {
	server := &content.Document{LastModified: 5}
	working := content.Default()
	r := Detect(server, working, 1)
	assert.True(t, r.Window)
	assert.Empty(t, r.Conflicts)
}

func TestHelpers(t *testing.T) {
	d := content.Default()
	id := AddChip(d, content.Chip{NameEnglish: "Food"})
	assert.NotEmpty(t, id)
	AddHeroBanner(d, content.HeroBanner{})
	AddHeroVideo(d, content.HeroVideo{})

	for i := 0; i < content.MaxFooterIcons; i++ {
		_, err := AddFooterIcon(d, content.FooterIcon{Name: "x"})
		require.NoError(t, err)
	}
	_, err := AddFooterIcon(d, content.FooterIcon{Name: "one too many"})
	require.ErrorIs(t, err, ErrFooterFull)
	assert.Len(t, d.Footer.Icons, content.MaxFooterIcons)

	chips, ok := RemoveByID(d.Chips, id, ChipID)
	assert.True(t, ok)
	assert.Empty(t, chips)
	_, ok = RemoveByID(d.HeroBanners, "missing", HeroBannerID)
	assert.False(t, ok)
}
