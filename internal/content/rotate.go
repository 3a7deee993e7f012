package content

// Picker chooses an index in [0, n). *math/rand.Rand satisfies it.
type Picker interface {
	Intn(n int) int
}

// SectionHeader is a resolved section header for one language.
type SectionHeader struct {
	Title       string     `json:"title"`
	Subtitle    string     `json:"subtitle,omitempty"`
	Icon        IconHandle `json:"icon,omitempty"`
	ShowDivider bool       `json:"showDivider"`
}

// ResolvedChip is a chip with its label and icon resolved for display.
type ResolvedChip struct {
	ID    string     `json:"id"`
	Label string     `json:"label"`
	Icon  IconHandle `json:"icon,omitempty"`
	Image string     `json:"image,omitempty"`
	Link  string     `json:"link"`
}

// PortalView is what the public portal renders for one page load: one
// rotation candidate per rotating section plus the static sections.
type PortalView struct {
	Language     Language                     `json:"language"`
	Global       *Global                      `json:"global"`
	Video        *HeroVideo                   `json:"selectedVideo,omitempty"`
	Banner       *HeroBanner                  `json:"selectedBanner,omitempty"`
	BlockSet     *BlockSet                    `json:"selectedBlockSet,omitempty"`
	Chips        []ResolvedChip               `json:"chips"`
	ChipsStyles  *ChipsStyles                 `json:"chipsStyles,omitempty"`
	Footer       *Footer                      `json:"footer"`
	Utilities    *Utilities                   `json:"utilities"`
	EditorsPicks []EditorsPick                `json:"editorsPicks"`
	Places       []DiscoveryPlace             `json:"places"`
	QuickFun     *QuickFun                    `json:"quickFun,omitempty"`
	Headers      map[SectionKey]SectionHeader `json:"headers"`
	LastModified int64                        `json:"_lastModified,omitempty"`
}

// Rotate builds the public view of d for lang. Each call picks a fresh hero
// video, hero banner and block set; the choice is never persisted.
func Rotate(d *Document, lang Language, p Picker) *PortalView {
	d = Normalize(Clone(d))
	v := &PortalView{
		Language:     lang,
		Global:       d.Global,
		ChipsStyles:  d.ChipsStyles,
		Footer:       d.Footer,
		Utilities:    d.Utilities,
		EditorsPicks: d.EditorsPicks,
		Places:       d.Discovery.Places,
		QuickFun:     d.QuickFun,
		Headers:      make(map[SectionKey]SectionHeader, len(SectionKeys)),
		LastModified: d.LastModified,
	}
	if n := len(d.HeroVideos); n > 0 {
		v.Video = &d.HeroVideos[p.Intn(n)]
	}
	if n := len(d.HeroBanners); n > 0 {
		v.Banner = &d.HeroBanners[p.Intn(n)]
	}
	if n := len(d.BlockSets); n > 0 {
		v.BlockSet = &d.BlockSets[p.Intn(n)]
	}

	v.Chips = make([]ResolvedChip, 0, len(d.Chips))
	for _, c := range d.Chips {
		rc := ResolvedChip{ID: c.ID, Link: c.Link, Label: Localize(c.NameBosnian, c.NameEnglish, lang, "")}
		if IsAssetRef(c.Icon) {
			rc.Image = c.Icon
		} else if c.Icon != "" {
			rc.Icon, _ = ResolveIcon(c.Icon)
		}
		v.Chips = append(v.Chips, rc)
	}

	for _, key := range SectionKeys {
		v.Headers[key] = header(d.Sections.Style(key), key, lang)
	}
	return v
}

func header(s *SectionStyle, key SectionKey, lang Language) SectionHeader {
	h := SectionHeader{Title: SectionTitle(key).In(lang), ShowDivider: true}
	if s == nil {
		return h
	}
	h.Title = Localize(s.TitleBosnian, s.TitleEnglish, lang, h.Title)
	h.Subtitle = Localize(s.SubtitleBosnian, s.SubtitleEnglish, lang, "")
	if s.Icon != "" {
		h.Icon, _ = ResolveIcon(s.Icon)
	}
	if s.ShowDivider != nil {
		h.ShowDivider = *s.ShowDivider
	}
	return h
}
