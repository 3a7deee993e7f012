package content

// Document is the single persisted portal aggregate. Every save replaces it
// whole; sections are never patched individually.
type Document struct {
	Global            *Global            `json:"global,omitempty" bson:"global,omitempty"`
	HeroVideos        []HeroVideo        `json:"heroVideos" bson:"heroVideos"`
	HeroBanners       []HeroBanner       `json:"heroBanners" bson:"heroBanners"`
	BlockSets         []BlockSet         `json:"blockSets" bson:"blockSets"`
	Chips             []Chip             `json:"chips" bson:"chips"`
	ChipsStyles       *ChipsStyles       `json:"chipsStyles,omitempty" bson:"chipsStyles,omitempty"`
	Footer            *Footer            `json:"footer,omitempty" bson:"footer,omitempty"`
	Layout            *Layout            `json:"layout,omitempty" bson:"layout,omitempty"`
	RecommendedOffers *RecommendedOffers `json:"recommendedOffers,omitempty" bson:"recommendedOffers,omitempty"`
	Utilities         *Utilities         `json:"utilities,omitempty" bson:"utilities,omitempty"`
	EditorsPicks      []EditorsPick      `json:"editorsPicks" bson:"editorsPicks"`
	Discovery         *Discovery         `json:"discovery,omitempty" bson:"discovery,omitempty"`
	QuickFun          *QuickFun          `json:"quickFun" bson:"quickFun"`
	Sections          *Sections          `json:"sections,omitempty" bson:"sections,omitempty"`

	// LastModified is the write timestamp in epoch millis and the only
	// concurrency token.
	LastModified int64 `json:"_lastModified,omitempty" bson:"_lastModified,omitempty"`
}

type Global struct {
	BackgroundColor string `json:"backgroundColor" bson:"backgroundColor"`
	PrimaryColor    string `json:"primaryColor" bson:"primaryColor"`
	SecondaryColor  string `json:"secondaryColor" bson:"secondaryColor"`
}

type HeroVideo struct {
	ID                string `json:"id" bson:"id"`
	VideoFile         string `json:"videoFile" bson:"videoFile"`
	Thumbnail         string `json:"thumbnail" bson:"thumbnail"`
	TitleBosnian      string `json:"titleBosnian" bson:"titleBosnian"`
	TitleEnglish      string `json:"titleEnglish" bson:"titleEnglish"`
	SubtitleBosnian   string `json:"subtitleBosnian,omitempty" bson:"subtitleBosnian,omitempty"`
	SubtitleEnglish   string `json:"subtitleEnglish,omitempty" bson:"subtitleEnglish,omitempty"`
	ButtonTextBosnian string `json:"buttonTextBosnian" bson:"buttonTextBosnian"`
	ButtonTextEnglish string `json:"buttonTextEnglish" bson:"buttonTextEnglish"`
	ButtonLink        string `json:"buttonLink" bson:"buttonLink"`
	TitleColor        string `json:"titleColor" bson:"titleColor"`
	SubtitleBg        string `json:"subtitleBg,omitempty" bson:"subtitleBg,omitempty"`
	SubtitleColor     string `json:"subtitleColor,omitempty" bson:"subtitleColor,omitempty"`
	ButtonBackground  string `json:"buttonBackground" bson:"buttonBackground"`
	ButtonTextColor   string `json:"buttonTextColor" bson:"buttonTextColor"`
}

type HeroBanner struct {
	ID                string `json:"id" bson:"id"`
	ImageFile         string `json:"imageFile" bson:"imageFile"`
	TitleBosnian      string `json:"titleBosnian" bson:"titleBosnian"`
	TitleEnglish      string `json:"titleEnglish" bson:"titleEnglish"`
	SubtitleBosnian   string `json:"subtitleBosnian" bson:"subtitleBosnian"`
	SubtitleEnglish   string `json:"subtitleEnglish" bson:"subtitleEnglish"`
	ButtonTextBosnian string `json:"buttonTextBosnian" bson:"buttonTextBosnian"`
	ButtonTextEnglish string `json:"buttonTextEnglish" bson:"buttonTextEnglish"`
	ButtonLink        string `json:"buttonLink" bson:"buttonLink"`
	TitleColor        string `json:"titleColor" bson:"titleColor"`
	SubtitleColor     string `json:"subtitleColor" bson:"subtitleColor"`
	ButtonBackground  string `json:"buttonBackground" bson:"buttonBackground"`
	ButtonTextColor   string `json:"buttonTextColor" bson:"buttonTextColor"`
}

type BlockItem struct {
	ID          string `json:"id" bson:"id"`
	ImageFile   string `json:"imageFile" bson:"imageFile"`
	Title       string `json:"title" bson:"title"`
	Description string `json:"description" bson:"description"`
	ButtonText  string `json:"buttonText" bson:"buttonText"`
	ButtonLink  string `json:"buttonLink" bson:"buttonLink"`
}

type BlockSetStyling struct {
	BlockBackground  string `json:"blockBackground" bson:"blockBackground"`
	TitleColor       string `json:"titleColor" bson:"titleColor"`
	DescriptionColor string `json:"descriptionColor" bson:"descriptionColor"`
	ButtonBackground string `json:"buttonBackground" bson:"buttonBackground"`
	ButtonTextColor  string `json:"buttonTextColor" bson:"buttonTextColor"`
}

type BlockSet struct {
	ID      string          `json:"id" bson:"id"`
	Blocks  []BlockItem     `json:"blocks" bson:"blocks"`
	Styling BlockSetStyling `json:"styling" bson:"styling"`
}

type Chip struct {
	ID          string `json:"id" bson:"id"`
	NameBosnian string `json:"nameBosnian" bson:"nameBosnian"`
	NameEnglish string `json:"nameEnglish" bson:"nameEnglish"`
	// Icon is either a known icon name or an asset path.
	Icon string `json:"icon" bson:"icon"`
	Link string `json:"link" bson:"link"`
}

type ChipsStyles struct {
	ChipBackground       string `json:"chipBackground" bson:"chipBackground"`
	ChipTextColor        string `json:"chipTextColor" bson:"chipTextColor"`
	ChipActiveBackground string `json:"chipActiveBackground" bson:"chipActiveBackground"`
	ChipActiveTextColor  string `json:"chipActiveTextColor" bson:"chipActiveTextColor"`
}

type FooterIcon struct {
	ID   string `json:"id" bson:"id"`
	Name string `json:"name" bson:"name"`
	URL  string `json:"url" bson:"url"`
	Icon string `json:"icon" bson:"icon"`
}

type FooterStyling struct {
	FooterBackground string `json:"footerBackground" bson:"footerBackground"`
	IconColor        string `json:"iconColor" bson:"iconColor"`
	TextColor        string `json:"textColor" bson:"textColor"`
}

type Footer struct {
	Icons   []FooterIcon  `json:"icons" bson:"icons"`
	Styling FooterStyling `json:"styling" bson:"styling"`
}

type Layout struct {
	Style         string `json:"style,omitempty" bson:"style,omitempty"` // masonry | grid
	MobileColumns int    `json:"mobileColumns,omitempty" bson:"mobileColumns,omitempty"`
}

type Offer struct {
	Title    string `json:"title" bson:"title"`
	Subtitle string `json:"subtitle" bson:"subtitle"`
	Distance string `json:"distance" bson:"distance"`
}

type RecommendedOffers struct {
	Header map[Language]string  `json:"header" bson:"header"`
	Badge  map[Language]string  `json:"badge" bson:"badge"`
	Offers map[Language][]Offer `json:"offers" bson:"offers"`
}

type Utilities struct {
	City             string   `json:"city" bson:"city"`
	Lat              float64  `json:"lat" bson:"lat"`
	Lon              float64  `json:"lon" bson:"lon"`
	BaseCurrency     string   `json:"baseCurrency" bson:"baseCurrency"`
	TargetCurrencies []string `json:"targetCurrencies" bson:"targetCurrencies"`
	Timezone         string   `json:"timezone,omitempty" bson:"timezone,omitempty"`
}

type EditorsPick struct {
	ID            string `json:"id" bson:"id"`
	TitleBosnian  string `json:"titleBosnian" bson:"titleBosnian"`
	TitleEnglish  string `json:"titleEnglish" bson:"titleEnglish"`
	TeaserBosnian string `json:"teaserBosnian,omitempty" bson:"teaserBosnian,omitempty"`
	TeaserEnglish string `json:"teaserEnglish,omitempty" bson:"teaserEnglish,omitempty"`
	ImageFile     string `json:"imageFile" bson:"imageFile"`
	Link          string `json:"link" bson:"link"`
}

type DiscoveryPlace struct {
	ID              string `json:"id" bson:"id"`
	NameBosnian     string `json:"nameBosnian" bson:"nameBosnian"`
	NameEnglish     string `json:"nameEnglish" bson:"nameEnglish"`
	CategoryBosnian string `json:"categoryBosnian,omitempty" bson:"categoryBosnian,omitempty"`
	CategoryEnglish string `json:"categoryEnglish,omitempty" bson:"categoryEnglish,omitempty"`
	ImageFile       string `json:"imageFile" bson:"imageFile"`
	Link            string `json:"link" bson:"link"`
}

type Discovery struct {
	Places []DiscoveryPlace `json:"places" bson:"places"`
}

type QuickFun struct {
	TitleBosnian    string `json:"titleBosnian,omitempty" bson:"titleBosnian,omitempty"`
	TitleEnglish    string `json:"titleEnglish,omitempty" bson:"titleEnglish,omitempty"`
	SubtitleBosnian string `json:"subtitleBosnian,omitempty" bson:"subtitleBosnian,omitempty"`
	SubtitleEnglish string `json:"subtitleEnglish,omitempty" bson:"subtitleEnglish,omitempty"`
	ImageFile       string `json:"imageFile" bson:"imageFile"`
	Link            string `json:"link" bson:"link"`
}

// SectionStyle overrides the header and spacing of one portal section.
type SectionStyle struct {
	TitleBosnian     string `json:"titleBosnian,omitempty" bson:"titleBosnian,omitempty"`
	TitleEnglish     string `json:"titleEnglish,omitempty" bson:"titleEnglish,omitempty"`
	SubtitleBosnian  string `json:"subtitleBosnian,omitempty" bson:"subtitleBosnian,omitempty"`
	SubtitleEnglish  string `json:"subtitleEnglish,omitempty" bson:"subtitleEnglish,omitempty"`
	Icon             string `json:"icon,omitempty" bson:"icon,omitempty"`
	ShowDivider      *bool  `json:"showDivider,omitempty" bson:"showDivider,omitempty"`
	SubtitleGradient string `json:"subtitleGradient,omitempty" bson:"subtitleGradient,omitempty"`
	TitleColor       string `json:"titleColor,omitempty" bson:"titleColor,omitempty"`
	SubtitleColor    string `json:"subtitleColor,omitempty" bson:"subtitleColor,omitempty"`
	SpacingTop       *int   `json:"spacingTop,omitempty" bson:"spacingTop,omitempty"`
	SpacingBottom    *int   `json:"spacingBottom,omitempty" bson:"spacingBottom,omitempty"`
}

// SectionKey is the closed set of sections that accept style overrides.
type SectionKey string

const (
	SectionChips        SectionKey = "chips"
	SectionCityUtility  SectionKey = "cityUtility"
	SectionDeals        SectionKey = "deals"
	SectionEditorsPicks SectionKey = "editorsPicks"
	SectionDiscovery    SectionKey = "discovery"
	SectionQuickFun     SectionKey = "quickFun"
)

// SectionKeys lists every SectionKey in display order.
var SectionKeys = []SectionKey{SectionChips, SectionCityUtility, SectionDeals, SectionEditorsPicks, SectionDiscovery, SectionQuickFun}

type Sections struct {
	Chips        *SectionStyle `json:"chips,omitempty" bson:"chips,omitempty"`
	CityUtility  *SectionStyle `json:"cityUtility,omitempty" bson:"cityUtility,omitempty"`
	Deals        *SectionStyle `json:"deals,omitempty" bson:"deals,omitempty"`
	EditorsPicks *SectionStyle `json:"editorsPicks,omitempty" bson:"editorsPicks,omitempty"`
	Discovery    *SectionStyle `json:"discovery,omitempty" bson:"discovery,omitempty"`
	QuickFun     *SectionStyle `json:"quickFun,omitempty" bson:"quickFun,omitempty"`
}

// Style returns the override for key, or nil when none is configured.
func (s *Sections) Style(key SectionKey) *SectionStyle {
	if s == nil {
		return nil
	}
	switch key {
	case SectionChips:
		return s.Chips
	case SectionCityUtility:
		return s.CityUtility
	case SectionDeals:
		return s.Deals
	case SectionEditorsPicks:
		return s.EditorsPicks
	case SectionDiscovery:
		return s.Discovery
	case SectionQuickFun:
		return s.QuickFun
	}
	return nil
}
