package content

// MaxFooterIcons caps the footer icon row. Only editing tools enforce it;
// the server stores whatever it is given.
const MaxFooterIcons = 4

func defaultGlobal() *Global {
	return &Global{
		BackgroundColor: "rgba(255, 255, 255, 1)",
		PrimaryColor:    "rgba(0, 123, 255, 1)",
		SecondaryColor:  "rgba(108, 117, 125, 1)",
	}
}

// DefaultFooterStyling is applied when a document has no footer record.
func DefaultFooterStyling() FooterStyling {
	return FooterStyling{
		FooterBackground: "rgba(33, 37, 41, 1)",
		IconColor:        "rgba(255, 255, 255, 1)",
		TextColor:        "rgba(255, 255, 255, 1)",
	}
}

// DefaultUtilities is the city widget configuration used until an admin saves one.
func DefaultUtilities() *Utilities {
	return &Utilities{
		City:             "Sarajevo",
		Lat:              43.8563,
		Lon:              18.4131,
		BaseCurrency:     "EUR",
		TargetCurrencies: []string{"BAM", "USD"},
	}
}

// Default returns the documented empty document served when nothing has been
// persisted yet.
func Default() *Document {
	d := &Document{}
	Normalize(d)
	return d
}

// Normalize fills absent sections with their empty-default shape in place.
// It applies shape defaults only and never rejects or rewrites present values.
func Normalize(d *Document) *Document {
	if d == nil {
		return nil
	}
	if d.Global == nil {
		d.Global = defaultGlobal()
	}
	if d.HeroVideos == nil {
		d.HeroVideos = []HeroVideo{}
	}
	if d.HeroBanners == nil {
		d.HeroBanners = []HeroBanner{}
	}
	if d.BlockSets == nil {
		d.BlockSets = []BlockSet{}
	}
	for i := range d.BlockSets {
		if d.BlockSets[i].Blocks == nil {
			d.BlockSets[i].Blocks = []BlockItem{}
		}
	}
	if d.Chips == nil {
		d.Chips = []Chip{}
	}
	if d.Footer == nil {
		d.Footer = &Footer{Styling: DefaultFooterStyling()}
	}
	if d.Footer.Icons == nil {
		d.Footer.Icons = []FooterIcon{}
	}
	if d.Utilities == nil {
		d.Utilities = DefaultUtilities()
	}
	if d.Utilities.TargetCurrencies == nil {
		d.Utilities.TargetCurrencies = []string{}
	}
	if d.EditorsPicks == nil {
		d.EditorsPicks = []EditorsPick{}
	}
	if d.Discovery == nil {
		d.Discovery = &Discovery{}
	}
	if d.Discovery.Places == nil {
		d.Discovery.Places = []DiscoveryPlace{}
	}
	if d.Sections == nil {
		d.Sections = &Sections{}
	}
	return d
}
