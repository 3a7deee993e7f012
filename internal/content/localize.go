package content

import (
	"strings"

	"golang.org/x/text/language"
)

// Language is one of the two portal languages.
type Language string

const (
	LangBA Language = "BA"
	LangEN Language = "EN"
)

// ParseLanguage accepts "BA"/"EN" in any case; anything else yields ok=false.
func ParseLanguage(s string) (Language, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(LangBA):
		return LangBA, true
	case string(LangEN):
		return LangEN, true
	}
	return "", false
}

// DetectLanguage picks the portal language from an Accept-Language header:
// Bosnian, Croatian and Serbian map to BA, everything else to EN.
func DetectLanguage(acceptLanguage string) Language {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return LangEN
	}
	base, _ := tags[0].Base()
	switch base.String() {
	case "bs", "hr", "sr":
		return LangBA
	}
	return LangEN
}

// Localize returns the text for lang. An empty value falls back to the
// hard-coded copy, never to the other language.
func Localize(ba, en string, lang Language, fallback string) string {
	v := en
	if lang == LangBA {
		v = ba
	}
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

// Copy is a pair of hard-coded UI strings.
type Copy struct {
	BA string
	EN string
}

// In returns the copy for lang.
func (c Copy) In(lang Language) string {
	if lang == LangBA {
		return c.BA
	}
	return c.EN
}

// sectionCopy holds the built-in section headers shown when no override exists.
var sectionCopy = map[SectionKey]Copy{
	SectionChips:        {BA: "Istražite", EN: "Explore"},
	SectionCityUtility:  {BA: "Grad danas", EN: "City today"},
	SectionDeals:        {BA: "Ponude", EN: "Deals"},
	SectionEditorsPicks: {BA: "Izbor urednika", EN: "Editor's picks"},
	SectionDiscovery:    {BA: "Otkrijte", EN: "Discover"},
	SectionQuickFun:     {BA: "Brza zabava", EN: "Quick fun"},
}

// SectionTitle returns the built-in header for key.
func SectionTitle(key SectionKey) Copy {
	return sectionCopy[key]
}
