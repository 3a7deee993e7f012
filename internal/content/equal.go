package content

import (
	"reflect"

	"github.com/goccy/go-json"
)

// Clone returns a deep copy of d.
func Clone(d *Document) *Document {
	if d == nil {
		return nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		// Document holds only JSON-native values.
		panic("content: clone: " + err.Error())
	}
	var out Document
	if err := json.Unmarshal(b, &out); err != nil {
		panic("content: clone: " + err.Error())
	}
	return &out
}

// Equal reports whether a and b hold the same content. LastModified is
// ignored and absent arrays compare equal to empty ones.
func Equal(a, b *Document) bool {
	if a == nil || b == nil {
		return a == b
	}
	x, y := Normalize(Clone(a)), Normalize(Clone(b))
	x.LastModified, y.LastModified = 0, 0
	return reflect.DeepEqual(x, y)
}

// Top-level field names compared before an editor overwrites the server document.
const (
	FieldHeroVideos   = "heroVideos"
	FieldHeroBanners  = "heroBanners"
	FieldChips        = "chips"
	FieldBlockSets    = "blockSets"
	FieldEditorsPicks = "editorsPicks"
	FieldFooter       = "footer"
)

// FieldLen returns the element count of an array section, or -1 for
// record sections and unknown names.
func FieldLen(d *Document, name string) int {
	if d == nil {
		return 0
	}
	switch name {
	case FieldHeroVideos:
		return len(d.HeroVideos)
	case FieldHeroBanners:
		return len(d.HeroBanners)
	case FieldChips:
		return len(d.Chips)
	case FieldBlockSets:
		return len(d.BlockSets)
	case FieldEditorsPicks:
		return len(d.EditorsPicks)
	}
	return -1
}

// FieldEqual compares one top-level section of two documents.
func FieldEqual(a, b *Document, name string) bool {
	x, y := Normalize(Clone(a)), Normalize(Clone(b))
	if x == nil || y == nil {
		return x == y
	}
	switch name {
	case FieldHeroVideos:
		return reflect.DeepEqual(x.HeroVideos, y.HeroVideos)
	case FieldHeroBanners:
		return reflect.DeepEqual(x.HeroBanners, y.HeroBanners)
	case FieldChips:
		return reflect.DeepEqual(x.Chips, y.Chips)
	case FieldBlockSets:
		return reflect.DeepEqual(x.BlockSets, y.BlockSets)
	case FieldEditorsPicks:
		return reflect.DeepEqual(x.EditorsPicks, y.EditorsPicks)
	case FieldFooter:
		return reflect.DeepEqual(x.Footer, y.Footer)
	}
	return true
}
