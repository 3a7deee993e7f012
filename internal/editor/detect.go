package editor

import (
	"fmt"
	"strings"

	"github.com/captiveportal/portal-cms/internal/content"
)

// Conflict is one section that differs between the server and the editor.
type Conflict struct {
	Section string `json:"section"`
	Label   string `json:"label"`
	Summary string `json:"summary,omitempty"`
}

func (c Conflict) String() string {
	if c.Summary == "" {
		return c.Label
	}
	return fmt.Sprintf("%s (%s)", c.Label, c.Summary)
}

// Report is the result of comparing the server document against the
// editor's working copy.
type Report struct {
	// Window is true when someone saved after the editor's baseline.
	Window         bool       `json:"window"`
	ServerModified int64      `json:"serverModified"`
	Baseline       int64      `json:"baseline"`
	Conflicts      []Conflict `json:"conflicts,omitempty"`
}

// String renders the report the way the overwrite prompt shows it.
func (r Report) String() string {
	if !r.Window {
		return ""
	}
	var b strings.Builder
	b.WriteString("Another user has made changes since you loaded this content.")
	if len(r.Conflicts) > 0 {
		b.WriteString("\nThe following sections have conflicts:")
		for _, c := range r.Conflicts {
			b.WriteString("\n• ")
			b.WriteString(c.String())
		}
	}
	return b.String()
}

var checkedSections = []struct {
	field string
	label string
}{
	{content.FieldHeroVideos, "Hero Videos"},
	{content.FieldHeroBanners, "Hero Banners"},
	{content.FieldChips, "Chips"},
	{content.FieldBlockSets, "Block Sets"},
	{content.FieldEditorsPicks, "Editor's Picks"},
	{content.FieldFooter, "Footer"},
}

// Detect reports whether server moved past lastServerUpdate and, if so, which
// checked sections differ from working. Outside a conflict window the report
// is empty even when sections differ.
func Detect(server, working *content.Document, lastServerUpdate int64) Report {
	r := Report{Baseline: lastServerUpdate}
	if server == nil {
		return r
	}
	r.ServerModified = server.LastModified
	if server.LastModified <= lastServerUpdate {
		return r
	}
	r.Window = true
	for _, s := range checkedSections {
		if content.FieldEqual(server, working, s.field) {
			continue
		}
		c := Conflict{Section: s.field, Label: s.label}
		if n := content.FieldLen(server, s.field); n >= 0 {
			c.Summary = fmt.Sprintf("%d on server vs %d in editor", n, content.FieldLen(working, s.field))
		}
		r.Conflicts = append(r.Conflicts, c)
	}
	return r
}
