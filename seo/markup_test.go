package seo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransformHeadings_H2(t *testing.T) {
	in := "H2: Section One\nplain text\nH2: Section Two"
	got := TransformHeadings(in, SelectLevels(DefaultLevels, "H2"))

	want := `<h2 style="color:red;">Section One</h2>` + "\nplain text\n" + `<h2 style="color:red;">Section Two</h2>`
	assert.Equal(t, want, got)
}

func TestTransformHeadings_LevelsIndependent(t *testing.T) {
	in := "H1: Top\nH2: Middle\nH3: Bottom\nbody"

	onlyH3 := TransformHeadings(in, SelectLevels(DefaultLevels, "H3"))
	assert.Equal(t, "H1: Top\nH2: Middle\n<h3>Bottom</h3>\nbody", onlyH3)

	all := TransformHeadings(in, DefaultLevels)
	assert.Equal(t,
		`<h1 style="color:black; font-weight:bold;">Top</h1>`+"\n"+`<h2 style="color:red;">Middle</h2>`+"\n<h3>Bottom</h3>\nbody",
		all)
}

func TestTransformHeadings_Idempotent(t *testing.T) {
	in := "intro\nH2: One\ntext\n  H2: Two  \nH3: Three"
	once := TransformHeadings(in, DefaultLevels)
	twice := TransformHeadings(once, DefaultLevels)
	assert.Equal(t, once, twice)
}

func TestTransformHeadings_UntouchedLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"prefix mid line", "see H2: not a heading"},
		{"empty heading", "H2:"},
		{"unknown level", "H4: Deep"},
		{"lowercase", "h2: lower"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.in, TransformHeadings(tt.in, DefaultLevels))
		})
	}
}

func TestTransformHeadings_EscapesText(t *testing.T) {
	got := TransformHeadings("H3: Tips & <tricks>", DefaultLevels)
	assert.Equal(t, "<h3>Tips &amp; &lt;tricks&gt;</h3>", got)
}

func TestTransformHeadings_CustomLevel(t *testing.T) {
	levels := []Level{{Name: "H4", Tag: "h4", Style: "color:blue;"}}
	got := TransformHeadings("H4: Deep\nH2: Skip", levels)
	assert.Equal(t, `<h4 style="color:blue;">Deep</h4>`+"\nH2: Skip", got)
}

func TestLevel_RenderDefaultsTag(t *testing.T) {
	assert.Equal(t, "<h5>x</h5>", Level{Name: "H5"}.Render(" x "))
}

func TestFindLevel(t *testing.T) {
	l, ok := FindLevel(DefaultLevels, "H1")
	assert.True(t, ok)
	assert.Equal(t, "h1", l.Tag)

	_, ok = FindLevel(DefaultLevels, "H9")
	assert.False(t, ok)
}
