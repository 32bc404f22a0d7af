package dom

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDoc() (*Document, *Element, *Element) {
	doc := NewDocument()
	root := NewElement("div", "widget")
	root.ID = "w1"
	container := NewElement("div", "twentytwenty-container")
	container.ID = "w1-twentytwenty"
	before := NewElement("img")
	before.ID = "w1-before-image"
	after := NewElement("img")
	after.ID = "w1-after-image"
	container.Append(before, after)
	root.Append(container)
	doc.Body.Append(root)
	return doc, root, container
}

func TestClassOperationsReportChanges(t *testing.T) {
	e := NewElement("div")

	assert.True(t, e.AddClass("dark"))
	assert.False(t, e.AddClass("dark"))
	assert.Equal(t, []string{"dark"}, e.Classes())

	assert.True(t, e.ToggleClass("dark", false))
	assert.False(t, e.ToggleClass("dark", false))
	assert.Empty(t, e.Classes())
}

func TestAttrRoutesDataAttributesToDataset(t *testing.T) {
	e := NewElement("div")
	e.SetAttr("data-before-label-text", "Before")
	e.SetAttr("alt", "x")
	e.SetAttr("class", "a b  a")

	assert.Equal(t, "Before", e.Data("beforeLabelText"))
	v, ok := e.Attr("data-before-label-text")
	assert.True(t, ok)
	assert.Equal(t, "Before", v)
	assert.Equal(t, []string{"a", "b"}, e.Classes())

	e.RemoveAttr("data-before-label-text")
	_, ok = e.Attr("data-before-label-text")
	assert.False(t, ok)
}

func TestDataKeyConversion(t *testing.T) {
	assert.Equal(t, "sliderOffsetFloat", DataKey("data-slider-offset-float"))
	assert.Equal(t, "data-slider-offset-float", DataAttrName("sliderOffsetFloat"))
	assert.Equal(t, "bsTitle", DataKey(DataAttrName("bsTitle")))
}

func TestWrapAndUnwrap(t *testing.T) {
	doc, root, container := sampleDoc()

	wrapper := NewElement("div", "twentytwenty-wrapper")
	container.Wrap(wrapper)
	require.Same(t, wrapper, container.Parent)
	require.Same(t, root, wrapper.Parent)
	assert.Len(t, root.Children, 1)

	assert.True(t, container.Unwrap())
	assert.Same(t, root, container.Parent)
	assert.Nil(t, wrapper.Parent)
	assert.Empty(t, doc.GetElementsByClass("twentytwenty-wrapper"))
}

func TestUnwrapKeepsSiblingOrder(t *testing.T) {
	_, root, container := sampleDoc()
	first := NewElement("span")
	last := NewElement("em")
	root.Prepend(first)
	root.Append(last)

	before := container.Children[0]
	require.True(t, before.Unwrap())

	tags := make([]string, 0, len(root.Children))
	for _, c := range root.Children {
		tags = append(tags, c.Tag)
	}
	assert.Equal(t, []string{"span", "img", "img", "em"}, tags)
}

func TestUnwrapWithoutGrandparent(t *testing.T) {
	e := NewElement("span")
	assert.False(t, e.Unwrap())

	p := NewElement("div")
	p.Append(e)
	assert.False(t, e.Unwrap())
}

func TestGetElementByIDAndContains(t *testing.T) {
	doc, _, _ := sampleDoc()

	before := doc.GetElementByID("w1-before-image")
	require.NotNil(t, before)
	assert.True(t, doc.Contains(before))
	assert.Nil(t, doc.GetElementByID("missing"))

	before.Remove()
	assert.False(t, doc.Contains(before))
}

func TestTooltipLifecycle(t *testing.T) {
	e := NewElement("h2")
	e.SetAttr("data-bs-title", "first")
	e.EnableTooltip()
	first := e.Tooltip()
	require.NotNil(t, first)
	assert.Equal(t, "first", first.Title)

	e.DisposeTooltip()
	assert.Nil(t, e.Tooltip())

	e.SetAttr("data-bs-title", "second")
	e.EnableTooltip()
	assert.NotSame(t, first, e.Tooltip())
	assert.Equal(t, "second", e.Tooltip().Title)
	assert.Contains(t, RenderString(e), `data-bs-toggle="tooltip"`)
}

func TestRenderAndParse(t *testing.T) {
	doc, root, container := sampleDoc()
	container.SetData("beforeLabelText", "Before & after")
	root.AddClass("dark")

	out := doc.String()
	assert.Contains(t, out, `id="w1-twentytwenty"`)
	assert.Contains(t, out, `data-before-label-text="Before &amp; after"`)
	assert.Contains(t, out, `class="widget dark"`)

	parsed, err := Parse(strings.NewReader(out))
	require.NoError(t, err)
	again := parsed.GetElementByID("w1-twentytwenty")
	require.NotNil(t, again)
	assert.Equal(t, "Before & after", again.Data("beforeLabelText"))
	assert.True(t, Describe(parsed.Body).Equal(Describe(doc.Body)))
}

func TestDescribeBuildRoundTrip(t *testing.T) {
	desc := NodeDesc{
		Tag:     "div",
		Classes: []string{"twentytwenty-overlay"},
		Children: []NodeDesc{
			{Tag: "div", Classes: []string{"twentytwenty-before-label"}, Attrs: map[string]string{"data-content": "Before"}},
		},
	}
	built := Build(desc)
	assert.True(t, Describe(built).Equal(desc))
	assert.Equal(t, "Before", built.Children[0].Data("content"))

	changed := desc
	changed.Children = []NodeDesc{{Tag: "div", Classes: []string{"twentytwenty-before-label"}, Attrs: map[string]string{"data-content": "Vorher"}}}
	assert.False(t, Describe(built).Equal(changed))
}

func TestSelector(t *testing.T) {
	_, _, container := sampleDoc()
	overlay := NewElement("div", "twentytwenty-overlay")
	container.Append(overlay)

	assert.Equal(t, "#w1-twentytwenty", Selector(container))
	assert.Equal(t, "#w1-twentytwenty > div.twentytwenty-overlay:nth-child(3)", Selector(overlay))
}
