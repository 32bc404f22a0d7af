package widget

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"beforeafter/dom"
	"beforeafter/models"
)

// SliderConfig is what the slider plugin is constructed with
type SliderConfig struct {
	BeforeLabel       string             `json:"beforeLabel"`
	AfterLabel        string             `json:"afterLabel"`
	OffsetPct         float64            `json:"defaultOffsetPct"`
	Orientation       models.Orientation `json:"orientation"`
	NoOverlay         bool               `json:"noOverlay"`
	MoveOnHover       bool               `json:"moveSliderOnHover"`
	ClickToMove       bool               `json:"clickToMove"`
	HandleAnimation   int                `json:"handleAnimation"`
	HandleBorderColor string             `json:"handleBorderColor,omitempty"`
}

// ConfigFromState builds the plugin configuration from the applied element
// mirror and the derived display flags.
func ConfigFromState(state models.ElementState, flags models.DisplayFlags) SliderConfig {
	return SliderConfig{
		BeforeLabel:       state.BeforeLabelText,
		AfterLabel:        state.AfterLabelText,
		OffsetPct:         state.OffsetFraction(),
		Orientation:       models.Orientation(state.SliderOrientation).Normalized(),
		NoOverlay:         flags.NoOverlay,
		MoveOnHover:       flags.MoveOnHover,
		ClickToMove:       state.MoveOnClick(),
		HandleAnimation:   state.HandleAnimation(),
		HandleBorderColor: state.SliderHandleBorderColor,
	}
}

// Pulsing reports whether the handle carries a pulse indicator
func (c SliderConfig) Pulsing() bool {
	return c.HandleAnimation == models.HandleAnimationPulse
}

// Slider is a constructed plugin instance
type Slider struct {
	Config  SliderConfig `json:"config"`
	Pulsing bool         `json:"pulsing"`
}

// Artifacts is the desired DOM the plugin injects around and inside the container
type Artifacts struct {
	Wrapper dom.NodeDesc
	Overlay *dom.NodeDesc
	Handle  dom.NodeDesc
}

// RenderArtifacts is a pure function of the configuration
func RenderArtifacts(cfg SliderConfig) Artifacts {
	orientation := cfg.Orientation.Normalized()

	wrapper := dom.NodeDesc{
		Tag:     "div",
		Classes: []string{ClassWrapper, "twentytwenty-" + string(orientation)},
		Attrs: map[string]string{
			"data-orientation":          string(orientation),
			"data-default-offset-pct":   formatFloat(cfg.OffsetPct),
			"data-no-overlay":           strconv.FormatBool(cfg.NoOverlay),
			"data-move-slider-on-hover": strconv.FormatBool(cfg.MoveOnHover),
			"data-click-to-move":        strconv.FormatBool(cfg.ClickToMove),
		},
	}

	var overlay *dom.NodeDesc
	if !cfg.NoOverlay {
		overlay = &dom.NodeDesc{
			Tag:     "div",
			Classes: []string{ClassOverlay},
			Children: []dom.NodeDesc{
				{Tag: "div", Classes: []string{ClassBeforeLabel}, Attrs: map[string]string{"data-content": cfg.BeforeLabel}},
				{Tag: "div", Classes: []string{ClassAfterLabel}, Attrs: map[string]string{"data-content": cfg.AfterLabel}},
			},
		}
	}

	beforeArrow, afterArrow := "left", "right"
	position := "left"
	if orientation == models.Vertical {
		beforeArrow, afterArrow = "down", "up"
		position = "top"
	}
	style := []string{fmt.Sprintf("%s: %s%%", position, formatFloat(math.Round(cfg.OffsetPct*10000)/100))}
	if cfg.HandleBorderColor != "" {
		style = append(style, "border-color: "+cfg.HandleBorderColor)
	}

	var handleChildren []dom.NodeDesc
	if cfg.Pulsing() {
		handleChildren = append(handleChildren, dom.NodeDesc{Tag: "span", Classes: []string{ClassPulser}})
	}
	handleChildren = append(handleChildren,
		dom.NodeDesc{Tag: "span", Classes: []string{"twentytwenty-" + beforeArrow + "-arrow"}},
		dom.NodeDesc{Tag: "span", Classes: []string{"twentytwenty-" + afterArrow + "-arrow"}},
	)

	handle := dom.NodeDesc{
		Tag:      "div",
		Classes:  []string{ClassHandle},
		Attrs:    map[string]string{"style": strings.Join(style, "; ")},
		Children: handleChildren,
	}

	return Artifacts{Wrapper: wrapper, Overlay: overlay, Handle: handle}
}

// ReinitializeSlider reconciles the plugin artifacts in doc with cfg. Every
// artifact of a previous configuration that does not match is removed,
// duplicates included, and missing ones are inserted. The returned patches
// describe the changes in order; reapplying the same config yields none.
func ReinitializeSlider(doc *dom.Document, ids models.ElementIDs, cfg SliderConfig) (*Slider, []dom.Patch, error) {
	container := doc.GetElementByID(ids.Container())
	if container == nil {
		return nil, nil, fmt.Errorf("%w: #%s", ErrContainerNotFound, ids.Container())
	}

	want := RenderArtifacts(cfg)
	var patches []dom.Patch

	patches = append(patches, reconcileWrapper(container, want.Wrapper)...)

	if container.AddClass(ClassContainer) {
		patches = append(patches, modifyPatch(container))
	}
	if before := doc.GetElementByID(ids.BeforeImage()); before != nil && before.AddClass(ClassBefore) {
		patches = append(patches, modifyPatch(before))
	}
	if after := doc.GetElementByID(ids.AfterImage()); after != nil && after.AddClass(ClassAfter) {
		patches = append(patches, modifyPatch(after))
	}

	handle, handlePatches := reconcileKeyed(doc, container, ClassHandle, &want.Handle, nil)
	patches = append(patches, handlePatches...)
	_, overlayPatches := reconcileKeyed(doc, container, ClassOverlay, want.Overlay, handle)
	patches = append(patches, overlayPatches...)

	patches = append(patches, removeStrays(doc, container)...)

	return &Slider{Config: cfg, Pulsing: cfg.Pulsing()}, patches, nil
}

// reconcileWrapper leaves exactly one wrapper around the container, matching want
func reconcileWrapper(container *dom.Element, want dom.NodeDesc) []dom.Patch {
	var patches []dom.Patch

	var wrappers []*dom.Element
	for p := container.Parent; p != nil && p.HasClass(ClassWrapper); p = p.Parent {
		wrappers = append(wrappers, p)
	}

	if len(wrappers) == 0 {
		wrapper := dom.Build(want)
		container.Wrap(wrapper)
		return append(patches, dom.Patch{Op: dom.OpWrap, Target: dom.Selector(container), HTML: openTag(wrapper)})
	}

	// Nested wrappers come from initializing without unwrapping; keep the innermost.
	for i := 1; i < len(wrappers); i++ {
		patches = append(patches, dom.Patch{Op: dom.OpUnwrap, Target: dom.Selector(wrappers[0])})
		wrappers[0].Unwrap()
	}

	if wrappers[0].SyncOwn(want) {
		patches = append(patches, modifyPatch(wrappers[0]))
	}
	return patches
}

// reconcileKeyed keeps at most one element of class under container, equal to
// want. Anything else carrying the class is removed. A missing element is
// inserted before ref, or appended when ref is nil.
func reconcileKeyed(doc *dom.Document, container *dom.Element, class string, want *dom.NodeDesc, ref *dom.Element) (*dom.Element, []dom.Patch) {
	var patches []dom.Patch
	var keep *dom.Element

	current := doc.GetElementsByClass(class)
	if want != nil {
		for _, el := range current {
			if el.Parent == container && dom.Describe(el).Equal(*want) {
				keep = el
				break
			}
		}
	}
	for _, el := range current {
		if el == keep {
			continue
		}
		patches = append(patches, dom.RemovePatch(el))
		el.Remove()
	}

	if want != nil && keep == nil {
		keep = dom.Build(*want)
		if ref != nil && ref.Parent == container {
			container.InsertBefore(keep, ref)
			patches = append(patches, dom.Patch{Op: dom.OpInsert, Target: dom.Selector(ref), Position: "before", HTML: dom.RenderString(keep)})
		} else {
			container.Append(keep)
			patches = append(patches, dom.InsertPatch(container, keep, "append"))
		}
	}
	return keep, patches
}

// removeStrays drops labels, pulsers and arrows that are not inside the
// container's overlay or handle.
func removeStrays(doc *dom.Document, container *dom.Element) []dom.Patch {
	var patches []dom.Patch
	classes := append([]string{ClassBeforeLabel, ClassAfterLabel, ClassPulser}, arrowClasses...)
	for _, class := range classes {
		for _, el := range doc.GetElementsByClass(class) {
			p := el.Parent
			if p != nil && p.Parent == container && (p.HasClass(ClassOverlay) || p.HasClass(ClassHandle)) {
				continue
			}
			patches = append(patches, dom.RemovePatch(el))
			el.Remove()
		}
	}
	return patches
}

func modifyPatch(e *dom.Element) dom.Patch {
	d := dom.Describe(e)
	attrs := map[string]string{"class": strings.Join(d.Classes, " ")}
	for k, v := range d.Attrs {
		attrs[k] = v
	}
	return dom.Patch{Op: dom.OpModify, Target: dom.Selector(e), Attrs: attrs}
}

// openTag renders an empty wrapper element
func openTag(e *dom.Element) string {
	clone := dom.Build(dom.Describe(e).Shallow())
	return dom.RenderString(clone)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
