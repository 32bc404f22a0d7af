package dom

// Op is the kind of change a Patch records
type Op string

const (
	OpInsert Op = "insert"
	OpRemove Op = "remove"
	OpModify Op = "modify"
	OpUnwrap Op = "unwrap" // remove the target's parent, keeping its children
	OpWrap   Op = "wrap"   // wrap the target in HTML
)

// Patch is one structural change applied to a document. Patches are
// serializable so the live preview can replay them.
type Patch struct {
	Op       Op                `json:"op"`
	Target   string            `json:"target"`
	Position string            `json:"position,omitempty"` // "prepend" or "append" for inserts
	HTML     string            `json:"html,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
}

// Batch groups the patches produced by one host event
type Batch struct {
	ID       string  `json:"id"`
	WidgetID string  `json:"widgetId"`
	Seq      uint64  `json:"seq"`
	Patches  []Patch `json:"patches"`
}

// InsertPatch records the insertion of child under parent
func InsertPatch(parent, child *Element, position string) Patch {
	return Patch{Op: OpInsert, Target: Selector(parent), Position: position, HTML: RenderString(child)}
}

// RemovePatch records the removal of e; call it before detaching e
func RemovePatch(e *Element) Patch {
	return Patch{Op: OpRemove, Target: Selector(e)}
}
