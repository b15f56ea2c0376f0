package fieldtype

import (
	"sort"
	"strings"
)

// Kind tags one supported field type. The set is closed: validator and codec
// dispatch is an exhaustive switch, not an extension point.
type Kind string

const (
	Text        Kind = "text"
	Textarea    Kind = "textarea"
	Number      Kind = "number"
	Date        Kind = "date"
	Select      Kind = "select"
	MultiSelect Kind = "multiselect"
	Tags        Kind = "tags"
	Switch      Kind = "switch"
	File        Kind = "file"
)

// Delimiter joins the elements of multi-value kinds in flat storage.
// Validation rejects any element containing it rather than corrupting the row.
const Delimiter = "\x1f"

// DateLayout is the only accepted calendar-date form (ISO 8601).
const DateLayout = "2006-01-02"

type kindSpec struct {
	kind       Kind
	selectLike bool
	multiValue bool
}

var kindSpecs = []kindSpec{
	{kind: Text},
	{kind: Textarea},
	{kind: Number},
	{kind: Date},
	{kind: Select, selectLike: true},
	{kind: MultiSelect, selectLike: true, multiValue: true},
	{kind: Tags, multiValue: true},
	{kind: Switch},
	{kind: File},
}

var kindSpecByKind = func() map[Kind]kindSpec {
	out := make(map[Kind]kindSpec, len(kindSpecs))
	for _, s := range kindSpecs {
		out[s.kind] = s
	}
	return out
}()

func Parse(raw string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := kindSpecByKind[k]
	return k, ok
}

func IsValid(k Kind) bool {
	_, ok := kindSpecByKind[k]
	return ok
}

// IsSelectLike reports whether the kind draws its legal values from the
// field's option list.
func IsSelectLike(k Kind) bool {
	return kindSpecByKind[k].selectLike
}

// IsMultiValue reports whether the canonical value is a string sequence.
func IsMultiValue(k Kind) bool {
	return kindSpecByKind[k].multiValue
}

func List() []Kind {
	out := make([]Kind, 0, len(kindSpecs))
	for _, s := range kindSpecs {
		out = append(out, s.kind)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
