package extract

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/jsontree"
)

// Action labels as they appear in action descriptions.
const (
	LabelBookmark       = "Bookmark"
	LabelTooltip        = "Tooltip"
	LabelPageNavigation = "Page Navigation"
)

// actionButtonType is the visual type whose link actions are classified.
const actionButtonType = "actionButton"

// ActionSeparator joins action descriptions, column lists, and predicate lists
// into a single cell.
const ActionSeparator = "; "

// Action is one interactive behavior of a visual.
type Action struct {
	Label  string
	Target string
}

// String renders the action as "Label: Target", or the bare label when no
// target is known.
func (a Action) String() string {
	if a.Target == "" {
		return a.Label
	}

	return a.Label + ": " + a.Target
}

// FormatAction renders the description of an action with label and target id.
func FormatAction(label, id string) string {
	return Action{Label: label, Target: id}.String()
}

// Actions returns the deduplicated action descriptions of a visual: the
// legacy bookmark pointer, the legacy tooltip pointer, and, for action
// buttons only, the visual link actions.
func Actions(doc gjson.Result, visualType string) []string {
	var actions []string

	if id, ok := LegacyBookmark(doc); ok {
		actions = append(actions, FormatAction(LabelBookmark, id))
	}

	if text, ok := LegacyTooltip(doc); ok {
		actions = append(actions, FormatAction(LabelTooltip, text))
	}

	if jsontree.SameLabel(visualType, actionButtonType) {
		actions = append(actions, LinkActions(doc)...)
	}

	return Dedupe(actions)
}

// LegacyBookmark returns the literal of the first bookmark pointer in
// pre-order, with surrounding single quotes trimmed.
func LegacyBookmark(doc gjson.Result) (string, bool) {
	for node := range jsontree.Containers(doc) {
		if !jsontree.HasAny(node, "bookmark") {
			continue
		}

		value, _ := jsontree.Lookup(node, "bookmark", "expr", "Literal", "Value")
		if !jsontree.Truthy(value) {
			continue
		}

		if id := strings.Trim(jsontree.Text(value), "'"); id != "" {
			return id, true
		}
	}

	return "", false
}

// LegacyTooltip returns the first tooltip text found under a "visualTooltip"
// or "tooltip" key. A list holds tooltip page descriptors whose section is a
// literal, a plain value, or the item itself as a bare string; an object holds
// a literal or a plain value.
func LegacyTooltip(doc gjson.Result) (string, bool) {
	for node := range jsontree.Containers(doc) {
		for _, key := range []string{"visualTooltip", "tooltip"} {
			value, ok := jsontree.LookupAny(node, key)
			if !ok {
				continue
			}

			if text := tooltipText(value); text != "" {
				return text, true
			}
		}
	}

	return "", false
}

func tooltipText(value gjson.Result) string {
	switch {
	case value.IsArray():
		for _, item := range value.Array() {
			if section, ok := jsontree.Lookup(item, "properties", "section", "expr", "Literal", "Value"); ok && jsontree.Truthy(section) {
				return trimQuotes(section, "'")
			}

			if section, ok := jsontree.Lookup(item, "properties", "section", "value"); ok && jsontree.Truthy(section) {
				return trimQuotes(section, "'")
			}

			if item.Type == gjson.String && item.Str != "" {
				return strings.Trim(item.Str, "'")
			}
		}
	case value.IsObject():
		if literal, ok := jsontree.Lookup(value, "expr", "Literal", "Value"); ok && jsontree.Truthy(literal) {
			return trimQuotes(literal, "'")
		}

		if plain, ok := jsontree.LookupAny(value, "value"); ok && jsontree.Truthy(plain) {
			return trimQuotes(plain, "'")
		}
	}

	return ""
}

// LinkActions classifies every visualLink entry of an action button. A
// tooltip literal always yields a Tooltip action; the link type then adds a
// Page Navigation or Bookmark action with its target when one resolves.
func LinkActions(doc gjson.Result) []string {
	var actions []string

	for node := range jsontree.Containers(doc) {
		link, ok := jsontree.LookupAny(node, "visualLink")
		if !ok || !jsontree.Truthy(link) {
			continue
		}

		for _, item := range jsontree.Items(link) {
			props, _ := jsontree.LookupAny(item, "properties")
			if !jsontree.Truthy(props) {
				props = item
			}

			actions = append(actions, linkItemActions(props)...)
		}
	}

	return Dedupe(actions)
}

func linkItemActions(props gjson.Result) []string {
	var actions []string

	if tooltip := literalOrString(member(props, "tooltip")); tooltip != "" {
		actions = append(actions, FormatAction(LabelTooltip, tooltip))
	}

	linkType := literalOrString(member(props, "type"))

	switch {
	case jsontree.SameLabel(linkType, LabelPageNavigation):
		target := literalOrString(member(props, "navigationSection"))
		actions = append(actions, FormatAction(LabelPageNavigation, target))
	case jsontree.SameLabel(linkType, LabelBookmark):
		target := literalOrString(member(props, "bookmark"))
		actions = append(actions, FormatAction(LabelBookmark, target))
	}

	return actions
}

// literalOrString reads a value from expr.Literal.Value, Literal.Value, a
// scalar Value member, or the node itself when it is a scalar. Surrounding
// quotes are trimmed.
func literalOrString(node gjson.Result) string {
	switch {
	case node.IsObject():
		if value, ok := jsontree.Lookup(node, "expr", "Literal", "Value"); ok {
			return trimQuotes(value, `'"`)
		}

		if value, ok := jsontree.Lookup(node, "Literal", "Value"); ok {
			return trimQuotes(value, `'"`)
		}

		if value, ok := jsontree.LookupAny(node, "Value"); ok && jsontree.IsScalar(value) {
			return trimQuotes(value, `'"`)
		}
	case jsontree.IsScalar(node):
		return trimQuotes(node, `'"`)
	}

	return ""
}

// ParseActions splits an action description string back into its actions.
// Entries without a "Label: Target" shape are skipped.
func ParseActions(description string) []Action {
	var actions []Action

	for part := range strings.SplitSeq(description, ";") {
		label, target, found := strings.Cut(strings.TrimSpace(part), ":")
		if !found {
			continue
		}

		actions = append(actions, Action{
			Label:  strings.TrimSpace(label),
			Target: strings.TrimSpace(target),
		})
	}

	return actions
}

func member(node gjson.Result, key string) gjson.Result {
	value, _ := jsontree.LookupAny(node, key)

	return value
}

func trimQuotes(node gjson.Result, cutset string) string {
	return strings.Trim(jsontree.Text(node), cutset)
}
