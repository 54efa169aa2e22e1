package formats

import (
	"fmt"
	"strings"
	"unicode"

	"surface/internal/engine/parser"
)

// unityBaseTypes are the engine base classes whose subclasses receive
// lifecycle callbacks by name. Only types derived from one of these get a
// lifecycle section; a plain class with an Update method is just a class.
var unityBaseTypes = map[string]bool{
	"MonoBehaviour":    true,
	"NetworkBehaviour": true,
	"ScriptableObject": true,
	"Editor":           true,
	"EditorWindow":     true,
}

var lifecycleCallbacks = map[string]bool{
	"Awake": true, "Start": true, "Update": true, "FixedUpdate": true, "LateUpdate": true,
	"OnEnable": true, "OnDisable": true, "OnDestroy": true, "OnGUI": true,
	"OnTriggerEnter": true, "OnTriggerExit": true, "OnTriggerStay": true,
	"OnTriggerEnter2D": true, "OnTriggerExit2D": true, "OnTriggerStay2D": true,
	"OnCollisionEnter": true, "OnCollisionExit": true, "OnCollisionStay": true,
	"OnCollisionEnter2D": true, "OnCollisionExit2D": true, "OnCollisionStay2D": true,
	"OnMouseDown": true, "OnMouseUp": true, "OnMouseEnter": true, "OnMouseExit": true,
	"OnMouseOver": true, "OnMouseDrag": true,
	"OnBecameVisible": true, "OnBecameInvisible": true,
	"OnApplicationPause": true, "OnApplicationQuit": true, "OnApplicationFocus": true,
	"OnDrawGizmos": true, "OnDrawGizmosSelected": true,
	"OnValidate": true, "Reset": true,
	"OnAnimatorMove": true, "OnAnimatorIK": true,
	"OnRenderObject": true, "OnWillRenderObject": true, "OnPreRender": true, "OnPostRender": true,
	"OnRenderImage": true,
}

// IsLifecycleCallback reports whether name is a known engine callback.
func IsLifecycleCallback(name string) bool {
	return lifecycleCallbacks[name]
}

// IsEngineDerived reports whether any base name (generic arguments
// stripped) is one of the engine base classes.
func IsEngineDerived(bases []string) bool {
	for _, base := range bases {
		name := base
		if i := strings.IndexByte(name, '<'); i >= 0 {
			name = name[:i]
		}
		if unityBaseTypes[strings.TrimSpace(name)] {
			return true
		}
	}
	return false
}

func formatParam(p parser.Param) string {
	s := p.Type + " " + p.Name
	if p.Default != "" {
		s += " = " + p.Default
	}
	return s
}

func formatParams(params []parser.Param) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, formatParam(p))
	}
	return strings.Join(parts, ", ")
}

func backtickJoin(items []string) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, "`"+item+"`")
	}
	return strings.Join(parts, ", ")
}

func sanitizeID(name string) string {
	if name == "" {
		return "n"
	}
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteRune('_')
	}
	out := b.String()
	if out == "" {
		return "n"
	}
	if unicode.IsDigit(rune(out[0])) {
		return "n_" + out
	}
	return out
}

func makeIDs(names []string) map[string]string {
	ids := make(map[string]string, len(names))
	used := make(map[string]int, len(names))
	for _, name := range names {
		base := sanitizeID(name)
		idx := used[base]
		used[base] = idx + 1
		if idx == 0 {
			ids[name] = base
			continue
		}
		ids[name] = fmt.Sprintf("%s_%d", base, idx+1)
	}
	return ids
}

func toIDs(names []string, ids map[string]string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if id, ok := ids[name]; ok {
			out = append(out, id)
		}
	}
	return out
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func joinInts(v []int) string {
	parts := make([]string, 0, len(v))
	for _, n := range v {
		parts = append(parts, fmt.Sprintf("%d", n))
	}
	return strings.Join(parts, ",")
}

func nonEmpty(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
