package directive

// Kind enumerates the built-in directives.
type Kind uint8

const (
	KindModel Kind = iota // v-model
	KindOn                // v-on:<event>
	KindText              // {{ }} interpolation
	KindHTML              // v-html
	KindBind              // v-bind:<attr>

	kindCount
)

// Kinds returns every built-in kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// String returns the directive name as written in templates.
func (k Kind) String() string {
	switch k {
	case KindModel:
		return "model"
	case KindOn:
		return "on"
	case KindText:
		return "text"
	case KindHTML:
		return "html"
	case KindBind:
		return "bind"
	default:
		return "unknown"
	}
}

// ParseKind maps a directive name to its built-in kind.
func ParseKind(name string) (Kind, bool) {
	for k := Kind(0); k < kindCount; k++ {
		if k.String() == name {
			return k, true
		}
	}
	return 0, false
}
