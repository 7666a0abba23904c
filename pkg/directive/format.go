package directive

import (
	"encoding/json"
	"fmt"

	"github.com/vango-dev/vbind/pkg/reactive"
)

// Format converts a store value to the string a view facet displays. nil
// becomes the empty string and wrapped objects become compact JSON.
func Format(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case *reactive.Object:
		data, err := json.Marshal(val.Raw())
		if err != nil {
			return fmt.Sprint(val.Raw())
		}
		return string(data)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
