package cast

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Format renders a cast value back into the textual form the default casters
// accept, so that For(t)(Format(v)) reproduces v.
func Format(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case time.Duration:
		return v.String()
	case []any:
		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = Format(e)
		}
		return strings.Join(parts, ",")
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			s := Format(v[k])
			if strings.ContainsAny(s, `,="\`) {
				s = `"` + quoteEscaper.Replace(s) + `"`
			}
			parts[i] = k + "=" + s
		}
		return strings.Join(parts, ",")
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(v)
}
