package oauth1

import (
	"fmt"
	"strings"
)

// ParseHeader splits an `OAuth k="v", ...` header back into decoded pairs.
func ParseHeader(h string) (map[string]string, error) {
	rest, ok := strings.CutPrefix(h, "OAuth ")
	if !ok {
		return nil, fmt.Errorf("oauth1: header lacks OAuth scheme")
	}

	out := make(map[string]string)
	for _, part := range strings.Split(rest, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, v, ok := strings.Cut(part, "=")
		if !ok || len(v) < 2 || v[0] != '"' || v[len(v)-1] != '"' {
			return nil, fmt.Errorf("oauth1: malformed header param %q", part)
		}
		key, err := Decode(k)
		if err != nil {
			return nil, err
		}
		val, err := Decode(v[1 : len(v)-1])
		if err != nil {
			return nil, err
		}
		out[key] = val
	}
	return out, nil
}
