package quote

import (
	"strconv"
	"strings"
)

type pinRange struct{ lo, hi int }

// Origins the carrier baseline picks up from.
var serviceablePins = []pinRange{
	{110001, 110099},
	{122001, 122018},
	{400001, 400104},
	{560001, 560107},
	{600001, 600130},
}

// Serviceable reports whether the carrier baseline covers an origin PIN.
func Serviceable(pin string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(pin))
	if err != nil {
		return false
	}
	for _, r := range serviceablePins {
		if n >= r.lo && n <= r.hi {
			return true
		}
	}
	return false
}
