// Package hops defines the hop addition kinds shared by the bitterness and
// flavor models.
package hops

import (
	"fmt"
	"strings"
)

// Use is where in the process a hop is added.
type Use string

const (
	Mash      Use = "mash"
	FirstWort Use = "first_wort"
	Boil      Use = "boil"
	Whirlpool Use = "whirlpool"
	DryHop    Use = "dry_hop"
)

// ParseUse accepts canonical names and the common spellings seen in
// recipe files ("first-wort", "FWH", "dry hop", "aroma").
func ParseUse(value string) (Use, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	v = strings.NewReplacer("-", "_", " ", "_").Replace(v)
	switch v {
	case "mash":
		return Mash, nil
	case "first_wort", "fwh":
		return FirstWort, nil
	case "boil", "":
		return Boil, nil
	case "whirlpool", "hop_stand", "hopstand", "aroma":
		return Whirlpool, nil
	case "dry_hop", "dryhop":
		return DryHop, nil
	default:
		return Use(value), fmt.Errorf("invalid hop use %q (expected mash, first_wort, boil, whirlpool, or dry_hop)", value)
	}
}
