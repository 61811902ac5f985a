package booking

import (
	"fmt"
	"strconv"
	"strings"
)

// OwnerStylistPrefix marks the pseudo id used when the salon owner
// personally performs the service.
const OwnerStylistPrefix = "owner-"

// ParseOwnerStylistID splits a raw stylist reference into either a real
// staff id or an owner pseudo id. For "owner-<id>" the returned id is the
// claimed tenant id and isOwner is true.
func ParseOwnerStylistID(raw string) (id uint, isOwner bool, err error) {
	if strings.HasPrefix(raw, OwnerStylistPrefix) {
		claimed := strings.TrimPrefix(raw, OwnerStylistPrefix)
		parsed, err := strconv.ParseUint(claimed, 10, 64)
		if err != nil {
			return 0, false, fmt.Errorf("invalid owner id %q", raw)
		}
		return uint(parsed), true, nil
	}

	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid stylist id %q", raw)
	}
	return uint(parsed), false, nil
}
