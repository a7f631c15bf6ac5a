package pill

import (
	"strings"

	"github.com/samber/lo"
)

// UnknownIdentity is the sentinel label for a matched frame whose beacon
// uuid is not in the fixed table. Measurements for it are still published,
// uncalibrated.
const UnknownIdentity = "unknown"

// Fixed beacon uuids for the Tilt colours plus the RAPT Pill's own beacon.
// Multiple devices of the same colour cannot be told apart.
var identities = map[string]string{
	"a495bb10-c5b1-4b44-b512-1370f02d74de": "Red",
	"a495bb20-c5b1-4b44-b512-1370f02d74de": "Green",
	"a495bb30-c5b1-4b44-b512-1370f02d74de": "Black",
	"a495bb40-c5b1-4b44-b512-1370f02d74de": "Purple",
	"a495bb50-c5b1-4b44-b512-1370f02d74de": "Orange",
	"a495bb60-c5b1-4b44-b512-1370f02d74de": "Blue",
	"a495bb70-c5b1-4b44-b512-1370f02d74de": "Yellow",
	"a495bb80-c5b1-4b44-b512-1370f02d74de": "Pink",
	"020001c0-1cf3-4090-d644-781eff3a2cfe": "RAPT Yellow",
}

// ResolveIdentity maps the advertised service uuids to a known device label,
// or UnknownIdentity when none match.
func ResolveIdentity(serviceUUIDs []string) string {
	for _, uuid := range serviceUUIDs {
		if label, exists := identities[strings.ToLower(uuid)]; exists {
			return label
		}
	}
	return UnknownIdentity
}

// KnownBeaconUUIDs returns every beacon uuid the scanner should probe for.
func KnownBeaconUUIDs() []string {
	return lo.Keys(identities)
}

// KnownIdentities returns every device label that can be resolved.
func KnownIdentities() []string {
	return lo.Values(identities)
}
