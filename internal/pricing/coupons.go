package pricing

import "strings"

// percentOffByCode is the supported coupon table. Codes are single use per
// account; redemption tracking lives with the caller.
var percentOffByCode = map[string]int64{
	"WELCOME20": 20,
}

// LookupCoupon returns the percent-off for a code, case-insensitively.
func LookupCoupon(code string) (int64, bool) {
	pct, ok := percentOffByCode[strings.ToUpper(strings.TrimSpace(code))]
	return pct, ok
}
