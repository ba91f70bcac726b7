package models

import "fmt"

// Minutes is the booking time offset the user picks: the reservation is
// placed that many minutes from "now".
type Minutes int

const (
	InFiveMinutes   Minutes = 5
	InTenMinutes    Minutes = 10
	InTwentyMinutes Minutes = 20
	InThirtyMinutes Minutes = 30
)

// AllMinutes lists the selectable offsets in display order.
var AllMinutes = []Minutes{InFiveMinutes, InTenMinutes, InTwentyMinutes, InThirtyMinutes}

// Name returns the display label.
func (m Minutes) Name() string {
	return fmt.Sprintf("En %d min.", int(m))
}
