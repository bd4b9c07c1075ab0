package settings

import "time"

// DefaultTimezone is the company timezone used until an override is stored.
const DefaultTimezone = "America/Denver"

// Settings is the single company-wide configuration record. Every civil date
// shown to or entered by a user is interpreted in Timezone, regardless of the
// zone the server process runs in.
type Settings struct {
	Timezone     string
	WeekFirstDay time.Weekday
}
