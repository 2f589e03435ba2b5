package schedule

// Zone is a timezone that receives a morning digest.
type Zone struct {
	Name string
	// LegacyUTCSpec is the fixed UTC trigger once used for this zone. It only
	// matches 6 AM local outside daylight saving time and is kept for reference.
	LegacyUTCSpec string
}

var KnownTimezones = []Zone{
	{Name: "America/New_York", LegacyUTCSpec: "0 11 * * *"},
	{Name: "America/Chicago", LegacyUTCSpec: "0 12 * * *"},
	{Name: "America/Denver", LegacyUTCSpec: "0 13 * * *"},
	{Name: "America/Los_Angeles", LegacyUTCSpec: "0 14 * * *"},
	{Name: "America/Anchorage", LegacyUTCSpec: "0 15 * * *"},
	{Name: "Pacific/Honolulu", LegacyUTCSpec: "0 16 * * *"},
	{Name: "Europe/London", LegacyUTCSpec: "0 6 * * *"},
	{Name: "Europe/Paris", LegacyUTCSpec: "0 5 * * *"},
	{Name: "Europe/Berlin", LegacyUTCSpec: "0 5 * * *"},
	{Name: "Asia/Kolkata", LegacyUTCSpec: "30 0 * * *"},
	{Name: "Asia/Tokyo", LegacyUTCSpec: "0 21 * * *"},
	{Name: "Australia/Sydney", LegacyUTCSpec: "0 20 * * *"},
}

func IsKnownTimezone(name string) bool {
	for _, z := range KnownTimezones {
		if z.Name == name {
			return true
		}
	}
	return false
}

// ZoneSpec prefixes a local-time cron expression with the zone it is evaluated in.
func ZoneSpec(zone, spec string) string {
	return "CRON_TZ=" + zone + " " + spec
}
