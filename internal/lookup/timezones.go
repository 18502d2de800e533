package lookup

// timezoneToCountry maps IANA zone identifiers (plus a handful of legacy
// abbreviations seen in Pipedrive person records) to a country name. UTC maps
// to "Unknown" on purpose: it carries no location signal.
var timezoneToCountry = map[string]string{
	// North America
	"America/New_York":     "USA",
	"America/Chicago":      "USA",
	"America/Denver":       "USA",
	"America/Los_Angeles":  "USA",
	"America/Phoenix":      "USA",
	"America/Anchorage":    "USA",
	"America/Honolulu":     "USA",
	"America/Detroit":      "USA",
	"America/Indianapolis": "USA",
	"America/Toronto":      "Canada",
	"America/Vancouver":    "Canada",
	"America/Edmonton":     "Canada",
	"America/Winnipeg":     "Canada",
	"America/Halifax":      "Canada",
	"America/Montreal":     "Canada",

	// Mexico & Central America
	"America/Mexico_City": "Mexico",
	"America/Cancun":      "Mexico",
	"America/Tijuana":     "Mexico",
	"America/Mazatlan":    "Mexico",
	"America/Guatemala":   "Guatemala",
	"America/Costa_Rica":  "Costa Rica",
	"America/Panama":      "Panama",
	"America/El_Salvador": "El Salvador",
	"America/Managua":     "Nicaragua",
	"America/Tegucigalpa": "Honduras",

	// South America
	"America/Bogota":                 "Colombia",
	"America/Lima":                   "Peru",
	"America/Santiago":               "Chile",
	"America/Buenos_Aires":           "Argentina",
	"America/Argentina/Buenos_Aires": "Argentina",
	"America/Sao_Paulo":              "Brazil",
	"America/Caracas":                "Venezuela",
	"America/Guayaquil":              "Ecuador",
	"America/La_Paz":                 "Bolivia",
	"America/Asuncion":               "Paraguay",
	"America/Montevideo":             "Uruguay",

	// Caribbean
	"America/Santo_Domingo":  "Dominican Republic",
	"America/Jamaica":        "Jamaica",
	"America/Puerto_Rico":    "Puerto Rico",
	"America/Havana":         "Cuba",
	"America/Port-au-Prince": "Haiti",

	// UK & Ireland
	"Europe/London": "UK",
	"Europe/Dublin": "Ireland",

	// Western Europe
	"Europe/Paris":      "France",
	"Europe/Berlin":     "Germany",
	"Europe/Amsterdam":  "Netherlands",
	"Europe/Brussels":   "Belgium",
	"Europe/Zurich":     "Switzerland",
	"Europe/Vienna":     "Austria",
	"Europe/Madrid":     "Spain",
	"Europe/Rome":       "Italy",
	"Europe/Lisbon":     "Portugal",
	"Europe/Luxembourg": "Luxembourg",
	"Europe/Monaco":     "Monaco",

	// Nordic
	"Europe/Copenhagen":  "Denmark",
	"Europe/Stockholm":   "Sweden",
	"Europe/Oslo":        "Norway",
	"Europe/Helsinki":    "Finland",
	"Atlantic/Reykjavik": "Iceland",

	// Eastern Europe
	"Europe/Warsaw":     "Poland",
	"Europe/Prague":     "Czech Republic",
	"Europe/Budapest":   "Hungary",
	"Europe/Bucharest":  "Romania",
	"Europe/Sofia":      "Bulgaria",
	"Europe/Zagreb":     "Croatia",
	"Europe/Ljubljana":  "Slovenia",
	"Europe/Bratislava": "Slovakia",
	"Europe/Tallinn":    "Estonia",
	"Europe/Riga":       "Latvia",
	"Europe/Vilnius":    "Lithuania",
	"Europe/Belgrade":   "Serbia",
	"Europe/Kiev":       "Ukraine",
	"Europe/Kyiv":       "Ukraine",
	"Europe/Moscow":     "Russia",
	"Europe/Athens":     "Greece",

	// Middle East
	"Asia/Dubai":      "UAE",
	"Asia/Riyadh":     "Saudi Arabia",
	"Asia/Qatar":      "Qatar",
	"Asia/Jerusalem":  "Israel",
	"Asia/Tel_Aviv":   "Israel",
	"Asia/Amman":      "Jordan",
	"Asia/Bahrain":    "Bahrain",
	"Asia/Kuwait":     "Kuwait",
	"Asia/Muscat":     "Oman",
	"Asia/Beirut":     "Lebanon",
	"Europe/Istanbul": "Turkey",

	// Asia Pacific
	"Asia/Tokyo":        "Japan",
	"Asia/Seoul":        "South Korea",
	"Asia/Hong_Kong":    "Hong Kong",
	"Asia/Taipei":       "Taiwan",
	"Asia/Singapore":    "Singapore",
	"Asia/Kuala_Lumpur": "Malaysia",
	"Asia/Bangkok":      "Thailand",
	"Asia/Jakarta":      "Indonesia",
	"Asia/Manila":       "Philippines",
	"Asia/Ho_Chi_Minh":  "Vietnam",
	"Asia/Saigon":       "Vietnam",

	// South Asia
	"Asia/Kolkata":   "India",
	"Asia/Calcutta":  "India",
	"Asia/Mumbai":    "India",
	"Asia/Karachi":   "Pakistan",
	"Asia/Dhaka":     "Bangladesh",
	"Asia/Colombo":   "Sri Lanka",
	"Asia/Kathmandu": "Nepal",

	// China
	"Asia/Shanghai":  "China",
	"Asia/Beijing":   "China",
	"Asia/Chongqing": "China",

	// Oceania
	"Australia/Sydney":    "Australia",
	"Australia/Melbourne": "Australia",
	"Australia/Brisbane":  "Australia",
	"Australia/Perth":     "Australia",
	"Australia/Adelaide":  "Australia",
	"Pacific/Auckland":    "New Zealand",
	"Pacific/Wellington":  "New Zealand",

	// Africa
	"Africa/Johannesburg": "South Africa",
	"Africa/Cape_Town":    "South Africa",
	"Africa/Cairo":        "Egypt",
	"Africa/Lagos":        "Nigeria",
	"Africa/Nairobi":      "Kenya",
	"Africa/Accra":        "Ghana",
	"Africa/Casablanca":   "Morocco",
	"Africa/Algiers":      "Algeria",
	"Africa/Tunis":        "Tunisia",

	// Atlantic
	"Atlantic/Azores": "Portugal",
	"Atlantic/Canary": "Spain",

	// Common abbreviations
	"EST": "USA",
	"CST": "USA",
	"MST": "USA",
	"PST": "USA",
	"CET": "Germany",
	"GMT": "UK",
	"UTC": "Unknown",
}

// CountryForTimezone returns the country for an exact timezone identifier
// match. The second return is false when the zone is not in the table.
func CountryForTimezone(tz string) (string, bool) {
	c, ok := timezoneToCountry[tz]
	return c, ok
}
