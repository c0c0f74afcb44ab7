package holiday

import "time"

// Sri Lankan public and bank holidays that fall on the same date every year.
var sriLankaFixed = []Holiday{
	{MonthDay: MonthDay{time.January, 1}, Name: "New Year's Day"},
	{MonthDay: MonthDay{time.January, 15}, Name: "Thai Pongal"},
	{MonthDay: MonthDay{time.February, 4}, Name: "National Day"},
	{MonthDay: MonthDay{time.April, 13}, Name: "Day Prior to Sinhala & Tamil New Year"},
	{MonthDay: MonthDay{time.April, 14}, Name: "Sinhala & Tamil New Year"},
	{MonthDay: MonthDay{time.May, 1}, Name: "May Day"},
	{MonthDay: MonthDay{time.December, 25}, Name: "Christmas Day"},
}

// Poya days, Eid, Deepavali, Good Friday etc. as gazetted for 2024-2026.
// Lunar observances cannot be derived, new years must be entered by hand.
var sriLankaVariable = []Holiday{
	{MonthDay{time.January, 25}, 2024, "Duruthu Full Moon Poya Day"},
	{MonthDay{time.February, 23}, 2024, "Navam Full Moon Poya Day"},
	{MonthDay{time.March, 24}, 2024, "Medin Full Moon Poya Day"},
	{MonthDay{time.March, 29}, 2024, "Good Friday"},
	{MonthDay{time.April, 11}, 2024, "Id-Ul-Fitr (Eid)"},
	{MonthDay{time.April, 23}, 2024, "Bak Full Moon Poya Day"},
	{MonthDay{time.May, 23}, 2024, "Vesak Full Moon Poya Day"},
	{MonthDay{time.May, 24}, 2024, "Day After Vesak"},
	{MonthDay{time.June, 17}, 2024, "Id-Ul-Alha (Hadji)"},
	{MonthDay{time.June, 21}, 2024, "Poson Full Moon Poya Day"},
	{MonthDay{time.July, 20}, 2024, "Esala Full Moon Poya Day"},
	{MonthDay{time.August, 19}, 2024, "Nikini Full Moon Poya Day"},
	{MonthDay{time.September, 16}, 2024, "Milad-Un-Nabi"},
	{MonthDay{time.September, 17}, 2024, "Binara Full Moon Poya Day"},
	{MonthDay{time.October, 17}, 2024, "Vap Full Moon Poya Day"},
	{MonthDay{time.November, 1}, 2024, "Deepavali"},
	{MonthDay{time.November, 15}, 2024, "Ill Full Moon Poya Day"},
	{MonthDay{time.December, 14}, 2024, "Unduvap Full Moon Poya Day"},

	{MonthDay{time.January, 13}, 2025, "Duruthu Full Moon Poya Day"},
	{MonthDay{time.February, 12}, 2025, "Navam Full Moon Poya Day"},
	{MonthDay{time.March, 13}, 2025, "Medin Full Moon Poya Day"},
	{MonthDay{time.March, 31}, 2025, "Id-Ul-Fitr (Eid)"},
	{MonthDay{time.April, 12}, 2025, "Bak Full Moon Poya Day"},
	{MonthDay{time.April, 18}, 2025, "Good Friday"},
	{MonthDay{time.May, 12}, 2025, "Vesak Full Moon Poya Day"},
	{MonthDay{time.May, 13}, 2025, "Day After Vesak"},
	{MonthDay{time.June, 7}, 2025, "Id-Ul-Alha (Hadji)"},
	{MonthDay{time.June, 11}, 2025, "Poson Full Moon Poya Day"},
	{MonthDay{time.July, 10}, 2025, "Esala Full Moon Poya Day"},
	{MonthDay{time.August, 8}, 2025, "Nikini Full Moon Poya Day"},
	{MonthDay{time.September, 5}, 2025, "Milad-Un-Nabi"},
	{MonthDay{time.September, 7}, 2025, "Binara Full Moon Poya Day"},
	{MonthDay{time.October, 6}, 2025, "Vap Full Moon Poya Day"},
	{MonthDay{time.October, 20}, 2025, "Deepavali"},
	{MonthDay{time.November, 5}, 2025, "Ill Full Moon Poya Day"},
	{MonthDay{time.December, 4}, 2025, "Unduvap Full Moon Poya Day"},

	{MonthDay{time.January, 3}, 2026, "Duruthu Full Moon Poya Day"},
	{MonthDay{time.February, 1}, 2026, "Navam Full Moon Poya Day"},
	{MonthDay{time.March, 3}, 2026, "Medin Full Moon Poya Day"},
	{MonthDay{time.March, 20}, 2026, "Id-Ul-Fitr (Eid)"},
	{MonthDay{time.April, 1}, 2026, "Bak Full Moon Poya Day"},
	{MonthDay{time.April, 3}, 2026, "Good Friday"},
	{MonthDay{time.May, 1}, 2026, "Vesak Full Moon Poya Day"},
	{MonthDay{time.May, 2}, 2026, "Day After Vesak"},
	{MonthDay{time.May, 27}, 2026, "Id-Ul-Alha (Hadji)"},
	{MonthDay{time.May, 31}, 2026, "Poson Full Moon Poya Day"},
	{MonthDay{time.June, 29}, 2026, "Esala Full Moon Poya Day"},
	{MonthDay{time.July, 29}, 2026, "Nikini Full Moon Poya Day"},
	{MonthDay{time.August, 26}, 2026, "Milad-Un-Nabi"},
	{MonthDay{time.August, 27}, 2026, "Binara Full Moon Poya Day"},
	{MonthDay{time.September, 26}, 2026, "Vap Full Moon Poya Day"},
	{MonthDay{time.November, 8}, 2026, "Deepavali"},
	{MonthDay{time.October, 25}, 2026, "Ill Full Moon Poya Day"},
	{MonthDay{time.November, 24}, 2026, "Unduvap Full Moon Poya Day"},
}

// SriLanka returns the built-in Sri Lankan bank holiday table.
func SriLanka() *Table {
	return MustNew(sriLankaFixed, sriLankaVariable)
}
