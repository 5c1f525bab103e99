// Package tzdata holds the curated timezone lookup tables: city names in
// English and Russian, a deliberately small abbreviation table
// (abbreviations are globally ambiguous), and per-language display labels.
// All maps are read-only after init.
package tzdata

import (
	"strings"

	"TimezoneBot/internal/model"
)

// CityToIANA maps curated city names (EN and RU) to IANA identifiers.
var CityToIANA = map[string]string{
	// Europe
	"Amsterdam": "Europe/Amsterdam",
	"Moscow":    "Europe/Moscow",
	"Lisbon":    "Europe/Lisbon",
	"Milan":     "Europe/Rome",
	"Belgrade":  "Europe/Belgrade",
	"London":    "Europe/London",
	"Paris":     "Europe/Paris",
	"Berlin":    "Europe/Berlin",

	"Амстердам": "Europe/Amsterdam",
	"Москва":    "Europe/Moscow",
	"Лиссабон":  "Europe/Lisbon",
	"Милан":     "Europe/Rome",
	"Белград":   "Europe/Belgrade",
	"Лондон":    "Europe/London",
	"Париж":     "Europe/Paris",
	"Берлин":    "Europe/Berlin",

	// Cyprus
	"Cyprus":   "Asia/Nicosia",
	"Limassol": "Asia/Nicosia",
	"Кипр":     "Asia/Nicosia",
	"Лимассол": "Asia/Nicosia",

	// Caucasus
	"Tbilisi": "Asia/Tbilisi",
	"Yerevan": "Asia/Yerevan",
	"Тбилиси": "Asia/Tbilisi",
	"Ереван":  "Asia/Yerevan",

	// Americas
	"Vancouver":   "America/Vancouver",
	"Miami":       "America/New_York",
	"New York":    "America/New_York",
	"Los Angeles": "America/Los_Angeles",
	"Chicago":     "America/Chicago",

	"Ванкувер":     "America/Vancouver",
	"Майами":       "America/New_York",
	"Нью-Йорк":     "America/New_York",
	"Лос-Анджелес": "America/Los_Angeles",
	"Чикаго":       "America/Chicago",

	// Asia / Oceania
	"Tokyo":  "Asia/Tokyo",
	"Токио":  "Asia/Tokyo",
	"Sydney": "Australia/Sydney",
	"Сидней": "Australia/Sydney",
}

// AbbrToIANA resolves a few common abbreviations. Kept intentionally
// small; anything else must be written as an IANA identifier.
var AbbrToIANA = map[string]string{
	"CET":  "Europe/Paris",
	"CEST": "Europe/Paris",
	"EET":  "Europe/Athens",
	"EEST": "Europe/Athens",
	"MSK":  "Europe/Moscow",
	"PST":  "America/Los_Angeles",
	"PDT":  "America/Los_Angeles",
	"EST":  "America/New_York",
	"EDT":  "America/New_York",
	"CST":  "America/Chicago",
	"CDT":  "America/Chicago",
}

var ianaToCityEN = map[string]string{
	"Europe/Amsterdam":    "Amsterdam",
	"Europe/Moscow":       "Moscow",
	"Europe/Lisbon":       "Lisbon",
	"Europe/Rome":         "Milan",
	"Europe/Belgrade":     "Belgrade",
	"Europe/London":       "London",
	"Europe/Paris":        "Paris",
	"Europe/Berlin":       "Berlin",
	"Asia/Nicosia":        "Limassol",
	"Asia/Tbilisi":        "Tbilisi",
	"Asia/Yerevan":        "Yerevan",
	"America/Vancouver":   "Vancouver",
	"America/New_York":    "New York",
	"America/Los_Angeles": "Los Angeles",
	"America/Chicago":     "Chicago",
	"Asia/Tokyo":          "Tokyo",
	"Australia/Sydney":    "Sydney",
}

var ianaToCityRU = map[string]string{
	"Europe/Amsterdam":    "Амстердам",
	"Europe/Moscow":       "Москва",
	"Europe/Lisbon":       "Лиссабон",
	"Europe/Rome":         "Милан",
	"Europe/Belgrade":     "Белград",
	"Europe/London":       "Лондон",
	"Europe/Paris":        "Париж",
	"Europe/Berlin":       "Берлин",
	"Asia/Nicosia":        "Лимассол",
	"Asia/Tbilisi":        "Тбилиси",
	"Asia/Yerevan":        "Ереван",
	"America/Vancouver":   "Ванкувер",
	"America/New_York":    "Нью-Йорк",
	"America/Los_Angeles": "Лос-Анджелес",
	"America/Chicago":     "Чикаго",
	"Asia/Tokyo":          "Токио",
	"Australia/Sydney":    "Сидней",
}

// CityTranslations maps English display labels to their Russian forms.
// Unmapped labels pass through unchanged.
var CityTranslations = map[string]string{
	"Amsterdam":   "Амстердам",
	"Moscow":      "Москва",
	"Lisbon":      "Лиссабон",
	"Milan":       "Милан",
	"Belgrade":    "Белград",
	"Cyprus":      "Кипр",
	"Limassol":    "Лимассол",
	"Tbilisi":     "Тбилиси",
	"Yerevan":     "Ереван",
	"Vancouver":   "Ванкувер",
	"Miami":       "Майами",
	"New York":    "Нью-Йорк",
	"London":      "Лондон",
	"Paris":       "Париж",
	"Berlin":      "Берлин",
	"Tokyo":       "Токио",
	"Sydney":      "Сидней",
	"Los Angeles": "Лос-Анджелес",
	"Chicago":     "Чикаго",
}

var cityLower = func() map[string]string {
	m := make(map[string]string, len(CityToIANA))
	for city, tz := range CityToIANA {
		m[strings.ToLower(city)] = tz
	}
	return m
}()

// ResolveCity looks up a curated city name case-insensitively.
func ResolveCity(name string) (string, bool) {
	tz, ok := cityLower[strings.ToLower(strings.TrimSpace(name))]
	return tz, ok
}

// ResolveAbbreviation looks up a known timezone abbreviation.
func ResolveAbbreviation(abbr string) (string, bool) {
	tz, ok := AbbrToIANA[strings.ToUpper(strings.TrimSpace(abbr))]
	return tz, ok
}

// DisplayName returns the preferred city label for an IANA identifier in
// the given language, falling back to the identifier itself.
func DisplayName(tz string, lang model.Language) string {
	if lang == model.LangRU {
		if name, ok := ianaToCityRU[tz]; ok {
			return name
		}
		return tz
	}
	if name, ok := ianaToCityEN[tz]; ok {
		return name
	}
	return tz
}

// TranslateLabel localizes an English display label for Russian output.
func TranslateLabel(label string, lang model.Language) string {
	if lang == model.LangRU {
		if ru, ok := CityTranslations[label]; ok {
			return ru
		}
	}
	return label
}
