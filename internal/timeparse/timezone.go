package timeparse

import (
	"regexp"
	"sort"
	"strings"

	"TimezoneBot/internal/model"
	"TimezoneBot/internal/tzdata"
)

var (
	ianaTzRe    = regexp.MustCompile(`\b([A-Za-z]+/[A-Za-z_]+)\b`)
	// \b cannot sit between a space and "+", so bare offsets need an
	// explicit left boundary class.
	utcOffsetRe = regexp.MustCompile(`(?i)(?:^|[^0-9\pL+:-])(UTC[+-]\d{1,2}(?::\d{2})?|[+-]\d{2}:\d{2})` + bndR)
	tzAbbrRe    = regexp.MustCompile(`\b([A-Z]{2,4})\b`)

	// Capitalized-word fallback, so unknown cities still surface as a
	// candidate and can be answered with a helpful hint downstream.
	potentialCityRe = regexp.MustCompile(bndL + `([A-ZА-ЯЁ][a-zа-яё]+(?:_[A-ZА-ЯЁ][a-zа-яё]+)?)` + bndR)

	knownCityRe   *regexp.Regexp
	canonicalCity map[string]string
	sortedCities  []string
)

// Common EN/RU function words, weekday names and modifier words that the
// capitalized-word fallback must never treat as a city.
var capitalizedStopWords = map[string]struct{}{
	"A": {}, "An": {}, "The": {}, "And": {}, "Or": {}, "But": {}, "In": {}, "On": {},
	"At": {}, "To": {}, "For": {}, "Of": {}, "With": {}, "By": {}, "From": {}, "As": {},
	"Is": {}, "Was": {}, "Are": {}, "Were": {}, "Be": {}, "Been": {}, "Being": {},
	"Have": {}, "Has": {}, "Had": {}, "Do": {}, "Does": {}, "Did": {}, "Will": {},
	"Would": {}, "Could": {}, "Should": {}, "May": {}, "Might": {}, "Can": {},
	"About": {}, "Into": {}, "Through": {}, "After": {}, "Before": {}, "During": {},
	"Since": {}, "Until": {}, "While": {},
	"Today": {}, "Tomorrow": {}, "Yesterday": {},
	"Monday": {}, "Tuesday": {}, "Wednesday": {}, "Thursday": {}, "Friday": {},
	"Saturday": {}, "Sunday": {},
	"Next": {}, "This": {}, "Last": {},
	"Сегодня": {}, "Завтра": {},
	"Понедельник": {}, "Вторник": {}, "Среда": {}, "Четверг": {}, "Пятница": {},
	"Суббота": {}, "Воскресенье": {},
	"Следующий": {}, "Этот": {}, "Прошлый": {},
}

func init() {
	canonicalCity = make(map[string]string, len(tzdata.CityToIANA))
	for city := range tzdata.CityToIANA {
		canonicalCity[strings.ToLower(city)] = city
		sortedCities = append(sortedCities, city)
	}
	// Longer names first so "New York" is not eaten by a shorter
	// alternative; ties broken alphabetically for determinism.
	sort.Slice(sortedCities, func(i, j int) bool {
		if len(sortedCities[i]) != len(sortedCities[j]) {
			return len(sortedCities[i]) > len(sortedCities[j])
		}
		return sortedCities[i] < sortedCities[j]
	})

	quoted := make([]string, len(sortedCities))
	for i, city := range sortedCities {
		quoted[i] = regexp.QuoteMeta(city)
	}
	knownCityRe = regexp.MustCompile(`(?i)` + bndL + `(` + strings.Join(quoted, "|") + `)` + bndR)
}

// russian case endings stripped when normalizing a declined city name,
// e.g. "Амстердаму" -> "Амстердам", "Москве" -> "Москв".
var ruCaseEndings = []string{"ами", "ом", "ою", "ой", "ам", "ах", "у", "е"}

// normalizeRussianCity strips a dative/instrumental/prepositional ending
// and re-matches the base against the curated city table by prefix.
func normalizeRussianCity(word string) string {
	runes := []rune(word)
	lower := strings.ToLower(word)
	for _, ending := range ruCaseEndings {
		endRunes := len([]rune(ending))
		if !strings.HasSuffix(lower, ending) || len(runes) <= endRunes+2 {
			continue
		}
		base := strings.ToLower(string(runes[:len(runes)-endRunes]))
		for _, city := range sortedCities {
			if strings.HasPrefix(strings.ToLower(city), base) {
				return city
			}
		}
		return string(runes[:len(runes)-endRunes])
	}
	return word
}

// extractExplicitTimezone finds at most one explicit timezone token in
// precedence order: IANA identifier, UTC offset, curated city name,
// case-normalized Russian city, uppercase abbreviation, and finally any
// capitalized word as an unresolved candidate. The input already has
// time-mention spans masked out.
func extractExplicitTimezone(text string) *model.ExplicitTimezoneMention {
	if m := ianaTzRe.FindStringSubmatch(text); m != nil {
		return &model.ExplicitTimezoneMention{Raw: m[1]}
	}
	if m := utcOffsetRe.FindStringSubmatch(text); m != nil {
		return &model.ExplicitTimezoneMention{Raw: m[1]}
	}
	if m := knownCityRe.FindStringSubmatch(text); m != nil {
		if canonical, ok := canonicalCity[strings.ToLower(m[1])]; ok {
			return &model.ExplicitTimezoneMention{Raw: canonical}
		}
	}
	for _, word := range strings.Fields(text) {
		normalized := normalizeRussianCity(strings.Trim(word, ".,!?;:"))
		if _, ok := tzdata.CityToIANA[normalized]; ok {
			return &model.ExplicitTimezoneMention{Raw: normalized}
		}
	}
	if m := tzAbbrRe.FindStringSubmatch(text); m != nil {
		return &model.ExplicitTimezoneMention{Raw: m[1]}
	}
	for _, m := range potentialCityRe.FindAllStringSubmatch(text, -1) {
		if _, stop := capitalizedStopWords[m[1]]; !stop {
			return &model.ExplicitTimezoneMention{Raw: m[1]}
		}
	}
	return nil
}
