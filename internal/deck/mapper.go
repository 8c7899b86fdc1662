// Package deck maps the Spanish card names the language model produces to
// image asset paths. It is a static lookup over the 78-card Rider-Waite
// deck: 22 major arcana plus 14 ranks across 4 suits, with the common
// naming aliases the model is known to use.
package deck

import "strings"

// BackImagePath is the asset served when a card name cannot be resolved.
// Rendering a face-down card beats rendering a broken image.
const BackImagePath = "/tarot-cards/card_back.png"

// majorArcana maps lowercased Spanish major arcana names to the English
// file stem. Aliases map to the same stem (La Papisa and La Sacerdotisa are
// the same card).
var majorArcana = map[string]string{
	"el loco":                "the_fool",
	"el mago":                "the_magician",
	"la sacerdotisa":         "the_high_priestess",
	"la papisa":              "the_high_priestess",
	"la emperatriz":          "the_empress",
	"el emperador":           "the_emperor",
	"el hierofante":          "the_hierophant",
	"el papa":                "the_hierophant",
	"el sumo sacerdote":      "the_hierophant",
	"los enamorados":         "the_lovers",
	"el carro":               "the_chariot",
	"la fuerza":              "strength",
	"el ermitaño":            "the_hermit",
	"la rueda de la fortuna": "wheel_of_fortune",
	"la justicia":            "justice",
	"el colgado":             "the_hanged_man",
	"la muerte":              "death",
	"la templanza":           "temperance",
	"el diablo":              "the_devil",
	"la torre":               "the_tower",
	"la estrella":            "the_star",
	"la luna":                "the_moon",
	"el sol":                 "the_sun",
	"el juicio":              "judgement",
	"el mundo":               "the_world",
}

// minorRanks maps lowercased Spanish rank prefixes to the English file
// prefix. Both Caballero and Caballo are in common use for the knight.
var minorRanks = map[string]string{
	"as de":        "ace_of",
	"dos de":       "two_of",
	"tres de":      "three_of",
	"cuatro de":    "four_of",
	"cinco de":     "five_of",
	"seis de":      "six_of",
	"siete de":     "seven_of",
	"ocho de":      "eight_of",
	"nueve de":     "nine_of",
	"diez de":      "ten_of",
	"sota de":      "page_of",
	"caballero de": "knight_of",
	"caballo de":   "knight_of",
	"reina de":     "queen_of",
	"rey de":       "king_of",
}

// minorSuits maps lowercased Spanish suit names to the English suit.
var minorSuits = map[string]string{
	"bastos":     "wands",
	"copas":      "cups",
	"espadas":    "swords",
	"oros":       "pentacles",
	"pentáculos": "pentacles",
}

// Card describes the resolved asset for a card name: the image path and a
// short English hint derived from the file stem.
type Card struct {
	ImagePath string
	Hint      string
}

// Resolve maps a Spanish card name to its image asset. Matching is
// case-insensitive and tolerant of surrounding whitespace. Unknown names
// resolve to the card back with a generic hint.
func Resolve(spanishName string) Card {
	name := strings.ToLower(strings.TrimSpace(spanishName))

	if stem, ok := majorArcana[name]; ok {
		return Card{
			ImagePath: "/tarot-cards/" + stem + ".png",
			Hint:      hintFromStem(stem),
		}
	}

	for rank, rankStem := range minorRanks {
		if !strings.HasPrefix(name, rank) {
			continue
		}
		suit := strings.TrimSpace(strings.TrimPrefix(name, rank))
		suitStem, ok := minorSuits[suit]
		if !ok {
			continue
		}
		stem := rankStem + "_" + suitStem
		return Card{
			ImagePath: "/tarot-cards/" + stem + ".png",
			Hint:      hintFromStem(stem),
		}
	}

	return Card{ImagePath: BackImagePath, Hint: "tarot card"}
}

// hintFromStem turns a file stem like "wheel_of_fortune" into a two-word
// hint like "wheel of" for fuzzy matching against card names.
func hintFromStem(stem string) string {
	words := strings.Split(strings.ReplaceAll(stem, "_", " "), " ")
	if len(words) > 2 {
		words = words[:2]
	}
	return strings.Join(words, " ")
}
