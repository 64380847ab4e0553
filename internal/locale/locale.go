// Package locale holds the static message table for user-facing
// recommendation text. The table is read-only after process start.
package locale

import (
	"fmt"

	"go-produce-analyzer/internal/logger"
)

// Language is a supported response language code
type Language string

const (
	English Language = "en"
	Yoruba  Language = "yo"
	Igbo    Language = "ig"
	Hausa   Language = "ha"
)

// MessageKey identifies a logical recommendation message
type MessageKey string

const (
	KeySpoiled       MessageKey = "spoiled"
	KeyDiseaseSevere MessageKey = "disease_severe"
	KeyDiseaseMild   MessageKey = "disease_mild"
	KeyOverripe      MessageKey = "overripe"
	KeyOptimal       MessageKey = "optimal"
	KeyNotReady      MessageKey = "not_ready"
	KeyUncertain     MessageKey = "uncertain"
	KeyNotProduce    MessageKey = "not_produce"
	KeyOffline       MessageKey = "offline_unavailable"
)

var translations = map[Language]map[MessageKey]string{
	English: {
		KeySpoiled:       "Discard immediately, spoiled",
		KeyDiseaseSevere: "Avoid purchasing, quality compromised",
		KeyDiseaseMild:   "Inspect closely before buying",
		KeyOverripe:      "Overripe, consume within a day",
		KeyOptimal:       "Good to buy",
		KeyNotReady:      "Wait a few days before consuming",
		KeyUncertain:     "Analysis uncertain, inspect before buying",
		KeyNotProduce:    "Could not identify produce type",
		KeyOffline:       "Offline analysis not available, please connect to the internet",
	},
	Yoruba: {
		KeySpoiled:       "Da sile lesekese, ti baje",
		KeyDiseaseSevere: "Mase ra, didara ti baje",
		KeyDiseaseMild:   "Sayewo daradara ki o to ra",
		KeyOverripe:      "Ti pon ju, je e laarin ojo kan",
		KeyOptimal:       "O dara lati ra",
		KeyNotReady:      "Duro fun ojo die ki o to je e",
		KeyUncertain:     "Ko daju, sayewo ki o to ra",
		KeyNotProduce:    "Ko ri iru eso",
		KeyOffline:       "Ayewo laisi ayelujara ko si, jowo sopo si ayelujara",
	},
	Igbo: {
		KeySpoiled:       "Tufuo ozugbo, emebiela",
		KeyDiseaseSevere: "Azula, ogo emebiela",
		KeyDiseaseMild:   "Nyochaa nke oma tupu izuta",
		KeyOverripe:      "Achaala nke ukwuu, rie ya n'ime otu ubochi",
		KeyOptimal:       "O di mma izuta",
		KeyNotReady:      "Chere ubochi ole na ole tupu iri ya",
		KeyUncertain:     "Amaghi nke oma, nyochaa tupu izuta",
		KeyNotProduce:    "Achoputaghi udi mkpuru",
		KeyOffline:       "Nyocha na-enweghi ntaneti adighi, jikoo na ntaneti",
	},
	Hausa: {
		KeySpoiled:       "Zubar da shi nan take, ya lalace",
		KeyDiseaseSevere: "Kada ka saya, inganci ya lalace",
		KeyDiseaseMild:   "Duba da kyau kafin saya",
		KeyOverripe:      "Ya wuce nuna, ci shi cikin kwana daya",
		KeyOptimal:       "Yana da kyau a saya",
		KeyNotReady:      "Jira kwanaki kadan kafin ci",
		KeyUncertain:     "Ba tabbas ba, duba kafin saya",
		KeyNotProduce:    "Ba a gano irin kayan lambu ba",
		KeyOffline:       "Babu bincike ba tare da intanet ba, da fatan za a hada da intanet",
	},
}

// Supported returns all supported language codes
func Supported() []Language {
	return []Language{English, Yoruba, Igbo, Hausa}
}

// Parse validates a raw language code from the request boundary
func Parse(code string) (Language, error) {
	switch Language(code) {
	case English, Yoruba, Igbo, Hausa:
		return Language(code), nil
	}
	return "", fmt.Errorf("unsupported language: %q (use: en, yo, ig, ha)", code)
}

// Localize returns the message for (key, lang). A missing entry is a
// configuration defect: it is logged and the English template is used
// instead of failing the request.
func Localize(key MessageKey, lang Language) string {
	if msgs, ok := translations[lang]; ok {
		if msg, ok := msgs[key]; ok {
			return msg
		}
	}
	if lang != English {
		logger.WithFields(map[string]interface{}{
			"key":      string(key),
			"language": string(lang),
		}).Warn("Missing localization entry, falling back to English")
	}
	if msg, ok := translations[English][key]; ok {
		return msg
	}
	// Last resort: the key itself, mirroring the original table behavior
	return string(key)
}
