package language

import (
	"strings"

	xlang "golang.org/x/text/language"
)

// DefaultCode is the language assumed when detection fails or the detected
// code is not supported by the recognizer.
const DefaultCode = "en"

type entry struct {
	code2       string   // ISO 639-1 (2-letter)
	code3       string   // ISO 639-2 primary (3-letter)
	alt3        string   // ISO 639-2 alternate (e.g. "fre" vs "fra")
	display     string   // Human-readable name
	recognizer  string   // Recognizer language identifier
	traineddata string   // Tesseract traineddata name
	words       []string // Full word forms (e.g. "english")
}

var languages = []entry{
	{"en", "eng", "", "English", "en", "eng", []string{"english"}},
	{"zh", "zho", "chi", "Chinese", "ch", "chi_sim", []string{"chinese"}},
	{"es", "spa", "", "Spanish", "es", "spa", []string{"spanish"}},
	{"fr", "fra", "fre", "French", "french", "fra", []string{"french"}},
	{"de", "deu", "ger", "German", "german", "deu", []string{"german"}},
	{"ja", "jpn", "", "Japanese", "japan", "jpn", []string{"japanese"}},
	{"ko", "kor", "", "Korean", "korean", "kor", []string{"korean"}},
	{"ru", "rus", "", "Russian", "ru", "rus", []string{"russian"}},
	{"ar", "ara", "", "Arabic", "ar", "ara", []string{"arabic"}},
	{"hi", "hin", "", "Hindi", "hi", "hin", []string{"hindi"}},
	{"pt", "por", "", "Portuguese", "pt", "por", []string{"portuguese"}},
	{"it", "ita", "", "Italian", "it", "ita", []string{"italian"}},
	{"nl", "nld", "dut", "Dutch", "dutch", "nld", []string{"dutch"}},
	{"pl", "pol", "", "Polish", "pl", "pol", []string{"polish"}},
	{"tr", "tur", "", "Turkish", "tr", "tur", []string{"turkish"}},
	{"vi", "vie", "", "Vietnamese", "vi", "vie", []string{"vietnamese"}},
	{"th", "tha", "", "Thai", "th", "tha", []string{"thai"}},
	{"sv", "swe", "", "Swedish", "sv", "swe", []string{"swedish"}},
	{"da", "dan", "", "Danish", "da", "dan", []string{"danish"}},
	{"no", "nor", "", "Norwegian", "no", "nor", []string{"norwegian"}},
	{"fi", "fin", "", "Finnish", "fi", "fin", []string{"finnish"}},
}

// Index maps built at init time.
var (
	byCode2      map[string]*entry
	byCode3      map[string]*entry
	byWord       map[string]*entry
	byRecognizer map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	byWord = make(map[string]*entry, len(languages))
	byRecognizer = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
		for _, w := range e.words {
			byWord[w] = e
		}
		byRecognizer[e.recognizer] = e
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	if e, ok := byCode2[code]; ok {
		return e
	}
	if e, ok := byCode3[code]; ok {
		return e
	}
	if e, ok := byWord[code]; ok {
		return e
	}
	if base := baseTag(code); base != "" && base != code {
		if e, ok := byCode2[base]; ok {
			return e
		}
	}
	return nil
}

// baseTag reduces a BCP 47 tag such as "en-US" or "zh_Hans" to its base
// language subtag. Returns empty string when the input does not parse.
func baseTag(code string) string {
	if !strings.ContainsAny(code, "-_") {
		return ""
	}
	tag, err := xlang.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil {
		return ""
	}
	base, confidence := tag.Base()
	if confidence == xlang.No {
		return ""
	}
	return base.String()
}

// ToRecognizer maps a speech-detected language code to the identifier the
// text recognizer expects. Most codes map to themselves; a fixed set is
// renamed (zh→ch, fr→french, de→german, ja→japan, ko→korean, nl→dutch).
// Unknown or empty input maps to DefaultCode.
func ToRecognizer(code string) string {
	if e := lookup(code); e != nil {
		return e.recognizer
	}
	return DefaultCode
}

// TrainedData returns the Tesseract traineddata name for a recognizer
// identifier as produced by ToRecognizer. Plain ISO codes are accepted too.
// Unknown input resolves to English.
func TrainedData(recognizer string) string {
	key := strings.ToLower(strings.TrimSpace(recognizer))
	if e, ok := byRecognizer[key]; ok {
		return e.traineddata
	}
	if e := lookup(key); e != nil {
		return e.traineddata
	}
	return byCode2[DefaultCode].traineddata
}

// ToISO2 converts any recognized language code or word to ISO 639-1 (2-letter).
// Returns empty string for unrecognized input.
// If the input is already a 2-letter code (even if unknown), it passes through.
func ToISO2(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if e := lookup(code); e != nil {
		return e.code2
	}
	if len(code) == 2 {
		return code
	}
	return ""
}

// DisplayName returns a human-readable language name for any recognized code.
// Returns "Unknown" for empty input, or the uppercased code for unrecognized input.
func DisplayName(code string) string {
	if strings.TrimSpace(code) == "" {
		return "Unknown"
	}
	if e := lookup(code); e != nil {
		return e.display
	}
	return strings.ToUpper(strings.TrimSpace(code))
}

// Supported reports whether the code resolves to a table entry.
func Supported(code string) bool {
	return lookup(code) != nil
}
