// Package language holds the fixed set of languages the bridge is willing to
// translate to and from the base language.
package language

import "sort"

const (
	// Base is the language the dialogue engine works in.
	Base = "en"

	// Threshold is the minimum top-candidate confidence for a detection to be
	// trusted. The comparison is strict: a confidence equal to Threshold fails.
	Threshold = 0.4
)

// names maps each supported language code to its display name.
// It is never mutated after package initialization.
var names = map[string]string{
	"ar":  "Arabic",
	"zh":  "Chinese (Simplified)",
	"zht": "Chinese (Traditional)",
	"cz":  "Czech",
	"da":  "Danish",
	"nl":  "Dutch",
	"en":  "English",
	"fi":  "Finnish",
	"fr":  "French",
	"de":  "German",
	"hi":  "Hindi",
	"hu":  "Hungarian",
	"it":  "Italian",
	"ja":  "Japanese",
	"ko":  "Korean",
	"nb":  "Norwegian Bokmal",
	"pl":  "Polish",
	"pt":  "Portuguese (Brazil)",
	"ru":  "Russian",
	"es":  "Spanish",
	"sv":  "Swedish",
	"tr":  "Turkish",
}

// codes is the sorted list of supported codes, built once in init.
var codes []string

func init() {
	codes = make([]string, 0, len(names))
	for code := range names {
		codes = append(codes, code)
	}
	sort.Strings(codes)
}

// IsSupported reports whether code can be translated to and from Base.
func IsSupported(code string) bool {
	_, ok := names[code]
	return ok
}

// Name returns the display name for code, or "" if it is not supported.
func Name(code string) string {
	return names[code]
}

// Codes returns the supported language codes in lexical order.
// The returned slice is a copy and may be modified by the caller.
func Codes() []string {
	out := make([]string, len(codes))
	copy(out, codes)
	return out
}

// Entry is a supported language as exposed to callers.
type Entry struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Entries returns every supported language sorted by code.
func Entries() []Entry {
	out := make([]Entry, 0, len(codes))
	for _, code := range codes {
		out = append(out, Entry{Code: code, Name: names[code]})
	}
	return out
}

// Confident reports whether a detection confidence clears Threshold.
func Confident(confidence float64) bool {
	return confidence > Threshold
}
