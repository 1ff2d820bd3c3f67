// Package domain contains the core types exchanged by the assistant bridge.
package domain

import "encoding/json"

// EmptyJSON is the placeholder returned for fields that carry no data.
const EmptyJSON = "{}"

// Request is the input to the assistant bridge.
type Request struct {
	WorkspaceID      string `json:"assistant_workspace_id"`
	AssistantAPIKey  string `json:"assistant_apikey"`
	TranslatorAPIKey string `json:"translator_apikey"`
	Input            Input  `json:"input"`
	// Context is normally a JSON-encoded string holding the conversation
	// context. A bare JSON object is accepted as well.
	Context json.RawMessage `json:"context,omitempty"`
}

// Input carries the user's utterance.
type Input struct {
	Text string `json:"text"`
}

// Response is the output of the assistant bridge.
type Response struct {
	Message string `json:"message"`
	Context string `json:"context"`
	// Output is either the dialogue engine's output object or the string "{}".
	Output   any    `json:"output"`
	Intents  string `json:"intents"`
	Language string `json:"language"`
}

// LanguageCandidate is one language guess from the translation engine.
type LanguageCandidate struct {
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence"`
}

// Identification is the result of a language identification call.
// Languages are ordered by confidence, highest first.
type Identification struct {
	Languages []LanguageCandidate `json:"languages"`
}

// Top returns the most likely language. ok is false when there is no result.
func (i *Identification) Top() (LanguageCandidate, bool) {
	if i == nil || len(i.Languages) == 0 {
		return LanguageCandidate{}, false
	}
	return i.Languages[0], true
}

// DialogueResult is the outcome of one dialogue turn.
// Context and Intents are kept raw so they round-trip untouched.
type DialogueResult struct {
	Context json.RawMessage `json:"context"`
	Output  map[string]any  `json:"output"`
	Intents json.RawMessage `json:"intents"`
}
