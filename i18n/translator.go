package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// Message keys that are not issue codes. Exclusive bound failures keep the
// too_small/too_big codes but need their own wording.
const (
	KeyTooSmallExclusive = "too_small.exclusive"
	KeyTooBigExclusive   = "too_big.exclusive"
)

// dictTranslator is the built-in dictionary-based Translator. Templates
// refer to data entries as {name}.
type dictTranslator struct{ lang string }

var dict = map[string]map[string]string{
	"en": {
		"invalid_type":  "invalid type: expected {expected}, got {got}",
		"required":      "required property {key} missing",
		"unknown_key":   "disallowed property {key}",
		"duplicate_key": "duplicate key {key}",
		"too_small":     "{got} is less than {bound} {limit}",
		"too_big":       "{got} is greater than {bound} {limit}",
		"too_short":     "{what} {got} is below {bound} {limit}",
		"too_long":      "{what} {got} is above {bound} {limit}",
		"pattern":       "{got} does not match {pattern}",
		"parse_error":   "parse error",
		"truncated":     "truncated",

		KeyTooSmallExclusive: "{got} is not greater than {bound} {limit}",
		KeyTooBigExclusive:   "{got} is not less than {bound} {limit}",
	},
	"ja": {
		"invalid_type":  "型が不正です: {expected} が必要ですが {got} でした",
		"required":      "必須プロパティ {key} が不足しています",
		"unknown_key":   "許可されていないプロパティ {key} です",
		"duplicate_key": "キー {key} が重複しています",
		"too_small":     "{got} は {bound} {limit} より小さいです",
		"too_big":       "{got} は {bound} {limit} より大きいです",
		"too_short":     "{what} {got} は {bound} {limit} を下回っています",
		"too_long":      "{what} {got} は {bound} {limit} を上回っています",
		"pattern":       "{got} は {pattern} に一致しません",
		"parse_error":   "解析エラー",
		"truncated":     "打ち切られました",

		KeyTooSmallExclusive: "{got} は {bound} {limit} 以下です",
		KeyTooBigExclusive:   "{got} は {bound} {limit} 以上です",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	tmpl, ok := dict[t.lang][code]
	if !ok {
		return code
	}
	if len(data) == 0 || !strings.Contains(tmpl, "{") {
		return tmpl
	}
	pairs := make([]string, 0, 2*len(data))
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

var (
	mu                           = sync.RWMutex{}
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	mu.Lock()
	currentTranslator = dictTranslator{lang: lang}
	mu.Unlock()
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
