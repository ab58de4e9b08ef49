package i18n

import "strings"

// One shared resolver for the kz/ru/en dictionaries. Keys are
// dot-separated paths into the nested maps; a miss returns the key itself
// so untranslated strings stay visible instead of disappearing.

const DefaultLang = "kz"

var dictionaries = map[string]map[string]interface{}{
	"kz": {
		"media": map[string]interface{}{
			"unsupported_type": "Тек сурет файлдарын жүктеуге болады",
			"file_too_large":   "Файл көлемі 5 МБ-тан аспауы керек",
		},
		"tests": map[string]interface{}{
			"already_submitted": "Бұл тест бұрын тапсырылған",
			"empty_answer":      "Жауапты таңдаңыз",
		},
		"course": map[string]interface{}{
			"not_enrolled": "Алдымен курсқа жазылыңыз",
		},
	},
	"ru": {
		"media": map[string]interface{}{
			"unsupported_type": "Можно загружать только изображения",
			"file_too_large":   "Размер файла не должен превышать 5 МБ",
		},
		"tests": map[string]interface{}{
			"already_submitted": "Этот тест уже сдан",
			"empty_answer":      "Выберите ответ",
		},
		"course": map[string]interface{}{
			"not_enrolled": "Сначала запишитесь на курс",
		},
	},
	"en": {
		"media": map[string]interface{}{
			"unsupported_type": "Only image files can be uploaded",
			"file_too_large":   "File size must not exceed 5 MB",
		},
		"tests": map[string]interface{}{
			"already_submitted": "This test has already been submitted",
			"empty_answer":      "Please select an answer",
		},
		"course": map[string]interface{}{
			"not_enrolled": "Please enroll in the course first",
		},
	},
}

// Lang normalizes a language code, falling back to the default for
// anything we have no dictionary for.
func Lang(lang string) string {
	if _, ok := dictionaries[lang]; ok {
		return lang
	}
	return DefaultLang
}

// T resolves a dot-separated key against the dictionary for lang.
func T(lang, key string) string {
	dict := dictionaries[Lang(lang)]

	parts := strings.Split(key, ".")
	var current interface{} = dict
	for _, part := range parts {
		m, ok := current.(map[string]interface{})
		if !ok {
			return key
		}
		current, ok = m[part]
		if !ok {
			return key
		}
	}

	if s, ok := current.(string); ok {
		return s
	}
	return key
}
