package i18n_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shaqyru-backend/internal/i18n"
)

func TestLang(t *testing.T) {
	assert.Equal(t, "kz", i18n.Lang("kz"))
	assert.Equal(t, "ru", i18n.Lang("ru"))
	assert.Equal(t, "en", i18n.Lang("en"))
	assert.Equal(t, "kz", i18n.Lang(""))
	assert.Equal(t, "kz", i18n.Lang("de"))
}

func TestT_ResolvesDottedKeys(t *testing.T) {
	assert.Equal(t, "Этот тест уже сдан", i18n.T("ru", "tests.already_submitted"))
	assert.Equal(t, "Only image files can be uploaded", i18n.T("en", "media.unsupported_type"))
	assert.Equal(t, "Алдымен курсқа жазылыңыз", i18n.T("kz", "course.not_enrolled"))
}

func TestT_UnknownLangFallsBackToKazakh(t *testing.T) {
	assert.Equal(t, i18n.T("kz", "tests.empty_answer"), i18n.T("fr", "tests.empty_answer"))
}

func TestT_MissingKeyReturnsKey(t *testing.T) {
	assert.Equal(t, "tests.no_such_key", i18n.T("kz", "tests.no_such_key"))
	assert.Equal(t, "nope", i18n.T("en", "nope"))
	assert.Equal(t, "tests", i18n.T("en", "tests"))
}
