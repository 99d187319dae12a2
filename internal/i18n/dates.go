package i18n

import (
	"slices"
	"time"

	"github.com/goodsign/monday"
	"golang.org/x/text/language"
)

var supportedLocales = monday.ListLocales()

// Locale resolves a site language ("de", "pt-BR", "en_GB") to a date
// formatting locale, guessing the most likely region when none is given.
// Unknown languages fall back to en_US.
func Locale(lang string) monday.Locale {
	tag, err := language.Parse(lang)
	if err != nil {
		return monday.LocaleEnUS
	}
	base, _ := tag.Base()
	region, _ := tag.Region()
	loc := monday.Locale(base.String() + "_" + region.String())
	if slices.Contains(supportedLocales, loc) {
		return loc
	}
	return monday.LocaleEnUS
}

// LongDate formats t as a long calendar date in lang, e.g. "March 1, 2024" or
// "1. März 2024".
func LongDate(t time.Time, lang string) string {
	loc := Locale(lang)
	layout, ok := monday.LongFormatsByLocale[loc]
	if !ok {
		layout = monday.LongFormatsByLocale[monday.LocaleEnUS]
	}
	return monday.Format(t, layout, loc)
}
