package grid

import (
	"strconv"

	"golang.org/x/text/language"

	"github.com/codeWuws/th-governance-web-sub002/pkg/jsonvalue"
)

// Placeholder is shown for missing and null values.
const Placeholder = "-"

// DefaultLocale is used when no locale is configured or none matches.
const DefaultLocale = "en"

var (
	boolLocales = []language.Tag{
		language.English,
		language.Chinese,
		language.German,
		language.French,
		language.Spanish,
		language.Japanese,
	}
	boolWords = [][2]string{
		{"yes", "no"},
		{"是", "否"},
		{"ja", "nein"},
		{"oui", "non"},
		{"sí", "no"},
		{"はい", "いいえ"},
	}
	boolMatcher = language.NewMatcher(boolLocales)
)

// Formatter turns cells into display text.
type Formatter struct {
	tag language.Tag
	yes string
	no  string
}

// NewFormatter returns a Formatter whose boolean words follow the best match
// for locale among the supported languages. Unknown or malformed locales
// fall back to English.
func NewFormatter(locale string) Formatter {
	_, idx := language.MatchStrings(boolMatcher, locale)
	return Formatter{tag: boolLocales[idx], yes: boolWords[idx][0], no: boolWords[idx][1]}
}

// Locale returns the matched language tag.
func (f Formatter) Locale() string {
	if f.yes == "" {
		return DefaultLocale
	}
	return f.tag.String()
}

// Format returns the display text of c.
func (f Formatter) Format(c Cell) string {
	if c.Missing {
		return Placeholder
	}
	return f.FormatValue(c.Value)
}

// FormatValue returns the display text of v:
//
//	null                  -
//	true / false          localised yes / no
//	[{...}, {...}]        [object array, 2 items]
//	[1, 2, 3]             [array, 3 items]
//	{...}                 [object]
//
// Numbers and strings are shown as written.
func (f Formatter) FormatValue(v jsonvalue.Value) string {
	switch v.Kind() {
	case jsonvalue.KindNull:
		return Placeholder
	case jsonvalue.KindBool:
		if f.yes == "" {
			f = NewFormatter(DefaultLocale)
		}
		if v.Bool() {
			return f.yes
		}
		return f.no
	case jsonvalue.KindArray:
		if v.IsObjectArray() {
			return "[object array, " + itemCount(v.Len()) + "]"
		}
		return "[array, " + itemCount(v.Len()) + "]"
	case jsonvalue.KindObject:
		return "[object]"
	default:
		return v.Literal()
	}
}

func itemCount(n int) string {
	return strconv.Itoa(n) + " items"
}
