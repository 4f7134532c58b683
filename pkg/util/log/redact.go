package log

import "regexp"

const redacted = "[redacted]"

// Obscurer masks the values of a fixed set of keys in json documents
type Obscurer struct {
	masks []mask
}

type mask struct {
	str         *regexp.Regexp
	num         *regexp.Regexp
	replacement string
}

// NewObscurer compiles the masks for fields once, the result is safe for concurrent use
func NewObscurer(fields ...string) *Obscurer {
	o := &Obscurer{masks: make([]mask, 0, len(fields))}
	for _, field := range fields {
		quoted := regexp.QuoteMeta(field)
		o.masks = append(o.masks, mask{
			str:         regexp.MustCompile(`"` + quoted + `"\s*:\s*"(?:[^"\\]|\\.)*"`),
			num:         regexp.MustCompile(`"` + quoted + `"\s*:\s*-?[0-9][0-9.eE+-]*`),
			replacement: `"` + field + `": "` + redacted + `"`,
		})
	}
	return o
}

// JSON returns body with the value of every masked key replaced
func (o *Obscurer) JSON(body []byte) string {
	jsn := string(body)
	for _, m := range o.masks {
		jsn = m.str.ReplaceAllLiteralString(jsn, m.replacement)
		jsn = m.num.ReplaceAllLiteralString(jsn, m.replacement)
	}
	return jsn
}
