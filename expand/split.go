package expand

import (
	"strings"

	"github.com/shellwalk/shellcore/shellcontext"
)

const defaultIFS = " \t\n"

// IFS returns the effective Internal Field Separator: the real,
// settable parameter if bound, otherwise the default whitespace set.
func IFS(ctx *shellcontext.Context) string {
	if v, ok := ctx.Get("IFS"); ok {
		return v
	}
	return defaultIFS
}

// splitFields splits an assembled word into fields on IFS characters
// appearing at unprotected byte positions. Runs of unprotected IFS
// characters collapse (matching the default whitespace-IFS behavior);
// protected (quoted) bytes are never treated as separators. forceField
// keeps a single empty field when the source was an explicit empty
// quote pair ("" or '') rather than collapsing to zero fields.
func splitFields(text string, protected []bool, ifsChars string, forceField bool) []string {
	if text == "" {
		if forceField {
			return []string{""}
		}
		return nil
	}
	if ifsChars == "" {
		return []string{text}
	}
	var fields []string
	var cur strings.Builder
	has := false
	flush := func() {
		if has {
			fields = append(fields, cur.String())
			cur.Reset()
			has = false
		}
	}
	for i := 0; i < len(text); i++ {
		c := text[i]
		prot := i < len(protected) && protected[i]
		if !prot && strings.IndexByte(ifsChars, c) >= 0 {
			flush()
			continue
		}
		cur.WriteByte(c)
		has = true
	}
	flush()
	return fields
}

// SplitFields splits s on the context's effective IFS, with no quote
// protection — used by builtins (`read`) that split already-expanded
// text rather than a Word.
func SplitFields(ctx *shellcontext.Context, s string) []string {
	return splitFields(s, nil, IFS(ctx), false)
}
