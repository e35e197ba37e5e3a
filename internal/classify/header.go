package classify

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	reSelected    = regexp.MustCompile(`:selected:|:unselected:`)
	reArabic      = regexp.MustCompile(`[\x{0600}-\x{06FF}]`)
	reLatinExt    = regexp.MustCompile(`[\x{0080}-\x{00FF}]`)
	rePinvisRun   = regexp.MustCompile(`[V()]\s*PINVIS.*`)
	reNdDoisRun   = regexp.MustCompile(`\d+Nd\s+DOIS.*`)
	reGoodNeutral = regexp.MustCompile(`Good\s*Neutral.*`)
	reInlineDate  = regexp.MustCompile(`\d+/\d+/\d+`)
	reNewlines    = regexp.MustCompile(`\n+`)
	reSpaces      = regexp.MustCompile(`\s+`)
	reHTMLTag     = regexp.MustCompile(`<[^>]+>`)
	reQuoteParen  = regexp.MustCompile(`[()"']`)
	reControl     = regexp.MustCompile(`[\x{0000}-\x{001F}\x{007F}-\x{009F}]`)
	reDisallowed  = regexp.MustCompile(`[^\w\x{0590}-\x{05FF}\s.\-]`)
)

// CleanHeader normalizes a raw header cell: strips selection markers,
// foreign-script bleed, known artifact runs, HTML fragments and control
// characters, then collapses whitespace. NFC normalization first so that
// decomposed Hebrew marks from OCR compare equal to the mapping variants.
func CleanHeader(name string) string {
	if name == "" {
		return ""
	}
	cleaned := norm.NFC.String(strings.TrimSpace(name))

	if strings.HasPrefix(cleaned, "Unnamed:") {
		return ""
	}

	cleaned = reSelected.ReplaceAllString(cleaned, "")
	cleaned = reArabic.ReplaceAllString(cleaned, "")
	cleaned = reLatinExt.ReplaceAllString(cleaned, "")
	cleaned = rePinvisRun.ReplaceAllString(cleaned, "")
	cleaned = reNdDoisRun.ReplaceAllString(cleaned, "")
	cleaned = reGoodNeutral.ReplaceAllString(cleaned, "")
	cleaned = reInlineDate.ReplaceAllString(cleaned, "")
	cleaned = reNewlines.ReplaceAllString(cleaned, " ")
	cleaned = reHTMLTag.ReplaceAllString(cleaned, "")
	cleaned = reQuoteParen.ReplaceAllString(cleaned, "")
	cleaned = reControl.ReplaceAllString(cleaned, "")
	cleaned = reDisallowed.ReplaceAllString(cleaned, "")
	cleaned = strings.Join(strings.Fields(reSpaces.ReplaceAllString(cleaned, " ")), " ")

	if strings.HasSuffix(cleaned, ".") && len([]rune(cleaned)) > 3 {
		cleaned = strings.TrimRight(cleaned, ".")
	}
	cleaned = strings.Trim(cleaned, ".-_")

	return cleaned
}

// CleanHeaders filters and normalizes a header row. Cells judged to be data
// are blanked so downstream flattening replaces them with Column_N names;
// valid headers are artifact-stripped and whitespace-collapsed.
func CleanHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if h == "" || strings.HasPrefix(h, "Unnamed:") || LooksLikeData(h) {
			out[i] = ""
			continue
		}
		s := reSelected.ReplaceAllString(h, "")
		s = reNewlines.ReplaceAllString(s, " ")
		s = reSpaces.ReplaceAllString(s, " ")
		out[i] = strings.TrimSpace(s)
	}
	return out
}
