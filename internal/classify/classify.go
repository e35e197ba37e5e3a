// Package classify holds the data-vs-header oracles shared by the structure
// detector and the corpus-wide normalizer. All functions are pure: same
// input, same answer, no errors. Ambiguous input classifies as "not a match".
package classify

import (
	"regexp"
	"strings"
)

var (
	reDateSlash = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2,4}`)
	reDateISO   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	reDateDot   = regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.\d{2,4}`)

	reIDNumber  = regexp.MustCompile(`^\d{7,12}$`)
	rePhoneDash = regexp.MustCompile(`^\d{3}-\d{3}-\d{4}$`)
	rePhoneBare = regexp.MustCompile(`^\d{10}$`)

	reHebrewWord  = regexp.MustCompile(`[\x{0590}-\x{05FF}]+`)
	reEnglishWord = regexp.MustCompile(`[a-zA-Z]+`)

	// ID shapes. The grouped pattern covers OCR splitting a 9-digit ID
	// into two runs ("255 87932").
	reGroupedID  = regexp.MustCompile(`^\d{2,3}\s*\d{5,6}$`)
	reNineDigit  = regexp.MustCompile(`^\d{9}$`)
	reEightToTen = regexp.MustCompile(`^\d{8,10}$`)

	reRegularID  = regexp.MustCompile(`^\d{9}$`)
	reMilitaryID = regexp.MustCompile(`^\d{7,8}$`)
	reGeneralID  = regexp.MustCompile(`^\d{7,10}$`)

	reLongDigitRun = regexp.MustCompile(`\d{7,}`)
	reDigits       = regexp.MustCompile(`\d+`)

	// A short name immediately followed by a long digit run, one OCR cell
	// holding what should have been two columns.
	reNameThenID = regexp.MustCompile(`[\x{0590}-\x{05FF}a-zA-Z][\x{0590}-\x{05FF}a-zA-Z\s.'-]*\d{8,}`)
)

// ocrArtifacts are misread substrings that are clearly not headers.
var ocrArtifacts = []string{"V(PINVIS", "Nd DOIS", "Good Neutral", ":selected:", ":unselected:"}

// headerVocabulary is the multilingual domain vocabulary that marks a cell
// as a plausible column name.
var headerVocabulary = []string{
	"id", "name", "שם", "ת.ז", "תז", "ת״ז", "מספר", "זהות",
	"first", "last", "תפקיד", "position", "employee",
}

// uiVocabulary marks rows that are spreadsheet chrome captured by OCR,
// not table content.
var uiVocabulary = []string{
	"formula bar", "selected", ":selected:", "unselected", ":unselected:",
	"column_", "row_", "cell_", "sheet", "workbook",
}

// LooksLikeData reports whether a string's content pattern indicates it is
// data rather than a column name. Any single rule deciding true is
// sufficient. Empty input is not data.
func LooksLikeData(value string) bool {
	v := strings.TrimSpace(value)
	if v == "" {
		return false
	}

	if reDateSlash.MatchString(v) || reDateISO.MatchString(v) || reDateDot.MatchString(v) {
		return true
	}
	if reIDNumber.MatchString(v) {
		return true
	}
	if rePhoneDash.MatchString(v) || rePhoneBare.MatchString(v) {
		return true
	}

	hebrewWords := reHebrewWord.FindAllString(v, -1)
	if len(hebrewWords) >= 3 {
		return true
	}
	// The Hebrew conjunction "ו" between names suggests multiple people in
	// one cell.
	if strings.Contains(v, "ו") && len(hebrewWords) >= 2 {
		return true
	}

	if len([]rune(v)) > 25 {
		return true
	}
	if (strings.Contains(v, "|") || strings.Contains(v, ",")) && len([]rune(v)) > 8 {
		return true
	}

	for _, artifact := range ocrArtifacts {
		if strings.Contains(v, artifact) {
			return true
		}
	}
	return false
}

// IsIDLike reports whether a value looks like a personal ID number,
// including OCR-grouped digit runs.
func IsIDLike(value string) bool {
	v := strings.TrimSpace(value)
	if v == "" {
		return false
	}
	return reGroupedID.MatchString(v) || reNineDigit.MatchString(v) || reEightToTen.MatchString(v)
}

// IDKind classifies a bare digit string into an identity column target.
type IDKind int

const (
	IDNone IDKind = iota
	IDRegular
	IDMilitary
	IDGeneral
)

// ClassifyID matches a trimmed value against the ID shapes: 9 digits is a
// regular ID, 7-8 digits a military ID, any 7-10 digit run a general ID.
func ClassifyID(value string) IDKind {
	v := strings.TrimSpace(value)
	switch {
	case reRegularID.MatchString(v):
		return IDRegular
	case reMilitaryID.MatchString(v):
		return IDMilitary
	case reGeneralID.MatchString(v):
		return IDGeneral
	default:
		return IDNone
	}
}

// IsGeneralID reports whether the value is a bare 7-10 digit run.
func IsGeneralID(value string) bool {
	return reGeneralID.MatchString(strings.TrimSpace(value))
}

// HasHeaderVocabulary reports whether the cell contains any known header
// keyword, in either script.
func HasHeaderVocabulary(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return false
	}
	for _, word := range headerVocabulary {
		if strings.Contains(v, word) {
			return true
		}
	}
	return false
}

// RowHasHeaderVocabulary reports whether any cell in the row contains a
// header keyword.
func RowHasHeaderVocabulary(row []string) bool {
	for _, cell := range row {
		if HasHeaderVocabulary(cell) {
			return true
		}
	}
	return false
}

// IsSpreadsheetLetter reports whether the value is a bare spreadsheet
// column letter (A-Z).
func IsSpreadsheetLetter(value string) bool {
	v := strings.TrimSpace(value)
	return len(v) == 1 && v[0] >= 'A' && v[0] <= 'Z'
}

// IsUIRow reports whether a row is spreadsheet chrome (formula bar,
// selection markers, sheet navigation) rather than table content.
func IsUIRow(row []string) bool {
	for _, cell := range row {
		c := strings.ToLower(strings.TrimSpace(cell))
		if c == "" {
			continue
		}
		for _, token := range uiVocabulary {
			if strings.Contains(c, token) {
				return true
			}
		}
		if IsSpreadsheetLetter(strings.TrimSpace(cell)) {
			return true
		}
	}
	return false
}

// HasEmbeddedID reports whether a cell holds name-like text immediately
// followed by an 8+ digit number, a sign OCR merged two columns.
func HasEmbeddedID(value string) bool {
	return reNameThenID.MatchString(strings.TrimSpace(value))
}

// HasLongDigitRun reports whether the value contains a 7+ digit run
// anywhere.
func HasLongDigitRun(value string) bool {
	return reLongDigitRun.MatchString(value)
}

// HebrewWordCount counts the Hebrew-script word runs in a value.
func HebrewWordCount(value string) int {
	return len(reHebrewWord.FindAllString(value, -1))
}

// IsMostlyText reports whether the cell is alphabetic text rather than
// numbers or punctuation.
func IsMostlyText(value string) bool {
	v := strings.TrimSpace(value)
	if v == "" {
		return false
	}
	letters, digits := 0, 0
	for _, r := range v {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= 0x0590 && r <= 0x05FF):
			letters++
		}
	}
	return letters > digits
}

// TitleLike reports whether the row reads like a document title or
// metadata line: a date-leading cell, or a single cell carrying a run of
// 3+ consecutive words. The run must sit inside one cell; three one-word
// header cells are not a title.
func TitleLike(row []string) bool {
	for _, cell := range row {
		v := strings.TrimSpace(cell)
		if v == "" {
			continue
		}
		if reDateSlash.MatchString(v) || reDateDot.MatchString(v) {
			return true
		}
		if HasHeaderVocabulary(v) {
			continue
		}
		wordish := 0
		for _, w := range strings.Fields(v) {
			if reDigits.MatchString(w) {
				wordish = 0
				continue
			}
			wordish++
			if wordish >= 3 {
				return true
			}
		}
	}
	return false
}
