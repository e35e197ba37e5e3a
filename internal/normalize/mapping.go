package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/arielw/tablemend/internal/classify"
	"github.com/arielw/tablemend/internal/common"
)

// Mapping is the semantic column mapping: canonical field name to the
// header variants observed for it across the corpus. Order matters; it is
// the order canonical names claim columns in, so it is preserved from the
// configuration file. The mapping is read-only during a run.
type Mapping struct {
	Names    []string
	Variants map[string][]string
}

const mappingSchema = `{
	"type": "object",
	"minProperties": 1,
	"additionalProperties": {
		"type": "array",
		"minItems": 1,
		"items": {"type": "string", "minLength": 1}
	}
}`

var compiledMappingSchema = jsonschema.MustCompileString("column_mapping.schema.json", mappingSchema)

// LoadMapping reads and validates a mapping file. Empty path yields the
// built-in default mapping.
func LoadMapping(path string) (*Mapping, error) {
	if path == "" {
		return DefaultMapping(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, common.WrapError(err, "reading column mapping")
	}
	return ParseMapping(data)
}

// ParseMapping validates raw JSON against the mapping schema and decodes
// it preserving the file's key order.
func ParseMapping(data []byte) (*Mapping, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, common.WrapError(err, "parsing column mapping")
	}
	if err := compiledMappingSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: invalid column mapping: %v", common.ErrInvalidInput, err)
	}

	m := &Mapping{Variants: map[string][]string{}}
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil { // opening brace
		return nil, common.WrapError(err, "parsing column mapping")
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, common.WrapError(err, "parsing column mapping")
		}
		name := keyTok.(string)
		var variants []string
		if err := dec.Decode(&variants); err != nil {
			return nil, common.WrapError(err, "parsing column mapping")
		}
		m.Names = append(m.Names, name)
		m.Variants[name] = variants
	}
	return m, nil
}

// Encode serializes the mapping in canonical-name order.
func (m *Mapping) Encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, name := range m.Names {
		key, _ := json.Marshal(name)
		val, err := json.MarshalIndent(m.Variants[name], "  ", "  ")
		if err != nil {
			return nil, err
		}
		buf.WriteString("  ")
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(val)
		if i < len(m.Names)-1 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

// matchesVariant reports whether a column header matches one of the
// canonical name's variants: exact, cleaned case-insensitive, or a
// substring overlap where the shorter side has more than 2 characters and
// covers at least 70% of the longer side.
func (m *Mapping) matchesVariant(name, column string) bool {
	variants := m.Variants[name]
	colCleaned := classify.CleanHeader(column)
	for _, v := range variants {
		if column == v || colCleaned == v {
			return true
		}
	}
	colLower := strings.ToLower(colCleaned)
	for _, v := range variants {
		variantLower := strings.ToLower(classify.CleanHeader(v))
		if colLower == variantLower {
			return true
		}
		if substringOverlap(colLower, variantLower) {
			return true
		}
	}
	return false
}

func substringOverlap(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if !strings.Contains(a, b) && !strings.Contains(b, a) {
		return false
	}
	shorter, longer := len([]rune(a)), len([]rune(b))
	if shorter > longer {
		shorter, longer = longer, shorter
	}
	return shorter > 2 && float64(shorter) >= 0.7*float64(longer)
}

// DefaultMapping is the built-in semantic column mapping tuned against the
// corpus this pipeline was built for.
func DefaultMapping() *Mapping {
	names := []string{
		"ID", "First Name", "Last Name", "Employee Number", "Signature",
		"Title/Position", "Date of Birth", "Nationality", "Product Description",
		"Quantity", "Price", "Supply Date", "Row Number", "Balance", "Phone Number",
	}
	variants := map[string][]string{
		"ID": {
			"Passport/ ID", "מספר ת.ז", "תז", "ת״ז", "ת. ז", "I.D.", "ID",
			"Passport", "ת.ז", "מספר זהות", "תעודת זהות", "ת.ז.",
		},
		"First Name": {
			"First Name", "שם פרטי", "שם מלא", "First Name\n:selected:",
			"שם", "פרטי", "Student Name",
		},
		"Last Name": {
			"Last Name", "שם משפחה", "משפחה", "surname",
		},
		"Employee Number": {
			"מספר עובד. ת", "מספר עובד", "Employee ID", "עובד",
		},
		"Signature": {
			"חתימה", "Signature", "Sign",
		},
		"Title/Position": {
			"Title\n(Position/ Job description)", "Title", "Position", "Job", "תפקיד",
		},
		"Date of Birth": {
			"DOB\n(mm/dd/yyyy)", "DOB", "Date of Birth", "תאריך לידה",
		},
		"Nationality": {
			"Nationality", "לאום", "אזרחות",
		},
		"Product Description": {
			"תאור מוצר", "Product", "Description", "מוצר",
		},
		"Quantity": {
			"כמות", "Quantity", "Amount",
		},
		"Price": {
			"מחיר ליחידה", "סה״כ מחיר", "Price", "Total", "מחיר",
		},
		"Supply Date": {
			"ת. אספקה", "Supply Date", "תאריך אספקה",
		},
		"Row Number": {
			"שורה", "Row", "Line", "Index", "מספר", "#", "Number",
		},
		"Balance": {
			"יתרה לאספקה", "Balance", "Remaining", "יתרה",
		},
		"Phone Number": {
			"Phone", "טלפון", "נייד", "Mobile", "Phone Number", "מספר טלפון",
		},
	}
	return &Mapping{Names: names, Variants: variants}
}
