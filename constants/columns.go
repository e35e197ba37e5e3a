package constants

// Canonical column names used across the corpus-wide output.
const (
	ColSourceFile  = "Source File"
	ColError       = "Error"
	ColID          = "ID"
	ColMilitaryID  = "Military ID"
	ColFirstName   = "First Name"
	ColLastName    = "Last Name"
	ColEmployeeNum = "Employee Number"
	ColRowNumber   = "Row Number"
)

// PreferredColumnOrder is the fixed semantic ordering of output columns,
// applied after Source File and before any unmapped columns.
var PreferredColumnOrder = []string{
	"ID", "First Name", "Last Name", "Employee Number",
	"Title/Position", "Date of Birth", "Nationality", "Phone Number",
	"Product Description", "Quantity", "Price", "Supply Date",
	"Row Number", "Balance", "Signature",
}
