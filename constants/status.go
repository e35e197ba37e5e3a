package constants

// DocStatus is the canonical outcome for a processed document.
type DocStatus string

// Stable values (cache rows store these exact strings).
const (
	DocStatusQueued   DocStatus = "QUEUED"   // waiting for a worker
	DocStatusRunning  DocStatus = "RUNNING"  // OCR or repair in progress
	DocStatusOK       DocStatus = "OK"       // canonical table produced
	DocStatusNoTables DocStatus = "NO_TABLES" // backend found no table regions
	DocStatusFailed   DocStatus = "FAILED"   // terminal failure for this document
)
