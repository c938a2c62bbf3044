package cli

// Error codes reported in the JSON envelope.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeConfig      = "E010" // Config file rejected
	ErrCodeProject     = "E011" // Project could not be opened
	ErrCodeLedger      = "E012" // Ledger database error

	ErrCodeNoAssets    = "E020" // Discovery found nothing
	ErrCodeItemsFailed = "E021" // Some items failed
	ErrCodeOutputRoot  = "E022" // Output root unusable

	ErrCodeInvalidIR = "E030" // IR file failed to decode

	ErrCodeScenarioFailed = "E040" // Harness scenario failed
)
