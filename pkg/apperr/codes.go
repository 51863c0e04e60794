package apperr

type Code string

const (
	CodeUnknown           Code = "UNKNOWN"
	CodeDuplicateEntry    Code = "DUPLICATE_ENTRY"
	CodeNotFound          Code = "NOT_FOUND"
	CodeOwnershipMismatch Code = "OWNERSHIP_MISMATCH"
	CodeInvalidValue      Code = "INVALID_VALUE"
	CodeInvalidTransition Code = "INVALID_TRANSITION"
	CodeInternal          Code = "INTERNAL"
)
