package errors

// ErrorCode is the typed identifier of a specific failure category.  Codes are
// stable strings so that they can be matched in logs and surfaced as metric
// labels without parsing message text.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes shared across layers.
const (
	CodeOK           ErrorCode = "OK"
	CodeUnknown      ErrorCode = "COMMON_000"
	CodeInternal     ErrorCode = "COMMON_001"
	CodeInvalidParam ErrorCode = "COMMON_002"
	CodeNotFound     ErrorCode = "COMMON_003"
	CodeConflict     ErrorCode = "COMMON_004"
	CodeTimeout      ErrorCode = "COMMON_005"
	CodeUnavailable  ErrorCode = "COMMON_006"
)

// Molecule graph and SMILES ingestion error codes.
const (
	CodeSMILESEmpty        ErrorCode = "MOL_001"
	CodeSMILESInvalidChar  ErrorCode = "MOL_002"
	CodeSMILESUnbalanced   ErrorCode = "MOL_003"
	CodeSMILESParseFailed  ErrorCode = "MOL_004"
	CodeSMILESRingUnclosed ErrorCode = "MOL_005"
	CodeUnknownElement     ErrorCode = "MOL_006"
	CodeBondAtomOutOfRange ErrorCode = "MOL_007"
	CodeMoleculeEmpty      ErrorCode = "MOL_008"
	CodeDuplicateBond      ErrorCode = "MOL_009"
	CodePatternInvalid     ErrorCode = "MOL_010"
)

// Naming pipeline error codes.  Most pipeline abnormalities are represented as
// non-fatal Conflict values on the naming result, not as errors; these codes
// cover the few conditions that justify refusing a call outright plus the
// loader and cache surfaces around the pipeline.
const (
	CodeNamingPrecondition ErrorCode = "NOM_001"
	CodeNamingTableInvalid ErrorCode = "NOM_002"
	CodeCorpusInvalid      ErrorCode = "NOM_003"
	CodeCacheUnavailable   ErrorCode = "NOM_004"
)
