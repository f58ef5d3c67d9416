package store

import (
	"github.com/Ravou/Neurograph/internal/types"
)

// Error codes for store operations.
const (
	// ErrCodeSchemaSetupFailed is fatal: the system must not serve traffic
	// when constraints or indexes could not be applied.
	ErrCodeSchemaSetupFailed types.ErrorCode = "SCHEMA_SETUP_FAILED"

	ErrCodeInvalidLabel  types.ErrorCode = "INVALID_LABEL"
	ErrCodeInvalidInput  types.ErrorCode = "INVALID_INPUT"
	ErrCodeStoreInternal types.ErrorCode = "STORE_INTERNAL"
)
