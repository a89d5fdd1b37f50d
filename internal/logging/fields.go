package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError = "error"
	FieldPath  = "path"
	FieldBytes = "bytes"

	// Document fields.
	FieldValid      = "valid"
	FieldProblems   = "problems"
	FieldCategories = "categories"
	FieldItems      = "items"
	FieldIntent     = "intent"
	FieldEdits      = "edits"
	FieldKey        = "key"
	FieldRow        = "row"

	// Admin service fields.
	FieldAddr    = "addr"
	FieldMethod  = "method"
	FieldStatus  = "status"
	FieldUser    = "user"
	FieldSession = "session"
	FieldRemote  = "remote"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
