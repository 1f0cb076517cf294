package models

import "errors"

// Model-specific errors
var (
	ErrModelNotFound      = errors.New("model not found")
	ErrDuplicateModel     = errors.New("duplicate model name")
	ErrUnknownReference   = errors.New("reference to unknown model or dataset")
	ErrInvalidFrontmatter = errors.New("invalid frontmatter")
	ErrSQLContentRequired = errors.New("sql content is required")
	ErrTableRequired      = errors.New("table is required")
	ErrDatabaseRequired   = errors.New("database is required")
)
