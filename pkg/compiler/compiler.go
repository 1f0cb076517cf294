// Package compiler rewrites logical dataset references into physical
// SQL fragments, applying a trailing event-time window in sample mode.
package compiler

import (
	"errors"
	"fmt"

	"github.com/siftlabs/sift/pkg/catalog"
	"github.com/siftlabs/sift/pkg/dialect"
	"github.com/siftlabs/sift/pkg/sample"
)

var (
	// ErrMissingEventTime is returned when sampling is requested for a
	// dataset with no declared event-time column
	ErrMissingEventTime = errors.New("dataset has no event-time column")
	// ErrUnresolvedReference is returned when a reference has no physical identifier
	ErrUnresolvedReference = errors.New("reference has no physical identifier")
)

// Reference is a resolved dataset reference as it occurs in templated SQL
type Reference struct {
	LogicalName        string
	PhysicalIdentifier string
	// EventTimeColumn is the dataset's declared time axis; empty when the
	// dataset has none
	EventTimeColumn string
}

// Fragment is a standalone SQL fragment substitutable verbatim at the
// reference's call site
type Fragment struct {
	SQL string
	// Sampled reports whether a sample-window predicate was applied
	Sampled bool
}

// String returns the fragment SQL
func (f Fragment) String() string {
	return f.SQL
}

// Subquery returns the fragment parenthesized for call sites inside a
// larger statement
func (f Fragment) Subquery() string {
	return "(" + f.SQL + ")"
}

// Context carries the invocation-wide compilation settings. It is
// constructed once per invocation and read-only afterwards, so compiles
// may run concurrently against a shared Context.
type Context struct {
	window  *sample.Window
	dialect dialect.Dialect
}

// NewContext creates a compilation context. A nil window selects
// standard, unfiltered compilation.
func NewContext(window *sample.Window, d dialect.Dialect) *Context {
	if d == nil {
		d, _ = dialect.New(dialect.NameGeneric)
	}

	return &Context{window: window, dialect: d}
}

// Window returns the sample window, or nil when sampling is inactive
func (c *Context) Window() *sample.Window {
	return c.window
}

// Dialect returns the context's SQL dialect
func (c *Context) Dialect() dialect.Dialect {
	return c.dialect
}

// Sampled reports whether the context compiles in sample mode
func (c *Context) Sampled() bool {
	return c.window != nil
}

// Compile produces the SQL fragment selecting from the referenced
// dataset. Without a sample window the output is the unfiltered
// baseline; with one, the fragment is constrained to the trailing
// window via the dialect's deferred current-timestamp expression.
// Sampling a dataset with no event-time column fails with
// ErrMissingEventTime rather than silently skipping the filter.
func Compile(ref Reference, ctx *Context) (Fragment, error) {
	if ref.PhysicalIdentifier == "" {
		return Fragment{}, fmt.Errorf("%w: %s", ErrUnresolvedReference, ref.LogicalName)
	}

	base := "SELECT * FROM " + ref.PhysicalIdentifier

	if ctx == nil || ctx.window == nil {
		return Fragment{SQL: base}, nil
	}

	if ref.EventTimeColumn == "" {
		return Fragment{}, fmt.Errorf("%w: %s", ErrMissingEventTime, ref.LogicalName)
	}

	predicate := ctx.dialect.WindowPredicate(ref.EventTimeColumn, ctx.window)

	return Fragment{SQL: base + " WHERE " + predicate, Sampled: true}, nil
}

// Compiler binds a compilation context to a catalog resolver so that
// references can be compiled directly from logical names
type Compiler struct {
	resolver catalog.Resolver
	ctx      *Context
}

// NewCompiler creates a compiler over the given resolver and context
func NewCompiler(resolver catalog.Resolver, ctx *Context) *Compiler {
	return &Compiler{resolver: resolver, ctx: ctx}
}

// Context returns the compiler's compilation context
func (c *Compiler) Context() *Context {
	return c.ctx
}

// Resolver returns the compiler's catalog resolver
func (c *Compiler) Resolver() catalog.Resolver {
	return c.resolver
}

// CompileName resolves a logical name through the catalog and compiles
// the resulting reference. Resolver errors propagate unchanged.
func (c *Compiler) CompileName(logicalName string) (Fragment, error) {
	physical, err := c.resolver.Resolve(logicalName)
	if err != nil {
		return Fragment{}, err
	}

	column, _, err := c.resolver.LookupEventTimeColumn(logicalName)
	if err != nil {
		return Fragment{}, err
	}

	return Compile(Reference{
		LogicalName:        logicalName,
		PhysicalIdentifier: physical,
		EventTimeColumn:    column,
	}, c.ctx)
}
