package models

import (
	"bytes"
	"errors"
	"fmt"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/siftlabs/sift/pkg/compiler"
	"github.com/siftlabs/sift/pkg/observability"
	"github.com/sirupsen/logrus"
)

// SamplePolicy decides what happens when sample mode encounters a
// reference to a dataset with no declared event-time column
type SamplePolicy string

const (
	// SamplePolicyWarn logs the reference and emits it unfiltered
	SamplePolicyWarn SamplePolicy = "warn"
	// SamplePolicyStrict aborts the render
	SamplePolicyStrict SamplePolicy = "strict"
)

// TemplateEngine renders model SQL templates, binding ref and source
// calls to the reference compiler
type TemplateEngine struct {
	log     logrus.FieldLogger
	funcMap template.FuncMap
	dag     *DependencyGraph
}

// NewTemplateEngine creates a new template engine for rendering models
func NewTemplateEngine(log logrus.FieldLogger, dag *DependencyGraph) *TemplateEngine {
	return &TemplateEngine{
		log:     log.WithField("component", "template"),
		funcMap: sprig.TxtFuncMap(),
		dag:     dag,
	}
}

// Render renders a model template. Each ref/source call resolves its
// logical name and compiles under the invocation's compilation context,
// so every reference in one render is filtered (or not) consistently.
func (t *TemplateEngine) Render(model *Model, comp *compiler.Compiler, policy SamplePolicy) (string, error) {
	start := time.Now()

	funcs := t.buildFuncs(model, comp, policy)

	tmpl, err := template.New("model").Funcs(funcs).Parse(model.GetValue())
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, t.buildVariables(model, comp)); err != nil {
		observability.RenderDuration.WithLabelValues(model.GetID(), "failed").Observe(time.Since(start).Seconds())
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	observability.RenderDuration.WithLabelValues(model.GetID(), "success").Observe(time.Since(start).Seconds())

	return buf.String(), nil
}

// ScanReferences returns the logical names referenced by a model's
// template without compiling them, for dependency graph construction
func (t *TemplateEngine) ScanReferences(model *Model) ([]string, error) {
	var refs []string
	seen := make(map[string]bool)

	record := func(name string) (string, error) {
		if !seen[name] {
			seen[name] = true
			refs = append(refs, name)
		}
		return "_scan_", nil
	}

	funcs := template.FuncMap{}
	for name, fn := range t.funcMap {
		funcs[name] = fn
	}
	funcs["ref"] = record
	funcs["source"] = record

	tmpl, err := template.New("model").Funcs(funcs).Parse(model.GetValue())
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, t.buildVariables(model, nil)); err != nil {
		return nil, fmt.Errorf("failed to scan references: %w", err)
	}

	return refs, nil
}

// buildFuncs returns the template funcs for a render pass. ref resolves
// models first, then catalog datasets; source resolves datasets only.
func (t *TemplateEngine) buildFuncs(model *Model, comp *compiler.Compiler, policy SamplePolicy) template.FuncMap {
	funcs := template.FuncMap{}
	for name, fn := range t.funcMap {
		funcs[name] = fn
	}

	funcs["ref"] = func(name string) (string, error) {
		node, err := t.dag.GetNode(name)
		if err == nil && node.NodeType == NodeTypeModel {
			ref := compiler.Reference{
				LogicalName:        name,
				PhysicalIdentifier: node.Model.PhysicalIdentifier(),
				EventTimeColumn:    node.Model.EventTime,
			}
			return t.emit(model, name, ref, comp, policy, func() (compiler.Fragment, error) {
				return compiler.Compile(ref, comp.Context())
			})
		}

		return t.emitDataset(model, name, comp, policy)
	}

	funcs["source"] = func(name string) (string, error) {
		return t.emitDataset(model, name, comp, policy)
	}

	return funcs
}

// emitDataset compiles a catalog dataset reference
func (t *TemplateEngine) emitDataset(model *Model, name string, comp *compiler.Compiler, policy SamplePolicy) (string, error) {
	return t.emit(model, name, compiler.Reference{LogicalName: name}, comp, policy, func() (compiler.Fragment, error) {
		return comp.CompileName(name)
	})
}

// emit runs a compile and applies the sample policy to its outcome
func (t *TemplateEngine) emit(model *Model, name string, ref compiler.Reference, comp *compiler.Compiler, policy SamplePolicy, compile func() (compiler.Fragment, error)) (string, error) {
	fragment, err := compile()
	if err != nil {
		if !errors.Is(err, compiler.ErrMissingEventTime) || policy == SamplePolicyStrict {
			return "", err
		}

		// warn-and-skip: the reference is emitted unfiltered, loudly
		t.log.WithFields(logrus.Fields{
			"model":     model.GetID(),
			"reference": name,
		}).Warn("Sample mode skipped reference with no event-time column")
		observability.SampleSkipsTotal.WithLabelValues(model.GetID(), name).Inc()

		fragment, err = t.compileUnfiltered(name, ref, comp)
		if err != nil {
			return "", err
		}
	}

	observability.RefsCompiledTotal.WithLabelValues(model.GetID(), fmt.Sprintf("%t", fragment.Sampled)).Inc()

	return fragment.Subquery(), nil
}

// compileUnfiltered recompiles a reference without the sample window
func (t *TemplateEngine) compileUnfiltered(name string, ref compiler.Reference, comp *compiler.Compiler) (compiler.Fragment, error) {
	if ref.PhysicalIdentifier != "" {
		return compiler.Compile(ref, nil)
	}

	physical, err := comp.Resolver().Resolve(name)
	if err != nil {
		return compiler.Fragment{}, err
	}

	return compiler.Compile(compiler.Reference{LogicalName: name, PhysicalIdentifier: physical}, nil)
}

// buildVariables creates the base template variables
func (t *TemplateEngine) buildVariables(model *Model, comp *compiler.Compiler) map[string]interface{} {
	sampleVars := map[string]interface{}{
		"active": false,
		"window": "",
	}

	if comp != nil && comp.Context().Sampled() {
		sampleVars["active"] = true
		sampleVars["window"] = comp.Context().Window().String()
	}

	return map[string]interface{}{
		"self": map[string]interface{}{
			"name":     model.GetID(),
			"database": model.Database,
			"table":    model.Table,
		},
		"sample": sampleVars,
	}
}
