package models

import (
	"fmt"

	"github.com/siftlabs/sift/pkg/catalog"
	"github.com/siftlabs/sift/pkg/compiler"
	"github.com/sirupsen/logrus"
)

// Service encapsulates model discovery, the dependency graph, and rendering
type Service struct {
	config *Config
	log    logrus.FieldLogger

	catalog        catalog.Resolver
	dag            *DependencyGraph
	templateEngine *TemplateEngine

	models []*Model
	byName map[string]*Model
}

// RenderedModel pairs a model with its rendered SQL
type RenderedModel struct {
	Model *Model
	SQL   string
}

// NewService creates a new models service over the given catalog
func NewService(log logrus.FieldLogger, cfg *Config, catalogSvc catalog.Resolver) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid models configuration: %w", err)
	}

	dag := NewDependencyGraph()

	return &Service{
		config:         cfg,
		log:            log.WithField("service", "models"),
		catalog:        catalogSvc,
		dag:            dag,
		templateEngine: NewTemplateEngine(log, dag),
		byName:         make(map[string]*Model),
	}, nil
}

// Start discovers and parses all models and builds the dependency graph
func (s *Service) Start() error {
	if err := s.parseModels(); err != nil {
		return err
	}

	if err := s.buildDAG(); err != nil {
		return err
	}

	s.log.WithField("models", len(s.models)).Info("Models service started")

	return nil
}

// Stop gracefully shuts down the models service
func (s *Service) Stop() error {
	return nil
}

func (s *Service) parseModels() error {
	files, err := DiscoverPaths(s.config.Paths)
	if err != nil {
		return fmt.Errorf("failed to discover models: %w", err)
	}

	for _, file := range files {
		model, parseErr := NewModel(file.Content, file.FilePath)
		if parseErr != nil {
			return parseErr
		}

		if addErr := s.AddModel(model); addErr != nil {
			return addErr
		}
	}

	return nil
}

// AddModel registers a parsed model, applying defaults and validating
// it. Used by tests and by callers that build projects in memory.
func (s *Service) AddModel(model *Model) error {
	model.SetDefaults(s.config.DefaultDatabase)

	if err := model.Validate(); err != nil {
		return err
	}

	if _, exists := s.byName[model.GetID()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateModel, model.GetID())
	}

	s.models = append(s.models, model)
	s.byName[model.GetID()] = model

	return nil
}

// BuildGraph builds the dependency graph from the registered models and
// the catalog. Exposed for callers that register models via AddModel.
func (s *Service) BuildGraph() error {
	return s.buildDAG()
}

func (s *Service) buildDAG() error {
	refs := make(map[string][]string, len(s.models))

	for _, model := range s.models {
		modelRefs, err := s.templateEngine.ScanReferences(model)
		if err != nil {
			return fmt.Errorf("model %s: %w", model.GetID(), err)
		}

		refs[model.GetID()] = modelRefs
	}

	return s.dag.BuildGraph(s.models, s.catalog.Datasets(), refs)
}

// GetDAG returns the dependency graph
func (s *Service) GetDAG() *DependencyGraph {
	return s.dag
}

// GetModel returns a registered model by logical name
func (s *Service) GetModel(name string) (*Model, error) {
	model, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, name)
	}

	return model, nil
}

// Models returns all registered models in render order
func (s *Service) Models() []*Model {
	return s.dag.ModelsInRenderOrder()
}

// Render renders a single model under the given compiler
func (s *Service) Render(name string, comp *compiler.Compiler, policy SamplePolicy) (string, error) {
	model, err := s.GetModel(name)
	if err != nil {
		return "", err
	}

	return s.templateEngine.Render(model, comp, policy)
}

// RenderAll renders every model in dependency order
func (s *Service) RenderAll(comp *compiler.Compiler, policy SamplePolicy) ([]RenderedModel, error) {
	ordered := s.dag.ModelsInRenderOrder()

	rendered := make([]RenderedModel, 0, len(ordered))
	for _, model := range ordered {
		sql, err := s.templateEngine.Render(model, comp, policy)
		if err != nil {
			return nil, fmt.Errorf("model %s: %w", model.GetID(), err)
		}

		rendered = append(rendered, RenderedModel{Model: model, SQL: sql})
	}

	return rendered, nil
}
