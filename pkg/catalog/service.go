package catalog

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var (
	// ErrDatasetNotFound is returned when a logical name has no dataset definition
	ErrDatasetNotFound = errors.New("dataset not found")
	// ErrDuplicateDataset is returned when two definitions share a logical name
	ErrDuplicateDataset = errors.New("duplicate dataset definition")
)

// Resolver provides logical-name resolution for the reference compiler
type Resolver interface {
	// Resolve returns the fully qualified physical identifier for a logical name
	Resolve(logicalName string) (string, error)

	// LookupEventTimeColumn returns the declared event-time column for a
	// logical name, or false when the dataset has no time axis
	LookupEventTimeColumn(logicalName string) (string, bool, error)

	// Get returns the full dataset definition for a logical name
	Get(logicalName string) (*Dataset, error)

	// Datasets returns all known dataset definitions
	Datasets() []*Dataset
}

// Service encapsulates the dataset catalog
type Service struct {
	config *Config
	log    logrus.FieldLogger

	datasets map[string]*Dataset
	order    []string
}

// NewService creates a new catalog service
func NewService(log logrus.FieldLogger, cfg *Config) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog configuration: %w", err)
	}

	return &Service{
		config:   cfg,
		log:      log.WithField("service", "catalog"),
		datasets: make(map[string]*Dataset),
	}, nil
}

// Start discovers and parses all dataset definitions
func (s *Service) Start() error {
	files, err := DiscoverPaths(s.config.Paths)
	if err != nil {
		return fmt.Errorf("failed to discover datasets: %w", err)
	}

	for _, file := range files {
		datasets, parseErr := ParseDatasetFile(file.Content)
		if parseErr != nil {
			return fmt.Errorf("failed to parse %s: %w", file.FilePath, parseErr)
		}

		for _, dataset := range datasets {
			if addErr := s.add(dataset); addErr != nil {
				return fmt.Errorf("%s: %w", file.FilePath, addErr)
			}
		}
	}

	s.log.WithField("datasets", len(s.datasets)).Info("Catalog service started")

	return nil
}

// Stop gracefully shuts down the catalog service
func (s *Service) Stop() error {
	return nil
}

// Add registers a dataset definition directly, applying defaults and
// validating it. Used by tests and by callers that build catalogs
// without a filesystem.
func (s *Service) Add(dataset *Dataset) error {
	return s.add(dataset)
}

func (s *Service) add(dataset *Dataset) error {
	dataset.SetDefaults(s.config.DefaultDatabase)

	if err := dataset.Validate(); err != nil {
		return err
	}

	if _, exists := s.datasets[dataset.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateDataset, dataset.Name)
	}

	s.datasets[dataset.Name] = dataset
	s.order = append(s.order, dataset.Name)

	return nil
}

// Resolve returns the fully qualified physical identifier for a logical name
func (s *Service) Resolve(logicalName string) (string, error) {
	dataset, err := s.Get(logicalName)
	if err != nil {
		return "", err
	}

	return dataset.PhysicalIdentifier(), nil
}

// LookupEventTimeColumn returns the declared event-time column, or false
// when the dataset has no time axis
func (s *Service) LookupEventTimeColumn(logicalName string) (string, bool, error) {
	dataset, err := s.Get(logicalName)
	if err != nil {
		return "", false, err
	}

	if dataset.EventTime == "" {
		return "", false, nil
	}

	return dataset.EventTime, true, nil
}

// Get returns the full dataset definition for a logical name
func (s *Service) Get(logicalName string) (*Dataset, error) {
	dataset, ok := s.datasets[logicalName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, logicalName)
	}

	return dataset, nil
}

// Datasets returns all known dataset definitions in discovery order
func (s *Service) Datasets() []*Dataset {
	out := make([]*Dataset, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.datasets[name])
	}

	return out
}

// datasetDocument is the on-disk shape of a dataset definition file:
// either a single dataset mapping or a "datasets" list
type datasetDocument struct {
	Datasets []*Dataset `yaml:"datasets"`
	Dataset  `yaml:",inline"`
}

// ParseDatasetFile parses a dataset definition file. A file holds either
// one dataset mapping or a list under a "datasets" key.
func ParseDatasetFile(content []byte) ([]*Dataset, error) {
	var doc datasetDocument
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, err
	}

	if len(doc.Datasets) > 0 {
		return doc.Datasets, nil
	}

	single := doc.Dataset

	return []*Dataset{&single}, nil
}
