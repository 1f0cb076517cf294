package models

import (
	"fmt"
	"sort"
	"sync"

	"github.com/heimdalr/dag"
	"github.com/siftlabs/sift/pkg/catalog"
)

// NodeType represents the type of a node in the dependency graph
type NodeType string

const (
	// NodeTypeModel represents a templated SQL model node
	NodeTypeModel NodeType = "model"
	// NodeTypeDataset represents a catalog dataset node
	NodeTypeDataset NodeType = "dataset"
)

// Node represents a node in the dependency graph
type Node struct {
	NodeType NodeType
	Model    *Model
	Dataset  *catalog.Dataset
}

// ID returns the node's logical name
func (n Node) ID() string {
	if n.NodeType == NodeTypeModel {
		return n.Model.GetID()
	}

	return n.Dataset.GetID()
}

// DependencyGraph manages the reference graph between models and datasets
type DependencyGraph struct {
	dag   *dag.DAG
	mutex sync.RWMutex
}

// NewDependencyGraph creates an empty dependency graph
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		dag: dag.NewDAG(),
	}
}

// BuildGraph constructs the graph from models and catalog datasets.
// References are edges from the referenced node to the referencing
// model, so descendants of a dataset are the models built on it. Edge
// insertion rejects cycles.
func (d *DependencyGraph) BuildGraph(models []*Model, datasets []*catalog.Dataset, refs map[string][]string) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	for _, dataset := range datasets {
		node := Node{NodeType: NodeTypeDataset, Dataset: dataset}
		if err := d.dag.AddVertexByID(dataset.GetID(), node); err != nil {
			return fmt.Errorf("failed to add dataset %s: %w", dataset.GetID(), err)
		}
	}

	for _, model := range models {
		node := Node{NodeType: NodeTypeModel, Model: model}
		if err := d.dag.AddVertexByID(model.GetID(), node); err != nil {
			return fmt.Errorf("failed to add model %s: %w", model.GetID(), err)
		}
	}

	for _, model := range models {
		for _, refID := range refs[model.GetID()] {
			if _, err := d.dag.GetVertex(refID); err != nil {
				return fmt.Errorf("%w: %s references %s", ErrUnknownReference, model.GetID(), refID)
			}

			if err := d.dag.AddEdge(refID, model.GetID()); err != nil {
				return fmt.Errorf("failed to add reference %s -> %s: %w", refID, model.GetID(), err)
			}
		}
	}

	return nil
}

// GetNode retrieves a node by its logical name
func (d *DependencyGraph) GetNode(id string) (Node, error) {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	vertex, err := d.dag.GetVertex(id)
	if err != nil {
		return Node{}, fmt.Errorf("%w: %s", ErrModelNotFound, id)
	}

	node, ok := vertex.(Node)
	if !ok {
		return Node{}, fmt.Errorf("%w: %s", ErrModelNotFound, id)
	}

	return node, nil
}

// GetReferences returns the direct references of a model (its parents)
func (d *DependencyGraph) GetReferences(id string) []string {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	parents, err := d.dag.GetParents(id)
	if err != nil {
		return nil
	}

	return sortedIDs(parents)
}

// GetDependents returns the models that directly reference the given node
func (d *DependencyGraph) GetDependents(id string) []string {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	children, err := d.dag.GetChildren(id)
	if err != nil {
		return nil
	}

	return sortedIDs(children)
}

// GetAllDependents returns all transitive dependents of the given node
func (d *DependencyGraph) GetAllDependents(id string) []string {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	descendants, err := d.dag.GetDescendants(id)
	if err != nil {
		return nil
	}

	return sortedIDs(descendants)
}

// ModelsInRenderOrder returns all model nodes ordered so that every
// model appears after everything it references
func (d *DependencyGraph) ModelsInRenderOrder() []*Model {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	vertices := d.dag.GetVertices()

	nodes := make([]Node, 0, len(vertices))
	for _, vertex := range vertices {
		if node, ok := vertex.(Node); ok && node.NodeType == NodeTypeModel {
			nodes = append(nodes, node)
		}
	}

	// Order by ancestor count, ties broken by name for determinism
	depth := make(map[string]int, len(nodes))
	for _, node := range nodes {
		ancestors, err := d.dag.GetAncestors(node.ID())
		if err == nil {
			depth[node.ID()] = len(ancestors)
		}
	}

	sort.Slice(nodes, func(i, j int) bool {
		di, dj := depth[nodes[i].ID()], depth[nodes[j].ID()]
		if di != dj {
			return di < dj
		}
		return nodes[i].ID() < nodes[j].ID()
	})

	models := make([]*Model, 0, len(nodes))
	for _, node := range nodes {
		models = append(models, node.Model)
	}

	return models
}

func sortedIDs(vertices map[string]interface{}) []string {
	ids := make([]string, 0, len(vertices))
	for id := range vertices {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}
