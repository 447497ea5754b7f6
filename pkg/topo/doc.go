// Package topo is the entity store of the boundary-representation kernel.
// A Model is an arena of entities (points, curves, surfaces, volumes and the
// loops, shells and groups that aggregate them) linked by directed uses.
// The graph formed by uses, helpers and embedded references is a DAG.
package topo
