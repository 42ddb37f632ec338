package main

import (
	"fmt"
	"os"

	"github.com/Harshitk-cp/atomspace/internal/domain"
	"github.com/Harshitk-cp/atomspace/internal/service"
	"gopkg.in/yaml.v3"
)

// factsFile is the YAML layout read by "atomctl load":
//
//	atoms:
//	  - {type: ConceptNode, name: Cat, tv: {strength: 0.9, confidence: 0.8}}
//	  - type: InheritanceLink
//	    outgoing:
//	      - {type: ConceptNode, name: Cat}
//	      - {type: ConceptNode, name: Animal}
type factsFile struct {
	Atoms []domain.AtomSpec `yaml:"atoms"`
}

// patternFile is the YAML layout read by "atomctl match".
type patternFile struct {
	Pattern     domain.AtomSpec  `yaml:"pattern"`
	Constraints []constraintSpec `yaml:"constraints,omitempty"`
	Limit       int              `yaml:"limit,omitempty"`
}

type constraintSpec struct {
	Variable      string   `yaml:"variable"`
	Type          string   `yaml:"type,omitempty"`
	MinStrength   *float64 `yaml:"min_strength,omitempty"`
	MinConfidence *float64 `yaml:"min_confidence,omitempty"`
	DistinctFrom  string   `yaml:"distinct_from,omitempty"`
}

func readFacts(path string) ([]domain.AtomSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f factsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(f.Atoms) == 0 {
		return nil, fmt.Errorf("%s: no atoms", path)
	}
	return f.Atoms, nil
}

func readPattern(path string) (service.QueryRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return service.QueryRequest{}, err
	}
	var f patternFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return service.QueryRequest{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if f.Pattern.Type == "" && f.Pattern.Ref == nil {
		return service.QueryRequest{}, fmt.Errorf("%s: pattern is required", path)
	}

	req := service.QueryRequest{Pattern: f.Pattern, Limit: f.Limit}
	for _, c := range f.Constraints {
		req.Constraints = append(req.Constraints, service.BindingConstraint(c))
	}
	return req, nil
}
