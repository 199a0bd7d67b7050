package catalog

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Document is one catalog source. JSON documents are parsed by the YAML
// decoder, which keeps the order of jobTypes keys.
type Document struct {
	SafetyChecks []string
	JobTypes     []JobType
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return Document{}, fmt.Errorf("parse catalog: %w", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return Document{}, errors.New("parse catalog: empty document")
	}

	var raw any
	if err := root.Decode(&raw); err != nil {
		return Document{}, fmt.Errorf("parse catalog: %w", err)
	}
	if err := validateSchema(raw); err != nil {
		return Document{}, err
	}

	body := root.Content[0]
	var doc Document
	for i := 0; i+1 < len(body.Content); i += 2 {
		key, value := body.Content[i], body.Content[i+1]

		switch key.Value {
		case "safetyChecks":
			if err := value.Decode(&doc.SafetyChecks); err != nil {
				return Document{}, fmt.Errorf("parse catalog: safetyChecks: %w", err)
			}
		case "jobTypes":
			jobTypes, err := parseJobTypes(value)
			if err != nil {
				return Document{}, err
			}
			doc.JobTypes = jobTypes
		}
	}

	return doc, nil
}

func parseJobTypes(node *yaml.Node) ([]JobType, error) {
	jobTypes := make([]JobType, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value

		var points []string
		if err := node.Content[i+1].Decode(&points); err != nil {
			return nil, fmt.Errorf("parse catalog: jobTypes.%s: %w", name, err)
		}
		jobTypes = append(jobTypes, JobType{Name: name, Points: points})
	}
	return jobTypes, nil
}

// Merge combines documents in order. A job type redefined by a later
// document keeps its first position. A later non-empty safetyChecks list
// replaces the earlier one.
func Merge(docs ...Document) *Catalog {
	var (
		safety   []string
		jobTypes []JobType
	)
	for _, doc := range docs {
		if len(doc.SafetyChecks) > 0 {
			safety = doc.SafetyChecks
		}
		jobTypes = append(jobTypes, doc.JobTypes...)
	}
	return New(safety, jobTypes)
}
