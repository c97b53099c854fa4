package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ib-77/wpfilter/pkg/filter"
	"github.com/ib-77/wpfilter/pkg/filter/stages"
)

const SupportedSchema = "v1"

// SpecFile is a declarative set of per-resource specs:
//
//	schema_version: v1
//	resources:
//	  posts:
//	    title: [rendered]
//	    excerpt: [rendered, strip_links]
type SpecFile struct {
	SchemaVersion string        `yaml:"schema_version"`
	Fields        stages.Fields `yaml:"fields"`
	Resources     Resources     `yaml:"resources"`
}

// Resources keeps resources, and the keys within each, in file order.
type Resources []ResourceSpec

type ResourceSpec struct {
	Name      string
	Pipelines []PipelineSpec
}

type PipelineSpec struct {
	Key    string
	Stages []string
}

// LoadSpecFile parses a spec YAML and validates schema_version.
func LoadSpecFile(path string) (*SpecFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSpecFile(raw)
}

func ParseSpecFile(raw []byte) (*SpecFile, error) {
	var f SpecFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	if f.SchemaVersion == "" {
		f.SchemaVersion = SupportedSchema
	}
	if f.SchemaVersion != SupportedSchema {
		return nil, fmt.Errorf("spec schema_version %q not supported (want %q)", f.SchemaVersion, SupportedSchema)
	}
	return &f, nil
}

func (r *Resources) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: resources must be a mapping", node.Line)
	}

	out := make(Resources, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name, body := node.Content[i], node.Content[i+1]
		if body.Kind != yaml.MappingNode {
			return fmt.Errorf("line %d: resource %q must map keys to stage lists", body.Line, name.Value)
		}

		res := ResourceSpec{Name: name.Value}
		for j := 0; j+1 < len(body.Content); j += 2 {
			key, list := body.Content[j], body.Content[j+1]
			var names []string
			if err := list.Decode(&names); err != nil {
				return fmt.Errorf("line %d: %s.%s: %w", list.Line, name.Value, key.Value, err)
			}
			res.Pipelines = append(res.Pipelines, PipelineSpec{Key: key.Value, Stages: names})
		}
		out = append(out, res)
	}

	*r = out
	return nil
}

// Build resolves every stage name through the stage registry, against a
// Library made from the file's field names and opts.
func (f *SpecFile) Build(opts ...stages.LibraryOption) (map[string]*filter.Spec, error) {
	lib := stages.New(f.Fields, opts...)

	specs := make(map[string]*filter.Spec, len(f.Resources))
	for _, res := range f.Resources {
		if _, ok := specs[res.Name]; ok {
			return nil, fmt.Errorf("resource %q declared twice", res.Name)
		}

		pipelines := make([]filter.Pipeline, 0, len(res.Pipelines))
		for _, p := range res.Pipelines {
			chain := make([]filter.Stage, 0, len(p.Stages))
			for _, name := range p.Stages {
				st, err := lib.ByName(name)
				if err != nil {
					return nil, fmt.Errorf("resource %q: %w", res.Name, &filter.ConfigurationError{Key: p.Key, Err: err})
				}
				chain = append(chain, st)
			}
			pipelines = append(pipelines, filter.Pipe(p.Key, chain...))
		}

		spec, err := filter.NewSpec(pipelines...)
		if err != nil {
			return nil, fmt.Errorf("resource %q: %w", res.Name, err)
		}
		specs[res.Name] = spec
	}
	return specs, nil
}
