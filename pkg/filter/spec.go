package filter

// Pipeline is one key's ordered stage list.
type Pipeline struct {
	Key    string
	Stages []Stage
}

func Pipe(key string, stages ...Stage) Pipeline {
	return Pipeline{Key: key, Stages: stages}
}

// Spec is a validated FilterSpec: pipelines with pairwise distinct keys.
// A Spec is immutable once built and safe for concurrent use.
type Spec struct {
	pipelines []Pipeline
	index     map[string]int
}

// NewSpec validates pipelines and returns a Spec preserving their order.
func NewSpec(pipelines ...Pipeline) (*Spec, error) {
	s := &Spec{
		pipelines: make([]Pipeline, 0, len(pipelines)),
		index:     make(map[string]int, len(pipelines)),
	}

	for _, p := range pipelines {
		if p.Key == "" {
			return nil, &ConfigurationError{Key: p.Key, Err: ErrEmptyKey}
		}
		if _, dup := s.index[p.Key]; dup {
			return nil, &ConfigurationError{Key: p.Key, Err: ErrDuplicateKey}
		}
		for _, st := range p.Stages {
			if st == nil {
				return nil, &ConfigurationError{Key: p.Key, Err: ErrNilStage}
			}
		}

		s.index[p.Key] = len(s.pipelines)
		s.pipelines = append(s.pipelines, Pipeline{
			Key:    p.Key,
			Stages: append([]Stage(nil), p.Stages...),
		})
	}

	return s, nil
}

// MustSpec is NewSpec that panics on an invalid declaration.
func MustSpec(pipelines ...Pipeline) *Spec {
	s, err := NewSpec(pipelines...)
	if err != nil {
		panic(err)
	}
	return s
}

// Len is nil-safe; a nil Spec has no pipelines.
func (s *Spec) Len() int {
	if s == nil {
		return 0
	}
	return len(s.pipelines)
}

func (s *Spec) Keys() []string {
	keys := make([]string, 0, s.Len())
	if s == nil {
		return keys
	}
	for _, p := range s.pipelines {
		keys = append(keys, p.Key)
	}
	return keys
}

func (s *Spec) Stages(key string) ([]Stage, bool) {
	if s == nil {
		return nil, false
	}
	i, ok := s.index[key]
	if !ok {
		return nil, false
	}
	return append([]Stage(nil), s.pipelines[i].Stages...), true
}

func (s *Spec) Pipelines() []Pipeline {
	if s == nil {
		return nil
	}
	out := make([]Pipeline, len(s.pipelines))
	for i, p := range s.pipelines {
		out[i] = Pipeline{Key: p.Key, Stages: append([]Stage(nil), p.Stages...)}
	}
	return out
}

// With returns a new Spec extended by pipelines. Keys must stay disjoint.
func (s *Spec) With(pipelines ...Pipeline) (*Spec, error) {
	return NewSpec(append(s.Pipelines(), pipelines...)...)
}

// Without returns a new Spec minus the given keys.
func (s *Spec) Without(keys ...string) *Spec {
	drop := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		drop[k] = struct{}{}
	}

	kept := make([]Pipeline, 0, s.Len())
	for _, p := range s.Pipelines() {
		if _, ok := drop[p.Key]; !ok {
			kept = append(kept, p)
		}
	}
	return MustSpec(kept...)
}
