package rulebook

import (
	"sort"

	"github.com/KirkDiggler/dnd-progression/internal/errors"
)

// Rules is the immutable rule data the engine consults. Build it once with
// Standard and share the pointer; nothing on it is mutated after construction
// and callers must not modify the definitions it hands out.
type Rules struct {
	classes   map[ClassKey]*Class
	feats     map[string]*Feat
	races     map[string]*Race
	resources map[ClassKey][]*ResourceDefinition
	features  map[ClassKey][]*LevelFeature
}

// Standard returns the SRD rule set
func Standard() *Rules {
	return New(standardClasses(), standardFeats(), standardRaces(), standardResources(), standardFeatures())
}

// New indexes the supplied definitions
func New(classes []*Class, feats []*Feat, races []*Race, resources []*ResourceDefinition, features []*LevelFeature) *Rules {
	r := &Rules{
		classes:   make(map[ClassKey]*Class, len(classes)),
		feats:     make(map[string]*Feat, len(feats)),
		races:     make(map[string]*Race, len(races)),
		resources: make(map[ClassKey][]*ResourceDefinition),
		features:  make(map[ClassKey][]*LevelFeature),
	}
	for _, c := range classes {
		r.classes[c.Key] = c
	}
	for _, f := range feats {
		r.feats[NormalizeKey(f.Key)] = f
	}
	for _, race := range races {
		r.races[NormalizeKey(race.Key)] = race
	}
	for _, res := range resources {
		r.resources[res.Class] = append(r.resources[res.Class], res)
	}
	for _, f := range features {
		r.features[f.Class] = append(r.features[f.Class], f)
	}
	return r
}

// WithRaces returns a copy of r where the given races replace or extend
// the race catalog
func (r *Rules) WithRaces(races ...*Race) *Rules {
	cp := *r
	cp.races = make(map[string]*Race, len(r.races)+len(races))
	for k, v := range r.races {
		cp.races[k] = v
	}
	for _, race := range races {
		cp.races[NormalizeKey(race.Key)] = race
	}
	return &cp
}

// Class resolves a class by name, ignoring case
func (r *Rules) Class(name string) (*Class, error) {
	key, ok := ParseClassKey(name)
	if !ok {
		return nil, errors.InvalidArgumentf("unknown class %q", name).WithMeta("class", name)
	}
	return r.ClassByKey(key)
}

// ClassByKey looks up a class definition by key
func (r *Rules) ClassByKey(key ClassKey) (*Class, error) {
	c, ok := r.classes[key]
	if !ok {
		return nil, errors.InvalidArgumentf("class %q is not in this rule set", key).WithMeta("class", string(key))
	}
	return c, nil
}

// Classes returns every class in key order
func (r *Rules) Classes() []*Class {
	out := make([]*Class, 0, len(r.classes))
	for _, key := range ClassKeys {
		if c, ok := r.classes[key]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Feat resolves a feat by key or display name
func (r *Rules) Feat(name string) (*Feat, error) {
	f, ok := r.feats[NormalizeKey(name)]
	if !ok {
		return nil, errors.InvalidArgumentf("unknown feat %q", name).WithMeta("feat", name)
	}
	return f, nil
}

// Feats returns every feat sorted by key
func (r *Rules) Feats() []*Feat {
	out := make([]*Feat, 0, len(r.feats))
	for _, f := range r.feats {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Race resolves a race by key or display name
func (r *Rules) Race(name string) (*Race, error) {
	race, ok := r.races[NormalizeKey(name)]
	if !ok {
		return nil, errors.InvalidArgumentf("unknown race %q", name).WithMeta("race", name)
	}
	return race, nil
}

// Races returns every race sorted by key
func (r *Rules) Races() []*Race {
	out := make([]*Race, 0, len(r.races))
	for _, race := range r.races {
		out = append(out, race)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Resources returns the resource definitions owned by a class
func (r *Rules) Resources(class ClassKey) []*ResourceDefinition {
	return r.resources[class]
}

// FeaturesAt returns the features a class gains exactly at level
func (r *Rules) FeaturesAt(class ClassKey, level int) []*LevelFeature {
	var out []*LevelFeature
	for _, f := range r.features[class] {
		if f.Level == level {
			out = append(out, f)
		}
	}
	return out
}
