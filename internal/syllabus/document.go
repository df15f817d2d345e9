package syllabus

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

//go:embed syllabus.schema.json
var documentSchemaJSON []byte

const documentSchemaURL = "schema://syllabus.schema.json"

// Document is the on-disk representation of a syllabus (YAML or JSON).
// Modules are written as "<level key>.<subject>" codes.
type Document struct {
	Version  string       `yaml:"version" json:"version"`
	Name     string       `yaml:"name,omitempty" json:"name,omitempty"`
	Levels   []LevelDoc   `yaml:"levels" json:"levels"`
	Subjects []SubjectDoc `yaml:"subjects" json:"subjects"`
	Merges   []MergeDoc   `yaml:"merges,omitempty" json:"merges,omitempty"`
	Tiers    []TierDoc    `yaml:"tiers" json:"tiers"`
	Ranks    []RankDoc    `yaml:"ranks,omitempty" json:"ranks,omitempty"`
}

type LevelDoc struct {
	Key     string   `yaml:"key" json:"key"`
	Label   string   `yaml:"label" json:"label"`
	Aliases []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
}

type SubjectDoc struct {
	Code    string `yaml:"code" json:"code"`
	Name    string `yaml:"name" json:"name"`
	Virtual bool   `yaml:"virtual,omitempty" json:"virtual,omitempty"`
}

type MergeDoc struct {
	Virtual  string   `yaml:"virtual" json:"virtual"`
	Subjects []string `yaml:"subjects" json:"subjects"`
	Through  string   `yaml:"through" json:"through"`
	Combine  string   `yaml:"combine,omitempty" json:"combine,omitempty"`
}

type TierDoc struct {
	ID             string     `yaml:"id" json:"id"`
	Name           string     `yaml:"name" json:"name"`
	Prereq         string     `yaml:"prereq,omitempty" json:"prereq,omitempty"`
	Mandatory      []string   `yaml:"mandatory,omitempty" json:"mandatory,omitempty"`
	Groups         []GroupDoc `yaml:"groups,omitempty" json:"groups,omitempty"`
	Predicates     []string   `yaml:"predicates,omitempty" json:"predicates,omitempty"`
	SummaryCutoff  int        `yaml:"summary_cutoff,omitempty" json:"summary_cutoff,omitempty"`
	CompletionNote string     `yaml:"completion_note,omitempty" json:"completion_note,omitempty"`
}

type GroupDoc struct {
	ID          string   `yaml:"id,omitempty" json:"id,omitempty"`
	Modules     []string `yaml:"modules" json:"modules"`
	MinRequired int      `yaml:"min_required" json:"min_required"`
}

type RankDoc struct {
	Code  string `yaml:"code" json:"code"`
	Order int    `yaml:"order" json:"order"`
}

// documentSchema compiles the embedded JSON Schema once.
var documentSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	var def any
	if err := json.Unmarshal(documentSchemaJSON, &def); err != nil {
		return nil, fmt.Errorf("parse document schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(documentSchemaURL, def); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(documentSchemaURL)
})

// Parse decodes, validates, and builds a syllabus from a YAML or JSON document.
// Documents are checked against the document JSON Schema first, then for
// semantic consistency (prerequisites, module references, merge windows).
func Parse(data []byte) (*Syllabus, error) {
	if err := validateDocument(data); err != nil {
		return nil, err
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode document: %v", ErrInvalidSyllabus, err)
	}

	spec, err := doc.Spec()
	if err != nil {
		return nil, err
	}
	return New(spec)
}

// LoadFile reads and parses a syllabus document from path.
func LoadFile(path string) (*Syllabus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read syllabus: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// validateDocument checks the raw document against the JSON Schema.
func validateDocument(data []byte) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: decode document: %v", ErrInvalidSyllabus, err)
	}
	if raw == nil {
		return fmt.Errorf("%w: empty document", ErrInvalidSyllabus)
	}

	// The validator expects JSON values; round-trip through encoding/json
	// to normalize YAML scalars and maps.
	b, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("%w: document is not JSON-compatible: %v", ErrInvalidSyllabus, err)
	}
	var parsed any
	if err := json.Unmarshal(b, &parsed); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSyllabus, err)
	}

	compiled, err := documentSchema()
	if err != nil {
		return fmt.Errorf("compile document schema: %w", err)
	}
	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("%w: schema validation failed: %v", ErrInvalidSyllabus, err)
	}
	return nil
}

// Spec converts the document into an unvalidated Spec, resolving module
// codes and level keys. Unresolvable references are reported together.
func (d Document) Spec() (Spec, error) {
	var errs []string
	levels := make(map[string]Level, len(d.Levels))
	spec := Spec{Version: d.Version, Name: d.Name}

	for i, l := range d.Levels {
		levels[l.Key] = Level(i)
		spec.Levels = append(spec.Levels, LevelDef{Key: l.Key, Label: l.Label, Aliases: l.Aliases})
	}
	for _, s := range d.Subjects {
		spec.Subjects = append(spec.Subjects, Subject{Code: SubjectCode(s.Code), Name: s.Name, Virtual: s.Virtual})
	}
	for _, m := range d.Merges {
		through, ok := levels[m.Through]
		if !ok {
			errs = append(errs, fmt.Sprintf("merge %q: unknown through level %q", m.Virtual, m.Through))
		}
		merge := Merge{Virtual: SubjectCode(m.Virtual), Through: through, Combine: m.Combine}
		if len(m.Subjects) != 2 {
			errs = append(errs, fmt.Sprintf("merge %q: want exactly 2 subjects, got %d", m.Virtual, len(m.Subjects)))
		} else {
			merge.Subjects = [2]SubjectCode{SubjectCode(m.Subjects[0]), SubjectCode(m.Subjects[1])}
		}
		spec.Merges = append(spec.Merges, merge)
	}

	modules := func(where string, codes []string) []ModuleKey {
		out := make([]ModuleKey, 0, len(codes))
		for _, c := range codes {
			k, err := parseModule(levels, c)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", where, err))
				continue
			}
			out = append(out, k)
		}
		return out
	}

	for _, t := range d.Tiers {
		tier := Tier{
			ID:             TierID(t.ID),
			Name:           t.Name,
			SummaryCutoff:  t.SummaryCutoff,
			CompletionNote: t.CompletionNote,
			Rule: Rule{
				Prereq:     TierID(t.Prereq),
				Mandatory:  modules(fmt.Sprintf("tier %q", t.ID), t.Mandatory),
				Predicates: t.Predicates,
			},
		}
		for _, g := range t.Groups {
			tier.Rule.Groups = append(tier.Rule.Groups, Group{
				ID:          g.ID,
				Modules:     modules(fmt.Sprintf("tier %q group %q", t.ID, g.ID), g.Modules),
				MinRequired: g.MinRequired,
			})
		}
		spec.Tiers = append(spec.Tiers, tier)
	}
	for _, r := range d.Ranks {
		spec.Ranks = append(spec.Ranks, Rank{Code: r.Code, Order: r.Order})
	}

	if len(errs) > 0 {
		return Spec{}, fmt.Errorf("%w %q:\n  %s", ErrInvalidSyllabus, d.Version, strings.Join(errs, "\n  "))
	}
	return spec, nil
}

// Document converts the syllabus back into its on-disk representation.
func (s *Syllabus) Document() Document {
	doc := Document{Version: s.version, Name: s.name}
	for _, l := range s.levels {
		doc.Levels = append(doc.Levels, LevelDoc{Key: l.Key, Label: l.Label, Aliases: l.Aliases})
	}
	for _, sub := range s.subjects {
		doc.Subjects = append(doc.Subjects, SubjectDoc{Code: string(sub.Code), Name: sub.Name, Virtual: sub.Virtual})
	}
	for _, m := range s.merges {
		doc.Merges = append(doc.Merges, MergeDoc{
			Virtual:  string(m.Virtual),
			Subjects: []string{string(m.Subjects[0]), string(m.Subjects[1])},
			Through:  s.LevelKey(m.Through),
			Combine:  m.Combine,
		})
	}
	codes := func(keys []ModuleKey) []string {
		out := make([]string, 0, len(keys))
		for _, k := range keys {
			out = append(out, s.ModuleCode(k))
		}
		return out
	}
	for _, t := range s.tiers {
		td := TierDoc{
			ID:             string(t.ID),
			Name:           t.Name,
			Prereq:         string(t.Rule.Prereq),
			Predicates:     t.Rule.Predicates,
			SummaryCutoff:  t.SummaryCutoff,
			CompletionNote: t.CompletionNote,
		}
		if len(t.Rule.Mandatory) > 0 {
			td.Mandatory = codes(t.Rule.Mandatory)
		}
		for _, g := range t.Rule.Groups {
			td.Groups = append(td.Groups, GroupDoc{ID: g.ID, Modules: codes(g.Modules), MinRequired: g.MinRequired})
		}
		doc.Tiers = append(doc.Tiers, td)
	}
	for _, r := range s.ranks {
		doc.Ranks = append(doc.Ranks, RankDoc{Code: r.Code, Order: r.Order})
	}
	return doc
}
