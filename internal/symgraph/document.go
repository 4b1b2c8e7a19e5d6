package symgraph

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Document is the YAML form of a Graph. IDs are document-local strings;
// references to IDs that are not declared become Dangling edges.
type Document struct {
	Source   string            `yaml:"source,omitempty"`
	Projects []DocumentProject `yaml:"projects,omitempty"`
	Types    []DocumentType    `yaml:"types"`
}

type DocumentProject struct {
	Key        string `yaml:"key"`
	Name       string `yaml:"name,omitempty"`
	Error      string `yaml:"error,omitempty"`
	Unresolved int    `yaml:"unresolved,omitempty"`
}

type DocumentType struct {
	ID         string           `yaml:"id"`
	Project    string           `yaml:"project,omitempty"`
	Name       string           `yaml:"name"`
	Display    string           `yaml:"display,omitempty"`
	Kind       string           `yaml:"kind,omitempty"`
	Visibility string           `yaml:"visibility,omitempty"`
	Nested     bool             `yaml:"nested,omitempty"`
	Static     bool             `yaml:"static,omitempty"`
	Base       string           `yaml:"base,omitempty"`
	Interfaces []string         `yaml:"interfaces,omitempty"`
	Members    []DocumentMember `yaml:"members,omitempty"`
}

type DocumentMember struct {
	Name       string `yaml:"name"`
	Display    string `yaml:"display,omitempty"`
	Kind       string `yaml:"kind,omitempty"`
	Visibility string `yaml:"visibility,omitempty"`
	Extension  bool   `yaml:"extension,omitempty"`
}

// LoadFile decodes the YAML document at path.
func LoadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	g, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if g.Source == "" {
		g.Source = path
	}
	return g, nil
}

// Decode reads a YAML document and builds its Graph.
func Decode(r io.Reader) (*Graph, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse symbol graph: %w", err)
	}
	return doc.Graph()
}

// Graph builds the arena for d. Types are added in document order, so IDs
// and project type order follow the document.
func (d *Document) Graph() (*Graph, error) {
	g := New(d.Source)

	for _, p := range d.Projects {
		if p.Key == "" {
			return nil, errors.New("project with empty key")
		}
		proj := g.AddProject(p.Key, p.Name)
		proj.Unresolved += p.Unresolved
		if p.Error != "" {
			proj.LoadErr = errors.New(p.Error)
		}
	}

	ids := make(map[string]TypeID, len(d.Types))
	for _, dt := range d.Types {
		if dt.ID == "" {
			dt.ID = dt.Name
		}
		if _, dup := ids[dt.ID]; dup {
			return nil, fmt.Errorf("duplicate type id %q", dt.ID)
		}
		vis, err := ParseVisibility(dt.Visibility)
		if err != nil {
			return nil, fmt.Errorf("type %q: %w", dt.ID, err)
		}
		id := g.AddType(TypeNode{
			Project:    dt.Project,
			Name:       dt.Name,
			Display:    dt.Display,
			Kind:       Kind(dt.Kind),
			Visibility: vis,
			Nested:     dt.Nested,
			Static:     dt.Static,
		})
		ids[dt.ID] = id

		for _, dm := range dt.Members {
			mvis, err := ParseVisibility(dm.Visibility)
			if err != nil {
				return nil, fmt.Errorf("member %s.%s: %w", dt.ID, dm.Name, err)
			}
			kind := MemberKind(dm.Kind)
			if dm.Extension {
				// extension members are methods by definition
				if kind == "" {
					kind = MemberMethod
				}
				if kind != MemberMethod {
					return nil, fmt.Errorf("member %s.%s: extension on kind %s, want method", dt.ID, dm.Name, kind)
				}
			}
			if _, err := g.AddMember(id, MemberNode{
				Name:       dm.Name,
				Display:    dm.Display,
				Kind:       kind,
				Visibility: mvis,
				Extension:  dm.Extension,
			}); err != nil {
				return nil, err
			}
		}
	}

	resolve := func(ref string) TypeID {
		if id, ok := ids[ref]; ok {
			return id
		}
		return Dangling
	}
	for _, dt := range d.Types {
		key := dt.ID
		if key == "" {
			key = dt.Name
		}
		id := ids[key]
		if dt.Base != "" {
			if err := g.SetBase(id, resolve(dt.Base)); err != nil {
				return nil, err
			}
		}
		for _, ref := range dt.Interfaces {
			if err := g.AddInterface(id, resolve(ref)); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

// Encode writes g as a YAML document. Type IDs are written as "t<index>";
// Dangling references are written as "?".
func Encode(w io.Writer, g *Graph) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(g)); err != nil {
		return fmt.Errorf("encode symbol graph: %w", err)
	}
	return enc.Close()
}

// NewDocument converts g to its document form.
func NewDocument(g *Graph) *Document {
	doc := &Document{Source: g.Source}
	for _, p := range g.Projects() {
		dp := DocumentProject{Key: p.Key, Unresolved: p.Unresolved}
		if p.Name != p.Key {
			dp.Name = p.Name
		}
		if p.LoadErr != nil {
			dp.Error = p.LoadErr.Error()
		}
		doc.Projects = append(doc.Projects, dp)
	}

	ref := func(id TypeID) string {
		if !g.valid(id) {
			return "?"
		}
		return "t" + strconv.Itoa(int(id))
	}
	for _, t := range g.types {
		dt := DocumentType{
			ID:         ref(t.ID),
			Project:    t.Project,
			Name:       t.Name,
			Kind:       string(t.Kind),
			Visibility: lower(t.Visibility),
			Nested:     t.Nested,
			Static:     t.Static,
		}
		if t.Display != t.Name {
			dt.Display = t.Display
		}
		if t.Base != NoType {
			dt.Base = ref(t.Base)
		}
		for _, i := range t.Interfaces {
			dt.Interfaces = append(dt.Interfaces, ref(i))
		}
		for _, mid := range t.Members {
			m := g.members[mid]
			dm := DocumentMember{
				Name:       m.Name,
				Kind:       string(m.Kind),
				Visibility: lower(m.Visibility),
				Extension:  m.Extension,
			}
			if m.Display != m.Name {
				dm.Display = m.Display
			}
			dt.Members = append(dt.Members, dm)
		}
		doc.Types = append(doc.Types, dt)
	}
	return doc
}

func lower(v Visibility) string {
	switch v {
	case Public:
		return "public"
	case Internal:
		return "internal"
	case Protected:
		return "protected"
	default:
		return "private"
	}
}
