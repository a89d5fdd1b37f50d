package navigation

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/invopop/jsonschema"
)

// SchemaID identifies the published schema.
const SchemaID = "https://github.com/iw2rmb/navedit/navigation.schema.json"

func reflectSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
	}
	s := r.Reflect(&Document{})
	s.ID = jsonschema.ID(SchemaID)
	s.Title = "Navigation document"
	return s
}

// Schema returns the JSON Schema describing Document, indented by two spaces.
func Schema() ([]byte, error) {
	s := reflectSchema()
	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return out, nil
}

// Key is an object property the schema allows somewhere in a document.
type Key struct {
	Name string
	// Type is the JSON type of the first property with this name.
	Type string
}

// Keys lists the property names of the document schema: the root first,
// then each definition in name order. A name shared by several objects is
// listed once.
func Keys() []Key {
	s := reflectSchema()
	var keys []Key
	seen := map[string]bool{}
	collect := func(obj *jsonschema.Schema) {
		if obj == nil || obj.Properties == nil {
			return
		}
		for p := obj.Properties.Oldest(); p != nil; p = p.Next() {
			if seen[p.Key] {
				continue
			}
			seen[p.Key] = true
			typ := p.Value.Type
			if typ == "" && p.Value.Ref != "" {
				typ = "object"
			}
			keys = append(keys, Key{Name: p.Key, Type: typ})
		}
	}

	collect(s)
	names := make([]string, 0, len(s.Definitions))
	for name := range s.Definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		collect(s.Definitions[name])
	}
	return keys
}
