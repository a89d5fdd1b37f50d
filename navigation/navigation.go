// Package navigation models the site-directory document edited by navedit:
// a list of categories, each holding links to sites and optional nested
// subcategories.
package navigation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iw2rmb/navedit/jsondoc"
)

// Document is the root of navigation.json.
type Document struct {
	NavigationItems []Category `json:"navigationItems" jsonschema:"minItems=1"`
}

// Category groups sites under a title.
type Category struct {
	ID            string     `json:"id" jsonschema:"minLength=1"`
	Title         string     `json:"title" jsonschema:"minLength=1"`
	Icon          string     `json:"icon,omitempty"`
	Description   string     `json:"description,omitempty"`
	Items         []Site     `json:"items"`
	SubCategories []Category `json:"subCategories,omitempty"`
}

// Site is a single link.
type Site struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title" jsonschema:"minLength=1"`
	Href        string `json:"href" jsonschema:"format=uri"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// Stats summarizes a document for display.
type Stats struct {
	Categories int `json:"categories"`
	Items      int `json:"items"`
	Size       int `json:"size"`
}

// Decode parses text into a Document. The text must be well-formed JSON
// whose shape matches the document types.
func Decode(text string) (*Document, error) {
	if ok, errs := jsondoc.Validate(text); !ok {
		return nil, fmt.Errorf("parse document: %s", strings.Join(errs, "; "))
	}
	var doc Document
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &doc, nil
}

// Count returns the number of categories (nested ones included) and sites.
func (d *Document) Count() (categories, items int) {
	var walk func([]Category)
	walk = func(cs []Category) {
		for _, c := range cs {
			categories++
			items += len(c.Items)
			walk(c.SubCategories)
		}
	}
	walk(d.NavigationItems)
	return categories, items
}

// Summarize returns display stats for text when it decodes as a document.
func Summarize(text string) (Stats, bool) {
	doc, err := Decode(text)
	if err != nil {
		return Stats{}, false
	}
	cats, items := doc.Count()
	return Stats{Categories: cats, Items: items, Size: len(text)}, true
}
