package navigation

import (
	"fmt"
	"net/url"
	"strings"
)

// Problem is one semantic defect found in a document.
type Problem struct {
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

func (p Problem) String() string {
	if p.Path == "" {
		return p.Message
	}
	return p.Path + ": " + p.Message
}

// Check returns the semantic problems of doc in document order.
func Check(doc *Document) []Problem {
	c := checker{seen: make(map[string]string)}
	if doc == nil || len(doc.NavigationItems) == 0 {
		c.add("navigationItems", "at least one category is required")
		return c.problems
	}
	c.categories("navigationItems", doc.NavigationItems)
	return c.problems
}

type checker struct {
	problems []Problem
	seen     map[string]string
}

func (c *checker) add(path, format string, args ...any) {
	c.problems = append(c.problems, Problem{Path: path, Message: fmt.Sprintf(format, args...)})
}

func (c *checker) categories(base string, cs []Category) {
	for i, cat := range cs {
		path := fmt.Sprintf("%s[%d]", base, i)

		id := strings.TrimSpace(cat.ID)
		switch {
		case id == "":
			c.add(path+".id", "category id is required")
		case c.seen[id] != "":
			c.add(path+".id", "duplicate category id %q (first used at %s)", id, c.seen[id])
		default:
			c.seen[id] = path
		}
		if strings.TrimSpace(cat.Title) == "" {
			c.add(path+".title", "category title is required")
		}

		for j, site := range cat.Items {
			c.site(fmt.Sprintf("%s.items[%d]", path, j), site)
		}
		c.categories(path+".subCategories", cat.SubCategories)
	}
}

func (c *checker) site(path string, s Site) {
	if strings.TrimSpace(s.Title) == "" {
		c.add(path+".title", "site title is required")
	}
	if s.Href == "" {
		c.add(path+".href", "site href is required")
		return
	}
	u, err := url.Parse(s.Href)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		c.add(path+".href", "href %q is not an absolute http(s) URL", s.Href)
	}
}
