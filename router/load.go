package router

import (
	"io"
	"os"

	"github.com/advdv/bfront"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Table is the file format of a route table:
//
//	routes:
//	  - name: article
//	    pattern: GET /articles/{id}
//	    handler: Article
//	    defaults:
//	      format: html
type Table struct {
	Routes []TableRoute `yaml:"routes"`
}

// TableRoute is a single entry of a [Table].
type TableRoute struct {
	Name     string         `yaml:"name"`
	Pattern  string         `yaml:"pattern"`
	Handler  string         `yaml:"handler"`
	Defaults map[string]any `yaml:"defaults"`
}

// Load reads a YAML route table into a new router.
func Load(r io.Reader) (*Router, error) {
	rt := New()
	if err := rt.Load(r); err != nil {
		return nil, err
	}

	return rt, nil
}

// LoadFile reads the YAML route table at path into a new router.
func LoadFile(path string) (*Router, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open route table")
	}
	defer f.Close()

	return Load(f)
}

// Load adds the routes of a YAML route table.
func (rt *Router) Load(r io.Reader) error {
	var tbl Table

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&tbl); err != nil && !errors.Is(err, io.EOF) {
		return errors.Wrap(err, "failed to decode route table")
	}

	for i, tr := range tbl.Routes {
		if err := rt.Add(tr.Pattern, tr.Handler, bfront.Params(tr.Defaults), tr.Name); err != nil {
			return errors.Wrapf(err, "route %d", i)
		}
	}

	return nil
}
