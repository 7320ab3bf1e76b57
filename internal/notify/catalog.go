// Package notify renders message content for notification intents flagged by
// the state machine. It makes no decisions of its own: the lifecycle package
// decides that a notification is due and which template applies; this
// package only produces the subject/body text and never sends anything.
//
// The template catalog is declared in CUE and validated against the
// #Template schema at load time, so a malformed override catalog fails
// before any message is rendered.
package notify

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
)

//go:embed templates.cue
var defaultCatalogCUE string

// Template is one subject/body pair from the catalog. Both fields hold Go
// text/template source resolved against a record view at render time.
type Template struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Catalog maps template names to templates. Keys are the intent names
// ("blocked", "submitted") and the four follow-up kind names.
type Catalog map[string]Template

// requiredTemplates lists the names every usable catalog must define.
var requiredTemplates = []string{
	"blocked",
	"submitted",
	"RECEIPT_CONFIRMATION",
	"STATUS_CHECK",
	"VALUE_TOUCH",
	"CLOSEOUT_REQUEST",
}

// DefaultCatalog loads the embedded template catalog.
// Panics only on a broken build (the embedded catalog is validated in tests).
func DefaultCatalog() (Catalog, error) {
	ctx := cuecontext.New()
	value := ctx.CompileString(defaultCatalogCUE, cue.Filename("templates.cue"))
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("compile embedded catalog: %w", err)
	}
	return decodeCatalog(value)
}

// LoadCatalog builds a catalog from a directory of .cue files.
// The directory contents are unified into a single CUE instance, so an
// override catalog may split templates across files.
func LoadCatalog(dir string) (Catalog, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("template catalog dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("template catalog: not a directory: %s", dir)
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, fmt.Errorf("template catalog: no CUE instances in %s", dir)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, fmt.Errorf("template catalog: loading CUE files: %w", inst.Err)
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("template catalog: building CUE value: %w", err)
	}
	return decodeCatalog(value)
}

// decodeCatalog validates and decodes the "template" struct from a CUE value.
func decodeCatalog(value cue.Value) (Catalog, error) {
	templates := value.LookupPath(cue.ParsePath("template"))
	if !templates.Exists() {
		return nil, fmt.Errorf("template catalog: no \"template\" declaration found")
	}
	if err := templates.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("template catalog: validation failed: %w", err)
	}

	catalog := make(Catalog)
	if err := templates.Decode(&catalog); err != nil {
		return nil, fmt.Errorf("template catalog: decode: %w", err)
	}

	for _, name := range requiredTemplates {
		if _, ok := catalog[name]; !ok {
			return nil, fmt.Errorf("template catalog: missing required template %q", name)
		}
	}
	return catalog, nil
}
