// Command schemagen writes the JSON schemas of the profile and configuration
// files.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/macropower/kprof/api/v1beta1/configs"
	"github.com/macropower/kprof/pkg/profile"
	"github.com/macropower/kprof/pkg/yaml"
)

const module = "github.com/macropower/kprof"

var (
	kind    = flag.String("kind", "profiles", "Schema to generate, one of: profiles, configs")
	root    = flag.String("root", ".", "Module root, where Go comments are read from")
	outFile = flag.String("o", "schema.json", "Output file for the generated schema")
)

func main() {
	flag.Parse()

	out, err := filepath.Abs(*outFile)
	if err != nil {
		log.Fatalf("resolve output path: %v", err)
	}

	var gen *yaml.SchemaGenerator

	switch *kind {
	case "profiles":
		gen = yaml.NewSchemaGenerator([]profile.Profile{}, module,
			"pkg/profile",
			"pkg/processor",
		)
	case "configs":
		gen = yaml.NewSchemaGenerator(configs.New(), module,
			"api/v1beta1",
			"api/v1beta1/configs",
		)
	default:
		log.Fatalf("unknown kind %q", *kind)
	}

	// Comment directories are relative to the module root.
	err = os.Chdir(*root)
	if err != nil {
		log.Fatalf("change to module root: %v", err)
	}

	jsData, err := gen.Generate()
	if err != nil {
		log.Fatalf("generate JSON schema: %v", err)
	}

	err = os.WriteFile(out, jsData, 0o600)
	if err != nil {
		log.Fatalf("write schema file: %v", err)
	}
}
