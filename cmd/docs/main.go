package main

import (
	"flag"
	"log"

	"github.com/lockaudit/lockaudit/pkg/cli"
	"github.com/spf13/cobra/doc"
)

func main() {
	var target string
	var kind string
	flag.StringVar(&target, "target", "/tmp", "Target path for generated files")
	flag.StringVar(&kind, "kind", "markdown", "Kind of docs to generate (supported: man, markdown)")
	flag.Parse()

	log.Printf("Generating files into %s\n", target)

	root := cli.New()

	switch kind {
	case "markdown":
		if err := doc.GenMarkdownTree(root, target); err != nil {
			log.Fatalf("Error generating markdown: %v\n", err)
		}
	case "man":
		if err := doc.GenManTree(root, &doc.GenManHeader{Section: "1"}, target); err != nil {
			log.Fatalf("Error generating man: %v\n", err)
		}
	default:
		log.Fatalf("invalid docs kind : %s", kind)
	}
}
