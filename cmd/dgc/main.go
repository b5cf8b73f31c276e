// Command dgc is a client for a data governance catalog: it browses
// assets, domains, and types, searches the catalog, and commits lineage
// graphs described in YAML.
package main

import (
	"os"

	"github.com/glossarium/dgc/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
