// Command entity is the entrypoint for the entity CLI.
package main

import "github.com/entity-dev/entity/internal/cli"

func main() {
	cli.Execute()
}
