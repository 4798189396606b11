// Command rload is a deterministic HTTP load-testing engine.
package main

import "github.com/smoliakoff/rload/cmd"

func main() {
	cmd.Execute()
}
