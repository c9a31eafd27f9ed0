// Command fleetctl is the offline inspection CLI (§1).
package main

import "github.com/voidfleet/controller/internal/adapters/cli"

func main() {
	cli.Execute()
}
