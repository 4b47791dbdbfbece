// cmd/makerand/main.go
package main

import (
	"os"

	"abm/internal/randapp"
)

func main() {
	os.Exit(randapp.Run(os.Args[1:], os.Stdout, os.Stderr))
}
