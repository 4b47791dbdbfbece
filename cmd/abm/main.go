// cmd/abm/main.go
package main

import (
	"os"

	"abm/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:], os.Stdout, os.Stderr))
}
