// cmd/rasterscan/main.go
package main

import (
	"context"
	"os"

	"github.com/tamzrod/rasterscan/cmd/rasterscan/cmd"
)

func main() {
	os.Exit(cmd.Execute(context.Background(), cmd.LegacyArgs(os.Args[1:])))
}
