package main

import (
	"os"

	"github.com/smazurov/procctl/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
