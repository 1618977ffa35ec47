package main

import (
	"github.com/prolific-dev/prolific/cmd"
)

func main() {
	cmd.Execute()
}
