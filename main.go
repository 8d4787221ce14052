package main

import (
	"os"

	"github.com/clipdeck/clipdeck/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
