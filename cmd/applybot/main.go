package main

import (
	"log"

	"applybot/internal/app"
)

func main() {
	if err := app.Main(); err != nil {
		log.Fatalf("applybot: %v", err)
	}
}
