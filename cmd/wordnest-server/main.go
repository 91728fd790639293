// Command wordnest-server runs the vocabulary enrichment HTTP service.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"

	"github.com/wordnest/wordnest-backend/internal/app"
)

func main() {
	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("wordnest-server: %v", err)
	}
}
