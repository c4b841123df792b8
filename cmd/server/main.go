package main

import (
	"log"

	"github.com/bianca-8/reload-rage/internal/transport/http"
)

func main() {
	if err := http.Run(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
