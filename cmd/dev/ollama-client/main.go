// Dev helper to poke a local Ollama instance through the pkg/ollama
// wrapper before pointing the server at it.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/garnizeh/nova/internal/config"
	"github.com/garnizeh/nova/pkg/ollama"
)

func main() {
	var (
		uri    = flag.String("url", "http://localhost:11434", "ollama base url")
		model  = flag.String("model", "llama3", "model to query")
		prompt = flag.String("prompt", "Ask one clarifying question about building a rate limiter.", "prompt to send")
	)
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.LoadConfig("")
	if err != nil {
		log.Fatal(err)
	}
	cfg.Ollama.BaseURL = *uri

	client, err := ollama.NewDefaultClient(cfg.Ollama)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	models, err := client.ListModels(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("available models:")
	for _, m := range models {
		fmt.Printf("  %s\n", m.Name)
	}

	out, err := client.Generate(ctx, *model, *prompt)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("\n%s\n", out)
}
