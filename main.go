package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/chazu/tfbe/pkg/config"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (default $"+config.EnvPath+")")
	scriptPath := flag.String("script", "", "level script to evaluate (default stdin)")
	asJSON := flag.Bool("json", false, "write the full scene as JSON to stdout")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	source, err := readSource(*scriptPath)
	if err != nil {
		log.Fatal(err)
	}

	result := NewApp(cfg).Evaluate(string(source))
	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		if err := enc.Encode(result); err != nil {
			log.Fatal(err)
		}
	} else {
		fmt.Printf("%d voxels, %d meshes, %d warnings\n", len(result.Voxels), len(result.Meshes), len(result.Warnings))
		for _, w := range result.Warnings {
			fmt.Println("warning:", w.Message)
		}
	}

	for _, e := range result.Errors {
		if e.Line > 0 {
			log.Printf("line %d: %s", e.Line, e.Message)
		} else {
			log.Print(e.Message)
		}
	}
	if len(result.Errors) > 0 {
		os.Exit(1)
	}
}

func readSource(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
