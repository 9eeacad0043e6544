package main

import (
	"flag"
	"fmt"
	"log"

	"bloxpace/internal/assets"
)

func main() {
	var (
		inputFile  = flag.String("input", "", "Input file path")
		outputFile = flag.String("output", "", "Output file path")
		fileType   = flag.String("type", "", "File type (css, js or html); inferred from -input when empty")
		dist       = flag.String("dist", "", "Minify templates/ and static/ into this directory instead")
	)
	flag.Parse()

	m := assets.NewMinifier()

	if *dist != "" {
		results, err := assets.BuildDist(m, *dist, "templates", "static")
		for _, r := range results {
			fmt.Println(r)
		}
		if err != nil {
			log.Fatalf("Failed to build %s: %v", *dist, err)
		}
		fmt.Printf("Minified %d files into %s\n", len(results), *dist)
		return
	}

	if *inputFile == "" || *outputFile == "" {
		log.Fatal("Usage: go run ./cmd/minify -input=<file> -output=<file> [-type=<css|js|html>] | -dist=<dir>")
	}
	name := *fileType
	if name == "" {
		name = *inputFile
	}
	mediaType, ok := assets.MediaType(name)
	if !ok {
		log.Fatalf("Unsupported file type: %s (supported: css, js, html)", name)
	}

	r, err := assets.MinifyFile(m, *inputFile, *outputFile, mediaType)
	if err != nil {
		log.Fatalf("Failed to minify: %v", err)
	}
	fmt.Println(r)
}
