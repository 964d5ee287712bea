package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-weekend-pathtracer/web/server"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	flag.Parse()

	logger := log.New(os.Stderr, "", log.LstdFlags)
	webServer := server.NewServer(*port, logger)

	logger.Printf("Weekend Path Tracer Web Server")
	logger.Printf("Visit http://localhost:%d/api/scenes to list scenes", *port)

	if err := webServer.Start(); err != nil {
		logger.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
