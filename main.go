package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"bulletin/app/routes"
	"bulletin/app/store"
	"bulletin/utils"

	"github.com/joho/godotenv"
)

const cliVersion = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	cmd := strings.ToLower(os.Args[1])
	switch cmd {
	case "help":
		printHelp()
	case "version":
		fmt.Printf("bulletin version %s\n", cliVersion)
	case "serve":
		serve()
	case "static":
		serveStatic()
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printHelp()
		os.Exit(1)
	}
}

func printHelp() {
	helpText := `Usage: bulletin <command> [options]
Commands:
  help                Display this help message.
  version             Show version information.
  serve               Run the bulletin board API server.
  static <directory>  Run a plain static file server.

Environment (a .env file is loaded when present):
  BOARD_BACKEND       badger | mongo | memory (default: badger)
  BADGER_PATH         Path for the badger backend (default: data/badger)
  MONGO_URL           Connection URL for the mongo backend.
  MONGO_DBNAME        Database name for the mongo backend.
  SERVER_PORT         HTTP port (default: 8080)
`
	fmt.Println(helpText)
}

// serve opens the configured backend and runs the board API on SERVER_PORT.
func serve() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	s, err := openStore()
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	port := utils.GetEnvVarWithDefault("SERVER_PORT", "8080")
	srv := routes.NewServer("0.0.0.0:"+port, routes.SetupRoutes(s))

	log.Printf("Starting bulletin board on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func openStore() (store.Store, error) {
	backend := utils.GetEnvVarWithDefault("BOARD_BACKEND", "badger")
	switch backend {
	case "badger":
		path := utils.GetEnvVarWithDefault("BADGER_PATH", "data/badger")
		return store.OpenBadger(path)
	case "mongo":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return store.OpenMongo(ctx, utils.GetEnvVar("MONGO_URL"), utils.GetEnvVar("MONGO_DBNAME"))
	case "memory":
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("invalid BOARD_BACKEND %q", backend)
	}
}

// serveStatic runs a bare file server, useful for hosting a board front end.
func serveStatic() {
	if len(os.Args) < 3 {
		fmt.Println("Error: static directory path is required for static command")
		os.Exit(1)
	}
	staticDir := os.Args[2]

	port := utils.GetEnvVarWithDefault("SERVER_PORT", "8080")
	log.Printf("Starting static file server on port %s serving directory: %s", port, staticDir)
	if err := http.ListenAndServe(":"+port, http.FileServer(http.Dir(staticDir))); err != nil {
		log.Fatalf("Static server error: %v", err)
	}
}
