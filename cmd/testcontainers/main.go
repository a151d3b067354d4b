package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/localnerve/jam-build-formsdb/internal/containers"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	var outFilename string
	flag.StringVar(&outFilename, "o", "", "write the connection settings to this file")
	flag.Parse()

	usage := `
Run the formsdb database (and Authorizer, when AUTHZ_IMAGE is set) in docker
with the environment variables from the .env file.

Usage:

testcontainers [-h] [-f ENV_FILE_PATH] [-o OUT_FILE_PATH]

ENV_FILE_PATH: path to the .env file supplying DB_TYPE, DB_IMAGE, AUTHZ_IMAGE...
OUT_FILE_PATH: receives DB_* and AUTHZ_* lines usable as the server's ENV_FILE

example
  testcontainers -f /path/to/something/.env -o /tmp/formsdb.env
`
	// if -h flag print usage and return
	if showHelp {
		fmt.Println(usage)
		return
	}

	if envFilename != "" {
		log.Printf("Loading environment variables from %s\n", envFilename)
		if err := godotenv.Load(envFilename); err != nil {
			log.Fatalf("Failed to load environment variables: %v\n", err)
		}
	} else {
		log.Printf("No environment file specified, using current environment variables\n")
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM, syscall.SIGTSTP, syscall.SIGQUIT)
	defer stop()

	stack, err := containers.Start(ctx, containers.OptionsFromEnv(), log.Printf)
	if err != nil {
		log.Fatalf("Failed to create test containers: %v\n", err)
	}

	env := stack.Env()
	fmt.Print(env)
	if outFilename != "" {
		if err := os.WriteFile(outFilename, []byte(env), 0o600); err != nil {
			log.Printf("Failed to write %s: %v\n", outFilename, err)
		}
	}

	<-ctx.Done()
	log.Printf("\nReceived signal, terminating test containers...\n")
	stack.Terminate(log.Printf)
}
