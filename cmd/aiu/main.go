package main

import (
	"os"

	"github.com/aiuniverse/universe/client/cli"
	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()

	os.Exit(cli.Execute())
}
