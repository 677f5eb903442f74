package main

import (
	"github.com/joho/godotenv"

	"github.com/robalobadob/crossword/cmd"
)

func main() {
	_ = godotenv.Load()
	cmd.Execute()
}
