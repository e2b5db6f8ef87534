package main

import (
	"github.com/zostay/go-mailsig/cmd/mailsig/cmd"
)

func main() {
	cmd.Execute()
}
