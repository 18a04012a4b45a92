package main

import "github.com/evanlindqvist/golox/cmd"

func main() {
	if err := cmd.App().Execute(); err != nil {
		panic(err)
	}
}
