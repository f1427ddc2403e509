package main

import "github.com/frahmantamala/square-payments/cmd"

func main() {
	cmd.Execute()
}
