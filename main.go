package main

import "github.com/frahmantamala/records-management/cmd"

func main() {
	cmd.Execute()
}
