package main

import "github.com/frahmantamala/accessmodel-admin/cmd"

func main() {
	cmd.Execute()
}
