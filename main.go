package main

import "github.com/isomerpages/site-provisioner/cmd"

func main() {
	cmd.Init()
}
