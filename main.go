package main

import "github.com/fbedussi/ganpro/cmd"

func main() {
	cmd.Execute()
}
