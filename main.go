package main

import "github.com/Felixhuangsiling/front-pfee/cmd"

func main() {
	cmd.Execute()
}
