package main

import "github.com/aquafemi/libi/cmd"

func main() {
	cmd.Execute()
}
