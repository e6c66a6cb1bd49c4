package main

import "github.com/ajit432/hospital-leave/cmd"

func main() {
	cmd.Execute()
}
