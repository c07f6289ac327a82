package main

import "imgsquare/cmd"

func main() {
	cmd.Execute()
}
