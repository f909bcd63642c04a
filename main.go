package main

import "ads-reconciler/cmd"

func main() {
	cmd.Execute()
}
