package main

import "adsreport-cli/cmd"

func main() {
	cmd.Execute()
}
