package main

import "github.com/1di210299/pricing-intelligence-system/cmd"

func main() {
	cmd.Execute()
}
