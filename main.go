package main

import "github.com/Rhodri-Thomas/AnalyseProductTree/cmd"

func main() {
	cmd.Execute()
}
