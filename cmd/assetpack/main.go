package main

import "github.com/materials-commons/assetpack/cmd/assetpack/cmd"

func main() {
	cmd.Execute()
}
