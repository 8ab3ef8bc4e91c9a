/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"github.com/hultner-technologies/recordkit/cmd/recordctl/cmd"
	"github.com/hultner-technologies/recordkit/pkg/di"
)

func main() {
	container := di.NewContainer()

	cmd.SetContainer(container)

	cmd.Execute()
}
