package main

import (
	"github.com/NVIDIA/cns-ops/pkg/cli"
)

func main() {
	cli.ExecuteDeploy()
}
