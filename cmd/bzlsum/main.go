// Bzlsum keeps go_repository checksums in deps.bzl in sync with go.sum.
package main

import "github.com/albertocavalcante/bzlsum/cmd/bzlsum/internal/cli"

func main() {
	cli.Execute()
}
