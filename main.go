// Command remote-archive lists the contents of a remote ZIP archive
// over HTTP byte-range requests, without downloading the archive.
package main

import "github.com/i64/remote-archive/cmd"

func main() {
	cmd.Execute()
}
