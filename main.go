// Command ar5iv2md converts ar5iv paper pages into portable Markdown
// with locally cached images.
package main

import "github.com/xhiroga/ar5iv2md/cmd"

func main() {
	cmd.Execute()
}
