// doxmd renders Markdown API reference documentation from Doxygen XML.
package main

import "github.com/agentic-research/doxmd/cmd"

func main() {
	cmd.Execute()
}
