// Command urlcounterd runs one node of the clustered domain hit counter.
package main

import "github.com/domainrank/urlcounter/cmd/urlcounterd/cmd"

func main() {
	cmd.Execute()
}
