// Command vqlite is the REPL entry point: open the database file named on
// the command line and read statements from stdin until ".exit".
package main

import (
	"fmt"
	"os"

	"github.com/vqlite/vqlite/internal/repl"
	"github.com/vqlite/vqlite/internal/storage"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("must suply a database filename")
		os.Exit(1)
	}

	table := storage.OpenDB(os.Args[1])
	defer table.Close()

	session, err := repl.New(table, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer session.Close()

	if err := session.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
