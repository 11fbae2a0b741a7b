package main

import (
	"fmt"

	"github.com/trezcool/gradebook/storage/datafile"
)

// check loads a data file and prints what it holds. An aborted load is returned as an error.
func (cli *commandLine) check(store *datafile.Store) error {
	sum, err := store.Load()
	fmt.Fprintf(cli.out, "%s:\n", store.Path())
	fmt.Fprintf(cli.out, "  teachers:     %d\n", sum.Teachers)
	fmt.Fprintf(cli.out, "  students:     %d\n", sum.Students)
	fmt.Fprintf(cli.out, "  classes:      %d\n", sum.Classes)
	fmt.Fprintf(cli.out, "  skipped:      %d\n", sum.Skipped)
	fmt.Fprintf(cli.out, "  unknown tags: %d\n", sum.UnknownTags)
	if !sum.Ended && err == nil {
		fmt.Fprintf(cli.out, "  no %s marker\n", datafile.TagEnd)
	}
	return err
}
