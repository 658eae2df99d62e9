package main

import (
	"fmt"
	"io"
	"os"

	apperrors "github.com/yashrajoria/storefront-session/common/errors"
)

func main() {
	if err := execute(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, apperrors.MessageOf(err))
		os.Exit(1)
	}
}

// execute runs one CLI invocation and always closes the store it opened.
func execute(args []string, stdout, stderr io.Writer) error {
	a := &app{}
	defer func() { _ = a.close() }()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.Execute()
}
