package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/gofrets/gofrets/cmd"
	"github.com/gofrets/gofrets/convert"
	"github.com/gofrets/gofrets/model"
)

// Exit codes: 0 success, 1 user or config error, 2 parse error,
// 3 I/O error writing output.
func main() {
	err := cmd.Execute()
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, "error:", err)

	var inputErr *model.InputError
	var outputErr *convert.OutputError
	switch {
	case errors.As(err, &inputErr):
		os.Exit(2)
	case errors.As(err, &outputErr):
		os.Exit(3)
	default:
		os.Exit(1)
	}
}
