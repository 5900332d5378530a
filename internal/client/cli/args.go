package cli

import (
	"flag"
	"fmt"
	"io"
	"strconv"
)

// parseID разбирает положительный числовой идентификатор
func parseID(what, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", what, s)
	}
	return id, nil
}

// requireArgs проверяет количество позиционных аргументов
func requireArgs(args []string, n int, usage string) error {
	if len(args) < n {
		return fmt.Errorf("missing arguments. Usage: ludonova %s", usage)
	}
	return nil
}

// newFlagSet создает набор флагов подкоманды, ошибки разбора возвращаются вызывающему
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parseInterspersed allows flags after positional arguments ("library-add 5 --status PLAYING").
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, fmt.Errorf("invalid flags for %s: %w", fs.Name(), err)
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}
