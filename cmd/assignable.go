package cmd

import (
	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// ErrNotAssignable is returned by the assignable command for a negative answer,
// so that the exit code reflects it
var ErrNotAssignable = errors.New("not assignable")

var AssignableCmd = &cobra.Command{
	Use:          "assignable TO FROM",
	Short:        "Check whether a value of type FROM can be assigned to a variable of type TO",
	Example:      `  rtype assignable "List<? extends Number>" "ArrayList<Integer>"`,
	RunE:         runAssignable,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
}

func runAssignable(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	to, err := s.parse(args[0])
	if err != nil {
		return err
	}
	from, err := s.parse(args[1])
	if err != nil {
		return err
	}

	if !to.IsAssignableFrom(from) {
		return errors.Wrapf(ErrNotAssignable, "%s is not assignable from %s", to, from)
	}
	pterm.Success.WithWriter(s.out).Printfln("%s is assignable from %s", to, from)
	return nil
}
