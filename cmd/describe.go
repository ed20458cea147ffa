package cmd

import (
	"strconv"
	"strings"

	"github.com/cottand/rtype/resolvable"
	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var DescribeCmd = &cobra.Command{
	Use:          "describe TYPE",
	Short:        "Show how a type expression resolves",
	Example:      `  rtype describe "TreeMap<String, List<Integer>>"`,
	RunE:         runDescribe,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
}

var GenericCmd = &cobra.Command{
	Use:          "generic TYPE [INDEX...]",
	Short:        "Show the generic of a type at the given indexes",
	Example:      `  rtype generic "Map<String, List<Integer>>" 1 0`,
	RunE:         runGeneric,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
}

var NestedCmd = &cobra.Command{
	Use:          "nested TYPE LEVEL",
	Short:        "Show the type at a nesting level, stepping into arrays and generics",
	Example:      `  rtype nested "Map<String, List<Integer>[]>" 3 --index 2=1`,
	RunE:         runNested,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
}

func init() {
	NestedCmd.Flags().StringToIntP("index", "i", nil, "generic index to take at a level, as LEVEL=INDEX (defaults to the last generic)")
}

func runDescribe(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	t, err := s.parse(args[0])
	if err != nil {
		return err
	}

	ifaces := make([]string, 0)
	for _, iface := range t.Interfaces() {
		ifaces = append(ifaces, iface.String())
	}
	generics := make([]string, 0)
	for _, g := range t.Generics() {
		generics = append(generics, g.String())
	}
	return s.table(pterm.TableData{
		{"property", "value"},
		{"type", t.String()},
		{"expression", t.Expr().String()},
		{"resolved", className(t.Resolve())},
		{"supertype", typeName(t.SuperType())},
		{"interfaces", strings.Join(ifaces, ", ")},
		{"generics", strings.Join(generics, ", ")},
		{"component", typeName(t.ComponentType())},
		{"unresolvable generics", strconv.FormatBool(t.HasUnresolvableGenerics())},
	})
}

func runGeneric(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	t, err := s.parse(args[0])
	if err != nil {
		return err
	}
	indexes := make([]int, len(args)-1)
	for i, arg := range args[1:] {
		if indexes[i], err = strconv.Atoi(arg); err != nil {
			return errors.Wrapf(err, "invalid generic index %q", arg)
		}
	}
	return showType(s, t.Generic(indexes...))
}

func runNested(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	t, err := s.parse(args[0])
	if err != nil {
		return err
	}
	level, err := strconv.Atoi(args[1])
	if err != nil {
		return errors.Wrapf(err, "invalid nesting level %q", args[1])
	}
	indexes, err := cmd.Flags().GetStringToInt("index")
	if err != nil {
		return errors.WithStack(err)
	}
	indexPerLevel := make(map[int]int, len(indexes))
	for key, index := range indexes {
		l, err := strconv.Atoi(key)
		if err != nil {
			return errors.Wrapf(err, "invalid level %q in --index", key)
		}
		indexPerLevel[l] = index
	}
	return showType(s, t.Nested(level, indexPerLevel))
}

func showType(s *session, t *resolvable.Type) error {
	if t.IsNone() {
		return errors.New("no such type")
	}
	return s.table(pterm.TableData{
		{"type", "resolved"},
		{t.String(), className(t.Resolve())},
	})
}
