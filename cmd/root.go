package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/cottand/rtype/internal/log"
	"github.com/cottand/rtype/meta"
	"github.com/cottand/rtype/resolvable"
	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// Register adds the subcommands to root, along with the flags they share
func Register(root *cobra.Command) {
	root.PersistentFlags().StringArrayP("decls", "d", nil, "TOML declaration file to load on top of the builtin classes (repeatable)")
	root.PersistentFlags().IntP("log-level", "l", int(slog.LevelWarn), "log level")

	root.AddCommand(DescribeCmd)
	root.AddCommand(GenericCmd)
	root.AddCommand(NestedCmd)
	root.AddCommand(AssignableCmd)
	root.AddCommand(ClassesCmd)
}

// session is what every subcommand works with: the declared classes and a Ctx over them
type session struct {
	universe *meta.Universe
	ctx      *resolvable.Ctx
	out      io.Writer
}

func newSession(cmd *cobra.Command) (*session, error) {
	level, err := cmd.Flags().GetInt("log-level")
	if err != nil {
		return nil, errors.WithStack(err)
	}
	log.SetLevel(slog.Level(level))
	logger := log.Section("cmd")

	paths, err := cmd.Flags().GetStringArray("decls")
	if err != nil {
		return nil, errors.WithStack(err)
	}
	u := meta.Builtin()
	for _, path := range paths {
		if err := loadDecls(u, path); err != nil {
			return nil, err
		}
		logger.Debug("loaded declarations", "path", path)
	}
	return &session{
		universe: u,
		ctx:      resolvable.NewCtx(resolvable.WithUniverse(u), resolvable.WithLogger(log.Section("resolvable"))),
		out:      cmd.OutOrStdout(),
	}, nil
}

func loadDecls(u *meta.Universe, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "could not open declarations")
	}
	defer func() { _ = f.Close() }()
	_, err = u.Load(f, path)
	return err
}

// parse describes the type expression src
func (s *session) parse(src string) (*resolvable.Type, error) {
	e, err := s.universe.Parse(src)
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse type %q", src)
	}
	return s.ctx.ForExpr(e, nil), nil
}

func (s *session) table(data pterm.TableData) error {
	return pterm.DefaultTable.WithHasHeader().WithWriter(s.out).WithData(data).Render()
}

// className shows c, or - when there is no class
func className(c *meta.Class) string {
	if c == nil {
		return "-"
	}
	return c.Name()
}

func typeName(t *resolvable.Type) string {
	if t.IsNone() {
		return "-"
	}
	return t.String()
}
