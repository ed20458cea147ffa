package cmd

import (
	"strings"

	"github.com/cottand/rtype/meta"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var ClassesCmd = &cobra.Command{
	Use:          "classes [PREFIX]",
	Short:        "List the declared classes, optionally only those whose name starts with PREFIX",
	RunE:         runClasses,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
}

func runClasses(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	prefix := ""
	if len(args) > 0 {
		prefix = args[0]
	}

	data := pterm.TableData{{"class", "kind", "superclass", "interfaces"}}
	for _, c := range s.universe.Classes() {
		if !strings.HasPrefix(c.Name(), prefix) {
			continue
		}
		data = append(data, []string{declaredName(c), c.Kind().String(), superclassOf(c), interfacesOf(c)})
	}
	return s.table(data)
}

// declaredName shows c with its type parameters, like util.Map<K, V>
func declaredName(c *meta.Class) string {
	params := c.TypeParams()
	if len(params) == 0 {
		return c.Name()
	}
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return c.Name() + "<" + strings.Join(names, ", ") + ">"
}

func superclassOf(c *meta.Class) string {
	super, err := c.GenericSuperclass()
	if err != nil {
		return "missing"
	}
	if super == nil {
		return "-"
	}
	return super.String()
}

func interfacesOf(c *meta.Class) string {
	ifaces, err := c.GenericInterfaces()
	if err != nil {
		return "missing"
	}
	strs := make([]string, len(ifaces))
	for i, iface := range ifaces {
		strs[i] = iface.String()
	}
	return strings.Join(strs, ", ")
}
