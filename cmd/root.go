package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/marcus/sheet/internal/suggest"
)

var (
	version string
	baseDir string
)

// SetVersion sets the version string
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

var rootCmd = &cobra.Command{
	Use:   "sheet",
	Short: "Draggable bottom sheet engine and terminal demo",
	Long: `sheet - the interaction engine of a draggable bottom sheet.

Run the engine in a terminal with "sheet demo", replay gesture scripts
headlessly with "sheet simulate", or list the declarative attributes with
"sheet attrs".`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := execute(os.Args[1:], os.Stderr); err != nil {
		os.Exit(1)
	}
}

func execute(args []string, stderr io.Writer) error {
	if name := firstNonFlagArg(args); name != "" && !isCommand(name) {
		fmt.Fprintf(stderr, "Error: unknown command %q for \"sheet\"\n", name)
		if hints := suggest.Flag(name, commandNames()); len(hints) > 0 {
			fmt.Fprintf(stderr, "\nDid you mean this?\n\t%s\n", strings.Join(hints, "\n\t"))
		}
		fmt.Fprintln(stderr, "\nRun 'sheet --help' for usage.")
		return fmt.Errorf("unknown command %q", name)
	}
	rootCmd.SetArgs(args)
	rootCmd.SetErr(stderr)
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initBaseDir)
	rootCmd.SetFlagErrorFunc(flagErrorWithSuggestion)
}

func initBaseDir() {
	var err error
	baseDir, err = os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot determine working directory: %v\n", err)
		os.Exit(1)
	}
}

// getBaseDir returns the base directory for the project
func getBaseDir() string {
	return baseDir
}

// firstNonFlagArg returns the first argument that is not a flag.
func firstNonFlagArg(args []string) string {
	for _, a := range args {
		if !strings.HasPrefix(a, "-") {
			return a
		}
	}
	return ""
}

func commandNames() []string {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
		names = append(names, c.Aliases...)
	}
	return names
}

func isCommand(name string) bool {
	for _, n := range commandNames() {
		if n == name {
			return true
		}
	}
	// cobra's built-in commands
	return name == "help" || name == "completion"
}

// flagErrorWithSuggestion appends "did you mean" hints to unknown flag
// errors.
func flagErrorWithSuggestion(c *cobra.Command, err error) error {
	msg := err.Error()
	const prefix = "unknown flag: "
	i := strings.Index(msg, prefix)
	if i < 0 {
		return err
	}
	unknown := strings.TrimSpace(msg[i+len(prefix):])
	if hints := suggest.Flag(unknown, flagNames(c.Flags())); len(hints) > 0 {
		return fmt.Errorf("%w\n\nDid you mean: %s", err, strings.Join(hints, ", "))
	}
	return err
}

// flagNames lists the long names of every flag in fs, with dashes.
func flagNames(fs *pflag.FlagSet) []string {
	var names []string
	fs.VisitAll(func(f *pflag.Flag) {
		if !f.Hidden {
			names = append(names, "--"+f.Name)
		}
	})
	return names
}
