package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/matzehuels/iconsprite/pkg/icon"
	"github.com/matzehuels/iconsprite/pkg/pipeline"
	"github.com/matzehuels/iconsprite/pkg/source"
)

// scanReport is the JSON form of a scan.
type scanReport struct {
	Icons  []string `json:"icons"`
	Custom []string `json:"custom"`
	Files  int      `json:"files"`
	Failed int      `json:"failed"`
}

// scanCommand creates the scan command.
func (c *CLI) scanCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "List the icons referenced by the project",
		Long: `List the icon names found in source files and the custom icons that a build
would include. Nothing is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runScan(cmd, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func (c *CLI) runScan(cmd *cobra.Command, asJSON bool) error {
	workDir, err := c.workDir()
	if err != nil {
		return err
	}
	cfg, err := c.loadConfig(workDir, buildFlags{})
	if err != nil {
		return err
	}

	// Progress lines would corrupt JSON output.
	quiet := c.quiet || asJSON
	runner := c.newRunner(cfg, newConsoleReporter(c.stderr, quiet))
	defer runner.Close()

	res, err := runner.Discover(cmd.Context(), pipeline.Options{WorkDir: workDir, Config: cfg})
	if err != nil {
		return err
	}

	report := scanReport{
		Icons:  res.Scan.Icons.Sorted(),
		Custom: source.CustomNames(res.Custom),
		Files:  len(res.Scan.Files),
		Failed: res.Scan.Failed,
	}
	if report.Icons == nil {
		report.Icons = []string{}
	}

	if asJSON {
		enc := json.NewEncoder(c.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	out := printer{w: c.stdout}
	for _, name := range report.Icons {
		out.line(name)
	}
	for _, name := range report.Custom {
		out.line(icon.SymbolID(icon.SourceCustom, name))
	}
	return nil
}
