package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/netgraph/pkg/config"
)

// configCommand inspects and edits the config file.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or edit layout and view options",
	}
	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configSetCommand())
	cmd.AddCommand(c.configPathCommand())
	return cmd
}

func (c *CLI) resolveConfigPath() (string, error) {
	if c.configPath != "" {
		return c.configPath, nil
	}
	return config.DefaultPath()
}

func (c *CLI) configShowCommand() *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print every option in effect",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.loadOptions(sets)
			if err != nil {
				return err
			}
			for _, name := range config.Names() {
				v, err := opts.Get(name)
				if err != nil {
					return err
				}
				printKeyValue(name, v)
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "override an option (repeatable)")
	return cmd
}

func (c *CLI) configInitCommand() *cobra.Command {
	var (
		preset string
		force  bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the defaults of a preset",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.resolveConfigPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			opts, err := config.ForPreset(preset)
			if err != nil {
				return err
			}
			if err := config.Save(opts, path); err != nil {
				return err
			}
			printSuccess("Wrote %s preset", preset)
			printFile(path)
			return nil
		},
	}
	cmd.Flags().StringVar(&preset, "preset", config.PresetDefault, "preset: default, expanded")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func (c *CLI) configSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set [name] [value]",
		Short: "Change one option in the config file",
		Args:  cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return config.Names(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.resolveConfigPath()
			if err != nil {
				return err
			}
			opts, err := c.loadOptions(nil)
			if err != nil {
				return err
			}
			if err := opts.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := config.Save(opts, path); err != nil {
				return err
			}
			v, _ := opts.Get(args[0])
			printSuccess("%s = %s", args[0], v)
			return nil
		},
	}
}

func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.resolveConfigPath()
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
}
