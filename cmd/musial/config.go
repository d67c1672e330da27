package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	musialconfig "github.com/musial-go/musial/internal/config"
)

func newConfigCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect a BUILD configuration document",
		Long:  "Show, get, or set values of a BUILD configuration document without running a build.",
		Example: `  musial config --config build.yaml                 # show the resolved document
  musial config --config build.yaml get threads      # read one key
  musial config --config build.yaml set threads 8    # set one key`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(configPath)
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the BUILD configuration document (required)")
	cmd.MarkPersistentFlagRequired("config")

	cmd.AddCommand(newConfigGetCmd(&configPath))
	cmd.AddCommand(newConfigSetCmd(&configPath))

	return cmd
}

func newConfigGetCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one configuration key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(*configPath, args[0])
		},
	}
}

func newConfigSetCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one configuration key and write the document back",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(*configPath, args[0], args[1])
		},
	}
}

// runConfigShow validates the document via musialconfig.Load (catching
// the same errors a build would) and then prints it back as YAML in
// its raw, unvalidated form so the user sees exactly what is on disk.
func runConfigShow(configPath string) error {
	if _, err := musialconfig.Load(configPath); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	out, err := yaml.Marshal(v.AllSettings())
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Print(string(out))
	return nil
}

func runConfigGet(configPath, key string) error {
	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	val := v.Get(key)
	if val == nil {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Println(val)
	return nil
}

func runConfigSet(configPath, key, value string) error {
	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return err
	}

	switch value {
	case "true", "yes", "on":
		v.Set(key, true)
	case "false", "no", "off":
		v.Set(key, false)
	default:
		v.Set(key, value)
	}

	if err := v.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	fmt.Printf("Set %s = %s in %s\n", key, value, configPath)
	return nil
}
