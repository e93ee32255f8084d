package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Gaubee/walkfs/walk"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	version = "0.1.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "walkfs [flags] <path>",
	Short: "A lazy, filter-aware directory walker",
	Long: `walkfs enumerates the files and directories beneath a root path,
computing walk-relative and workspace-relative views for each entry and
pruning or selecting entries with glob-based ignore/match rules.`,
	Version: version,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWalk(args[0])
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Flags
	rootCmd.Flags().Bool("files", false, "List only files")
	rootCmd.Flags().Bool("dirs", false, "List only directories")
	rootCmd.Flags().StringSlice("ignore", nil, "Glob patterns to exclude (repeatable)")
	rootCmd.Flags().StringSlice("match", nil, "Glob patterns to select (repeatable)")
	rootCmd.Flags().Int("depth", walk.DepthUnlimited, "Maximum directory depth to descend (-1 for unlimited)")
	rootCmd.Flags().Bool("self", false, "Also evaluate and list the root itself")
	rootCmd.Flags().String("workspace", "", "Base path for workspace-relative views (defaults to the root)")
	rootCmd.Flags().String("format", "text", "Output format (text|json)")
	rootCmd.Flags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.Flags().Bool("silent", false, "Disable all output except errors")

	// Bind flags to viper
	viper.BindPFlag("files", rootCmd.Flags().Lookup("files"))
	viper.BindPFlag("dirs", rootCmd.Flags().Lookup("dirs"))
	viper.BindPFlag("ignore", rootCmd.Flags().Lookup("ignore"))
	viper.BindPFlag("match", rootCmd.Flags().Lookup("match"))
	viper.BindPFlag("depth", rootCmd.Flags().Lookup("depth"))
	viper.BindPFlag("self", rootCmd.Flags().Lookup("self"))
	viper.BindPFlag("workspace", rootCmd.Flags().Lookup("workspace"))
	viper.BindPFlag("format", rootCmd.Flags().Lookup("format"))
	viper.BindPFlag("verbose", rootCmd.Flags().Lookup("verbose"))
	viper.BindPFlag("silent", rootCmd.Flags().Lookup("silent"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".walkfs" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".walkfs")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

func runWalk(root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", root, err)
	}

	opts := walk.NewOptions()
	opts.Ignore = walk.Filter{Patterns: viper.GetStringSlice("ignore")}
	opts.Match = walk.Filter{Patterns: viper.GetStringSlice("match")}
	opts.Depth = viper.GetInt("depth")
	opts.Self = viper.GetBool("self")

	if workspace := viper.GetString("workspace"); workspace != "" {
		absWorkspace, err := filepath.Abs(workspace)
		if err != nil {
			return fmt.Errorf("resolve workspace %s: %w", workspace, err)
		}
		opts.Workspace = absWorkspace
	}

	if viper.GetBool("verbose") {
		opts.Log = true
		opts.Logger = walk.NewLogger(walk.LogLevelDebug)
		defer opts.Logger.Sync()
	} else if viper.GetBool("silent") {
		opts.Logger = walk.NewLogger(walk.LogLevelError)
		defer opts.Logger.Sync()
	}

	emit := func(entry walk.Entry) error {
		if viper.GetString("format") == "json" {
			line, err := json.Marshal(entry.View())
			if err != nil {
				return fmt.Errorf("encode %s: %w", entry.View().EntryPath, err)
			}
			fmt.Println(string(line))
			return nil
		}
		if !viper.GetBool("silent") {
			fmt.Println(entry.View().RelativePath)
		}
		return nil
	}

	switch {
	case viper.GetBool("files"):
		for entry := range walk.WalkFiles(abs, opts) {
			if err := emit(entry); err != nil {
				return err
			}
		}
	case viper.GetBool("dirs"):
		for entry := range walk.WalkDirs(abs, opts) {
			if err := emit(entry); err != nil {
				return err
			}
		}
	default:
		for entry := range walk.WalkAny(abs, opts) {
			if err := emit(entry); err != nil {
				return err
			}
		}
	}
	return nil
}
