// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

// Command junoscfg retrieves the configuration of a Junos device over
// NETCONF and writes it to a local file, reporting whether the content
// changed.
//
// Parameters can be given as flags or JUNOSCFG_* environment variables
// (e.g. JUNOSCFG_PASSWD). The completion report is printed as JSON on
// stdout; failures exit non-zero.
//
// Usage:
//
//	junoscfg --host 192.168.1.1 --user admin --passwd secret \
//	    --dest /var/backups/router1.conf --format text --diff
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	junos "github.com/netascode/go-junos"
)

// report is the JSON completion report written to stdout
type report struct {
	Changed bool         `json:"changed"`
	Msg     string       `json:"msg,omitempty"`
	Diff    *diffPayload `json:"diff,omitempty"`
	Failed  bool         `json:"failed"`
}

type diffPayload struct {
	Before       string `json:"before"`
	After        string `json:"after"`
	BeforeHeader string `json:"before_header"`
	AfterHeader  string `json:"after_header"`
}

var rootCmd = &cobra.Command{
	Use:   "junoscfg",
	Short: "Save the configuration of a Junos device to a local file",
	Long: `junoscfg connects to a Junos device over NETCONF, retrieves its
configuration (optionally scoped to a subtree), and writes the result to a
local file. The file is rewritten only when the content changed; with
--check the diff is computed but the file is never modified.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	flags := rootCmd.Flags()
	flags.String("host", "", "target device address (required)")
	flags.String("user", "", "authentication user (default: current OS user)")
	flags.String("passwd", "", "authentication password (default: key-based auth)")
	flags.Int("port", junos.DefaultPort, "NETCONF port")
	flags.Int("timeout", 0, "RPC timeout in seconds (0: transport default)")
	flags.String("logfile", "", "diagnostic log destination")
	flags.String("log-level", "info", "diagnostic log level (debug, info, warn, error)")
	flags.String("dest", "", "output file path (required)")
	flags.String("format", junos.FormatText, "output format (text, xml)")
	flags.String("options", "", "extra RPC options as an inline YAML mapping, e.g. '{database: committed}'")
	flags.String("filter", "", "slash-delimited configuration subtree, e.g. 'interfaces'")
	flags.Bool("check", false, "dry-run: compute the diff but never modify the destination file")
	flags.Bool("diff", false, "include a before/after diff payload in the report")

	if err := viper.BindPFlags(flags); err != nil {
		panic(err)
	}
	viper.SetEnvPrefix("JUNOSCFG")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func run(cmd *cobra.Command, _ []string) error {
	host := viper.GetString("host")
	dest := viper.GetString("dest")

	// Required-parameter validation happens before any network activity
	if host == "" {
		return fail(cmd, "missing required parameter: host")
	}
	if dest == "" {
		return fail(cmd, "missing required parameter: dest")
	}

	options, err := parseOptions(viper.GetString("options"))
	if err != nil {
		return fail(cmd, fmt.Sprintf("invalid options mapping: %v", err))
	}

	logger, closeLogger, err := buildLogger()
	if err != nil {
		return fail(cmd, err.Error())
	}
	defer closeLogger()

	clientOpts := []func(*junos.Client){
		junos.Port(viper.GetInt("port")),
		junos.WithLogger(logger),
	}
	if user := viper.GetString("user"); user != "" {
		clientOpts = append(clientOpts, junos.Username(user))
	}
	if passwd := viper.GetString("passwd"); passwd != "" {
		clientOpts = append(clientOpts, junos.Password(passwd))
	}

	client, err := junos.NewClient(host, clientOpts...)
	if err != nil {
		return fail(cmd, err.Error())
	}

	mods := []func(*junos.Req){
		junos.Format(viper.GetString("format")),
		junos.Filter(viper.GetString("filter")),
		junos.Options(options),
		junos.DryRun(viper.GetBool("check")),
		junos.WithDiff(viper.GetBool("diff")),
	}
	if timeout := viper.GetInt("timeout"); timeout > 0 {
		mods = append(mods, junos.Timeout(time.Duration(timeout)*time.Second))
	}

	res, err := client.SaveConfig(context.Background(), dest, mods...)
	if err != nil {
		return fail(cmd, err.Error())
	}

	out := report{Changed: res.Changed}
	if res.Diff != nil {
		out.Diff = &diffPayload{
			Before:       res.Diff.Before,
			After:        res.Diff.After,
			BeforeHeader: res.Diff.BeforeLabel,
			AfterHeader:  res.Diff.AfterLabel,
		}
	}
	emit(cmd, out)
	return nil
}

// fail emits a failed report and returns an error carrying the message
func fail(cmd *cobra.Command, msg string) error {
	emit(cmd, report{Msg: msg, Failed: true})
	return fmt.Errorf("%s", msg)
}

// emit writes the completion report as JSON on stdout
func emit(cmd *cobra.Command, r report) {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "unable to encode report: %v\n", err)
	}
}

// parseOptions decodes the --options value as an inline YAML mapping
func parseOptions(raw string) (map[string]string, error) {
	options := map[string]string{}
	if raw == "" {
		return options, nil
	}
	if err := yaml.Unmarshal([]byte(raw), &options); err != nil {
		return nil, err
	}
	return options, nil
}

// buildLogger resolves the diagnostic logger from --logfile/--log-level
func buildLogger() (junos.Logger, func(), error) {
	level := junos.ParseLogLevel(viper.GetString("log-level"))
	path := viper.GetString("logfile")
	if path == "" {
		return &junos.NoOpLogger{}, func() {}, nil
	}
	logger, err := junos.NewFileLogger(path, level)
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = logger.Close() }, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
