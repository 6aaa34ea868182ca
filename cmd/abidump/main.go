package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/callconv"
	"github.com/wippyai/callconv/abi"
	"github.com/wippyai/callconv/layout"
	"github.com/wippyai/callconv/target"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	slotStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	modeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		targetName string
		targetFile string
		asJSON     bool
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "abidump <signature.yaml>",
		Short: "Classify a call signature against a target calling convention",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				logger, err := zap.NewDevelopment()
				if err != nil {
					return err
				}
				defer logger.Sync()
				abi.SetLogger(logger)
			}

			tgt, err := resolveTarget(targetName, targetFile)
			if err != nil {
				return err
			}

			sig, err := loadSignature(args[0])
			if err != nil {
				return err
			}
			fn, err := classify(tgt, sig)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd, tgt, fn)
			}
			printStyled(cmd, tgt, fn)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetName, "target", "t", "x86_64-unknown-linux", "built-in target name")
	cmd.Flags().StringVar(&targetFile, "target-file", "", "YAML target description (overrides --target)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit machine-readable output")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log classification steps")
	cmd.AddCommand(newTargetsCmd())
	return cmd
}

func newTargetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List built-in targets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range target.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func resolveTarget(name, file string) (*target.Target, error) {
	if file != "" {
		return target.LoadFile(file)
	}
	tgt, ok := target.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown target %q (see \"abidump targets\")", name)
	}
	return tgt, nil
}

func classify(tgt *target.Target, sig *signatureFile) (*abi.FnABI, error) {
	conv, err := abi.ParseConv(sig.Conv)
	if err != nil {
		return nil, err
	}

	args := make([]layout.Type, 0, len(sig.Args))
	for i := range sig.Args {
		typ, err := sig.Args[i].toType()
		if err != nil {
			return nil, fmt.Errorf("arg %d: %w", i, err)
		}
		args = append(args, typ)
	}

	spec := callconv.Signature{
		Args:      args,
		Conv:      conv,
		Variadic:  sig.Variadic,
		FixedArgs: sig.Fixed,
	}
	if sig.Ret != nil {
		ret, err := sig.Ret.toType()
		if err != nil {
			return nil, fmt.Errorf("ret: %w", err)
		}
		spec.Ret = ret
	}
	return callconv.Classify(tgt, spec)
}

func printStyled(cmd *cobra.Command, tgt *target.Target, fn *abi.FnABI) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%s · %s", tgt.Name, fn.Conv)))
	for i, arg := range fn.Args {
		slot := fmt.Sprintf("arg%d %s", i, arg.Layout.Type)
		fmt.Fprintf(out, "  %s  %s\n", slotStyle.Render(slot), modeStyle.Render(arg.Mode.String()))
	}
	retSlot := "ret  " + fn.Ret.Layout.Type.String()
	fmt.Fprintf(out, "  %s  %s\n", slotStyle.Render(retSlot), modeStyle.Render(fn.Ret.Mode.String()))
}

type jsonSlot struct {
	Type string `json:"type"`
	Mode string `json:"mode"`
}

func printJSON(cmd *cobra.Command, tgt *target.Target, fn *abi.FnABI) error {
	payload := struct {
		Target string     `json:"target"`
		Conv   string     `json:"conv"`
		Args   []jsonSlot `json:"args"`
		Ret    jsonSlot   `json:"ret"`
	}{
		Target: tgt.Name,
		Conv:   fn.Conv.String(),
	}
	for _, arg := range fn.Args {
		payload.Args = append(payload.Args, jsonSlot{
			Type: arg.Layout.Type.String(),
			Mode: arg.Mode.String(),
		})
	}
	payload.Ret = jsonSlot{Type: fn.Ret.Layout.Type.String(), Mode: fn.Ret.Mode.String()}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
