package main

import (
	"fmt"
	"io"
	"os"

	"github.com/kkanellis/cloudlab-nfs-client/config"
	"github.com/kkanellis/cloudlab-nfs-client/internal/batch"
	"github.com/kkanellis/cloudlab-nfs-client/internal/generator"
	"github.com/kkanellis/cloudlab-nfs-client/internal/models"
	"github.com/kkanellis/cloudlab-nfs-client/internal/parser"
	"github.com/kkanellis/cloudlab-nfs-client/internal/rspec"
	"github.com/kkanellis/cloudlab-nfs-client/pkg/logger"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	configPath string
	format     string
	output     string
	path       string
	outputDir  string
	logLevel   string
	logJSON    bool
)

var root = &cobra.Command{
	Use:   "nfs-client-profile",
	Short: "Generate CloudLab request RSpecs for NFS clients on a shared VLAN",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.SetLogLevel(logLevel); err != nil {
			return fmt.Errorf("failed to set log level: %w", err)
		}

		if logJSON {
			logger.SetJSONFormat()
		}

		return nil
	},
}

var generate = &cobra.Command{
	Use:   "generate",
	Short: "Generate the request RSpec for the given parameters",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		outputFormat, err := rspec.ParseFormat(format)
		if err != nil {
			return fmt.Errorf("failed to parse format: %w", err)
		}

		cfg, err := config.Load(configPath, cmd.Flags())
		if err != nil {
			return fmt.Errorf("failed to load parameters: %w", err)
		}

		request, err := generator.Generate(cfg.Parameters)
		if err != nil {
			return fmt.Errorf("failed to generate rspec: %w", err)
		}

		if output == "-" {
			return rspec.Render(cmd.OutOrStdout(), request, outputFormat)
		}

		if err := rspec.WriteFile(output, request, outputFormat); err != nil {
			return fmt.Errorf("failed to write rspec: %w", err)
		}

		logger.WithField("output", output).Infof("generated %d nodes", len(request.Nodes))

		return nil
	},
}

var validate = &cobra.Command{
	Use:   "validate",
	Short: "Validate the parameters and plan addresses without emitting an RSpec",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := config.Load(configPath, cmd.Flags())
		if err != nil {
			return fmt.Errorf("failed to load parameters: %w", err)
		}

		gctx, err := generator.NewContext(cfg.Parameters)
		if err != nil {
			return fmt.Errorf("failed to validate parameters: %w", err)
		}

		if err := gctx.Build(); err != nil {
			return fmt.Errorf("failed to plan nodes: %w", err)
		}

		return printYAML(cmd.OutOrStdout(), summarize(gctx))
	},
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Generate one RSpec per parameter file in a directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		outputFormat, err := rspec.ParseFormat(format)
		if err != nil {
			return fmt.Errorf("failed to parse format: %w", err)
		}

		sets, err := parser.Parse(path)
		if err != nil {
			return fmt.Errorf("failed to parse parameter sets: %w", err)
		}

		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		runner := batch.New(batch.Config{OutputDir: outputDir, Format: outputFormat})

		results, err := runner.Run(cmd.Context(), sets)
		if err != nil {
			return fmt.Errorf("failed to generate parameter sets: %w", err)
		}

		return printYAML(cmd.OutOrStdout(), results)
	},
}

var params = &cobra.Command{
	Use:   "params",
	Short: "Print the profile parameter definitions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		return printYAML(cmd.OutOrStdout(), models.Definitions())
	},
}

type nodeSummary struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
	Netmask string `yaml:"netmask"`
}

type summary struct {
	Variant    string        `yaml:"variant"`
	SharedVlan string        `yaml:"sharedVlan"`
	Gateway    string        `yaml:"gateway,omitempty"`
	Nodes      []nodeSummary `yaml:"nodes"`
}

func summarize(gctx *generator.Context) summary {
	result := summary{
		Variant:    gctx.Params.Variant().String(),
		SharedVlan: gctx.Params.SharedVlanName,
		Nodes:      make([]nodeSummary, 0, len(gctx.Request.Nodes)),
	}

	if gateway := gctx.Plan.Gateway(); gateway != nil {
		result.Gateway = gateway.String()
	}

	for _, node := range gctx.Request.Nodes {
		address := node.Interfaces[0].Addresses[0]
		result.Nodes = append(result.Nodes, nodeSummary{
			Name:    node.Name,
			Address: address.Address,
			Netmask: address.Netmask,
		})
	}

	return result
}

func printYAML(w io.Writer, value any) error {
	data, err := yaml.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}

func addParameterFlags(cmd *cobra.Command) {
	defaults := models.DefaultParameters()

	cmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML parameter file")
	cmd.Flags().Int("node-count", defaults.NodeCount, "Number of nodes")
	cmd.Flags().String("os-image", defaults.OSImage, "OS image URN or label")
	cmd.Flags().String("phystype", defaults.PhysType, "Optional single physical node type")
	cmd.Flags().String("shared-vlan-name", defaults.SharedVlanName, "Shared VLAN name")
	cmd.Flags().String("shared-vlan-address", defaults.SharedVlanAddress, "Shared VLAN IP address given to every node")
	cmd.Flags().String("shared-vlan-netmask", defaults.SharedVlanNetmask, "Shared VLAN netmask as a dotted quad")
	cmd.Flags().String("shared-vlan-network", defaults.SharedVlanNetwork, "Shared VLAN network in CIDR notation")
	cmd.Flags().StringSlice("reserved-addresses", defaults.ReservedAddresses, "Shared VLAN addresses already in use")
}

func init() {
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level")
	root.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Log in JSON format")

	addParameterFlags(generate)
	generate.Flags().StringVar(&format, "format", string(rspec.FormatXML), "Output format (xml or yaml)")
	generate.Flags().StringVarP(&output, "output", "o", "-", "Output file, - for stdout")

	addParameterFlags(validate)

	batchCmd.Flags().StringVar(&path, "path", "", "Path to parameter files directory")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory to write RSpecs into")
	batchCmd.Flags().StringVar(&format, "format", string(rspec.FormatXML), "Output format (xml or yaml)")
	batchCmd.MarkFlagRequired("path")
	batchCmd.MarkFlagRequired("output-dir")

	root.AddCommand(generate, validate, batchCmd, params)
}

func main() {
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
