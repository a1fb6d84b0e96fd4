package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcp-telegram/mcp-telegram/internal/config"
	"github.com/mcp-telegram/mcp-telegram/internal/container"
	"github.com/mcp-telegram/mcp-telegram/internal/schema"
	"github.com/mcp-telegram/mcp-telegram/internal/tools"
)

var listToolsCmd = &cobra.Command{
	Use:   "list-tools",
	Short: "List the tools this server exposes",
	RunE:  runListTools,
}

var (
	callToolName string
	callToolArgs string
)

var callToolCmd = &cobra.Command{
	Use:   "call-tool",
	Short: "Invoke a single tool and print its result",
	RunE:  runCallTool,
}

func init() {
	callToolCmd.Flags().StringVarP(&callToolName, "name", "n", "", "Tool name")
	callToolCmd.Flags().StringVarP(&callToolArgs, "arguments", "a", "{}", "Tool arguments as a JSON object")
	_ = callToolCmd.MarkFlagRequired("name")
}

func runListTools(_ *cobra.Command, _ []string) error {
	registry, err := tools.NewRegistry(tools.Definitions())
	if err != nil {
		return err
	}
	for _, tool := range registry.List() {
		props, err := json.Marshal(tool.InputSchema.Properties)
		if err != nil {
			return fmt.Errorf("marshal schema for %s: %w", tool.Name, err)
		}
		fmt.Printf("%-20s %s\n", tool.Name, firstLine(tool.Description))
		fmt.Printf("%-20s %s\n", "", props)
	}
	return nil
}

func runCallTool(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	setupLogging(cfg, false)

	var arguments map[string]any
	if err := json.Unmarshal([]byte(callToolArgs), &arguments); err != nil {
		return fmt.Errorf("parse arguments: %w", err)
	}

	c, err := container.New(cfg, version)
	if err != nil {
		return fmt.Errorf("wire services: %w", err)
	}
	defer c.Client().Close()

	items, err := c.Invoker().Invoke(cmd.Context(), callToolName, arguments)
	if err != nil {
		return err
	}
	for _, item := range items {
		switch v := item.(type) {
		case schema.TextContent:
			fmt.Println(v.Text)
		case schema.ImageContent:
			fmt.Printf("[image %s, %d base64 bytes]\n", v.MimeType, len(v.Data))
		case schema.EmbeddedResource:
			fmt.Println(v.Resource.Text)
		}
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
