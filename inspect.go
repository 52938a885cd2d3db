package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"image2svg/svg2json"
)

// NewInspectCmd 创建 inspect 命令：以 JSON 输出 SVG 的尺寸和路径
func NewInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.svg>",
		Short: "Print the canvas size and paths of an SVG as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := svg2json.ParseFile(args[0])
			if err != nil {
				return err
			}
			data, err := doc.JSON()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
