// Package main image2svg 命令行工具
//
// 用法：
//
//	image2svg convert input.png -o output.svg
//	image2svg inspect output.svg
//
// 全部参数见 --help。
package main

func main() {
	Execute()
}
