package controllers

import (
	"github.com/spf13/cobra"
)

var Command = &cobra.Command{
	Use:   "controllers",
	Short: "Control law related commands",
}
