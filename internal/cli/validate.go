package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stackwatch-io/stackwatch/internal/stack"
)

var validateTemplate string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a stack template",
	Long:  `Parses the template, descends nested stacks, and checks declared function architectures.`,
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateTemplate, "template", "t", "template.yaml", "Stack template file to validate")
}

func runValidate(cmd *cobra.Command, args []string) error {
	root, err := stack.LoadTemplate(validateTemplate)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	stacks := []*stack.Stack{root}

	ids := stack.AllResourceIDs(stacks)
	problems := 0
	for _, id := range ids {
		fn := stack.LookupFunction(stacks, id)
		if fn == nil {
			continue
		}
		for _, arch := range fn.Architectures {
			if err := stack.ValidateArchitecture(arch); err != nil {
				fmt.Printf("  %s: %v\n", id, err)
				problems++
			}
		}
	}

	fmt.Printf("%d resources declared\n", len(ids))
	if problems > 0 {
		return fmt.Errorf("validation failed: %d invalid architecture declarations", problems)
	}
	fmt.Println("Template is valid!")
	return nil
}
