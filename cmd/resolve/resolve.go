// Package resolve handles the catalog resolution command
package resolve

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"costeo/ingesta/cmd/common"
	"costeo/ingesta/cmd/root"
	"costeo/ingesta/internal/models"
	"costeo/ingesta/internal/resolver"
)

// Cmd represents the resolve command
var Cmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve a line item against the tenant catalog",
	Long: `Run the entity-resolution strategies for one line item, given its
description and optional source code, and print the matched catalog
entry with its score. Learned mappings are consulted and written the
same way document ingestion does.`,
	Run: resolveFunc,
}

func init() {
	Cmd.Flags().StringVarP(&root.Description, "description", "d", "", "Line-item description")
	Cmd.Flags().StringVarP(&root.Code, "code", "c", "", "Source item code (SKU)")
	if err := Cmd.MarkFlagRequired("description"); err != nil {
		root.Log.Warnf("Failed to mark description flag required: %v", err)
	}
}

func resolveFunc(cmd *cobra.Command, args []string) {
	pipeline, err := common.Build(root.Cfg, root.SharedFlags.Output, root.Log)
	if err != nil {
		root.Log.Fatalf("Error building pipeline: %v", err)
	}
	defer pipeline.Close()

	engine := resolver.New(pipeline.Store, pipeline.Store, resolver.Config{
		MinScore:  root.Cfg.Resolver.MinScore,
		AutoLearn: root.Cfg.Resolver.AutoLearn,
	}, pipeline.Logger)

	match, err := engine.Resolve(context.Background(), root.SharedFlags.Tenant, models.CanonicalLineItem{
		SKUOrCode:   root.Code,
		Description: root.Description,
	})
	if err != nil {
		root.Log.Fatalf("Error resolving line item: %v", err)
	}

	if match == nil {
		fmt.Println("unresolved")
		return
	}
	fmt.Printf("%s\t%s\t%.2f\t%s\n", match.Entry.ID, match.Entry.Name, match.Score, match.Source)
}
