package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bartekjanek/siteplanner/pkg/plan"
	"github.com/bartekjanek/siteplanner/pkg/site"
	"github.com/bartekjanek/siteplanner/pkg/validation"
)

// loadAndValidate loads the site definition and runs input validation.
func loadAndValidate(projectPath string) (*site.Definition, *validation.Report, error) {
	def, err := site.LoadProject(projectPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading site definition: %w", err)
	}
	return def, def.Validate(), nil
}

func runValidate(projectPath string) error {
	_, report, err := loadAndValidate(projectPath)
	if err != nil {
		return err
	}

	printValidationReport(report)

	if !report.Valid {
		os.Exit(1)
	}
	return nil
}

func runPlan(projectPath string) error {
	def, report, err := loadAndValidate(projectPath)
	if err != nil {
		return err
	}
	if !report.Valid {
		printValidationReport(report)
		return fmt.Errorf("site definition has validation errors")
	}

	result, runReport, err := plan.Run(def, plan.Options{})
	if err != nil {
		printValidationReport(runReport)
		return fmt.Errorf("planning failed: %w", err)
	}

	output := map[string]any{
		"plan":       result,
		"validation": runReport,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}
