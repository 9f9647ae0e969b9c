package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resource-matcher/internal/export"
	"github.com/spigell/resource-matcher/internal/filtering"
	"github.com/spigell/resource-matcher/internal/logger"
	"github.com/spigell/resource-matcher/internal/matching"
	"github.com/spigell/resource-matcher/internal/profile"
)

const PromptNoExport = "do not export"

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank every resource of the dataset against one requirement",
	Run: func(cmd *cobra.Command, _ []string) {
		runMatch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringP("requirement", "r", "", "requirement id (prompted when empty)")
	matchCmd.Flags().StringP("format", "f", "", "export format: json, csv, xlsx or html (prompted when empty)")
	matchCmd.Flags().StringP("output", "o", "", "export directory")
	matchCmd.Flags().String("location", "", "keep only resources preferring this location")
	matchCmd.Flags().String("work-type", "", "keep only resources preferring this work type")
	matchCmd.Flags().Float64("min-experience", 0, "keep only resources with a primary skill of at least this many years")
	matchCmd.Flags().Bool("automated", false, "skip recommendations and prompts")
	matchCmd.Flags().IntP("top", "n", 0, "log only the best N matches")
}

func runMatch(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	s, err := newSession(ctx, logger, nil)
	if err != nil {
		logger.Fatal("preparing the matcher", zap.Error(err))
	}
	defer s.Close()

	logger.Info("starting the resource-matcher", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(s.config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	overrideExport(cmd, s.config.Export)
	automated, _ := cmd.Flags().GetBool("automated")

	requirementID, _ := cmd.Flags().GetString("requirement")
	if requirementID == "" {
		if automated {
			logger.Fatal("requirement id is required in automated mode")
		}
		requirementID, err = selectRequirement(s.dataset.RequirementIDs())
		if err != nil {
			logger.Fatal("selecting a requirement", zap.Error(err))
		}
	}

	criteria, err := filterCriteria(cmd)
	if err != nil {
		logger.Fatal("parsing filters", zap.Error(err))
	}

	results, err := s.engine.FindMatches(ctx, requirementID, automated, criteria)
	if err != nil {
		logger.Fatal("finding matches", zap.Error(err), zap.String("requirement_id", requirementID))
	}

	if len(results) == 0 {
		logger.Info("exiting", zap.String("reason", "no resources left after filters"))
		return
	}

	top, _ := cmd.Flags().GetInt("top")
	logResults(logger, results, top)

	format := s.config.Export.Format
	if format == "" && !automated {
		format, err = selectFormat()
		if err != nil {
			logger.Fatal("selecting an export format", zap.Error(err))
		}
	}
	if format == "" || format == PromptNoExport {
		return
	}

	path, err := exportResults(results, format, s.config.Export.Output)
	if err != nil {
		logger.Fatal("exporting results", zap.Error(err))
	}
	logger.Info("results exported", zap.String("path", path), zap.Int("count", len(results)))
}

// overrideExport applies the export flags of cmd over the config.
func overrideExport(cmd *cobra.Command, cfg *ExportConfig) {
	if f, _ := cmd.Flags().GetString("format"); f != "" {
		cfg.Format = f
	}
	if o, _ := cmd.Flags().GetString("output"); o != "" {
		cfg.Output = o
	}
}

func filterCriteria(cmd *cobra.Command) (filtering.Criteria, error) {
	location, _ := cmd.Flags().GetString("location")
	workType, _ := cmd.Flags().GetString("work-type")
	minExperience, _ := cmd.Flags().GetFloat64("min-experience")

	criteria := filtering.Criteria{
		Location:      location,
		WorkType:      profile.WorkType(workType).Normalize(),
		MinExperience: minExperience,
	}
	return criteria, filtering.Validate(filtering.FromCriteria(criteria))
}

func selectRequirement(ids []string) (string, error) {
	if len(ids) == 0 {
		return "", fmt.Errorf("dataset has no requirements")
	}

	prompt := promptui.Select{
		Label: "Choose a requirement and press ENTER",
		Items: ids,
	}
	_, selected, err := prompt.Run()
	return selected, err
}

func selectFormat() (string, error) {
	items := []string{PromptNoExport}
	for _, f := range export.Formats() {
		items = append(items, string(f))
	}

	prompt := promptui.Select{
		Label: "Export results?",
		Items: items,
	}
	_, selected, err := prompt.Run()
	return selected, err
}

func exportResults(results []*matching.MatchResult, format, output string) (string, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		return "", err
	}
	if output == "" {
		output = "output"
	}
	return export.WriteFile(output, f, export.NewReport(results, time.Now()))
}

func logResults(logger *zap.Logger, results []*matching.MatchResult, top int) {
	for i, r := range results {
		if top > 0 && i >= top {
			break
		}

		fields := []zap.Field{
			zap.Int("position", i+1),
			zap.String("resource_id", r.ResourceID),
			zap.String("resource_name", r.ResourceName),
			zap.Stringer("rank", r.Rank),
			zap.Float64("overall_score", r.OverallScore),
		}
		if r.Recommendation != "" {
			fields = append(fields, zap.String("recommendation", r.Recommendation))
		}
		if r.Failed() {
			fields = append(fields, zap.String("error", r.Error))
		}
		logger.Info("match", fields...)
	}
}
