package cmd

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resource-matcher/internal/logger"
	"github.com/spigell/resource-matcher/internal/profile"
	"github.com/spigell/resource-matcher/internal/skills"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Query the skill catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog skills, optionally filtered",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		withCatalog(func(c *skills.Catalog, logger *zap.Logger) {
			criteria, err := catalogCriteria(cmd)
			if err != nil {
				logger.Fatal("parsing filters", zap.Error(err))
			}
			printSkills(cmd, c.ByCriteria(criteria))
		})
	},
}

var catalogSearchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Search skill names, descriptions, tags and aliases",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withCatalog(func(c *skills.Catalog, _ *zap.Logger) {
			printSkills(cmd, c.Search(args[0]))
		})
	},
}

var catalogGapsCmd = &cobra.Command{
	Use:   "gaps",
	Short: "Print required skills that are not held",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		withCatalog(func(c *skills.Catalog, _ *zap.Logger) {
			required, _ := cmd.Flags().GetStringSlice("required")
			held, _ := cmd.Flags().GetStringSlice("held")
			for _, gap := range c.SkillGaps(required, held) {
				fmt.Fprintln(cmd.OutOrStdout(), gap)
			}
		})
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogListCmd, catalogSearchCmd, catalogGapsCmd)

	catalogListCmd.Flags().StringSlice("category", nil, "keep skills of these categories")
	catalogListCmd.Flags().StringSlice("level", nil, "keep skills of these proficiency levels")
	catalogListCmd.Flags().StringSlice("tag", nil, "keep skills carrying these tags")
	catalogListCmd.Flags().Bool("all-tags", false, "require every tag instead of any")
	catalogListCmd.Flags().Float64("min-years", 0, "minimum years of experience")
	catalogListCmd.Flags().Float64("max-years", 0, "maximum years of experience (0 means no limit)")

	catalogGapsCmd.Flags().StringSlice("required", nil, "required skills")
	catalogGapsCmd.Flags().StringSlice("held", nil, "held skills")
	catalogGapsCmd.MarkFlagRequired("required")
}

func withCatalog(fn func(*skills.Catalog, *zap.Logger)) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	catalog, err := loadCatalog(viper.GetString("catalog"), logger)
	if err != nil {
		logger.Fatal("loading the skill catalog", zap.Error(err))
	}

	fn(catalog, logger)
}

func catalogCriteria(cmd *cobra.Command) (skills.Criteria, error) {
	categories, _ := cmd.Flags().GetStringSlice("category")
	levels, _ := cmd.Flags().GetStringSlice("level")
	tags, _ := cmd.Flags().GetStringSlice("tag")
	allTags, _ := cmd.Flags().GetBool("all-tags")
	minYears, _ := cmd.Flags().GetFloat64("min-years")
	maxYears, _ := cmd.Flags().GetFloat64("max-years")

	criteria := skills.Criteria{Tags: tags, MatchAllTags: allTags, MinYears: minYears, MaxYears: maxYears}
	for _, c := range categories {
		category, err := profile.ParseCategory(c)
		if err != nil {
			return criteria, err
		}
		criteria.Categories = append(criteria.Categories, category)
	}
	for _, l := range levels {
		level, err := profile.ParseProficiency(l)
		if err != nil {
			return criteria, err
		}
		criteria.Levels = append(criteria.Levels, level)
	}
	return criteria, nil
}

func printSkills(cmd *cobra.Command, found []profile.Skill) {
	out := cmd.OutOrStdout()
	for _, s := range found {
		line := fmt.Sprintf("%-24s %-14s %-13s %4.1fy", s.Name, s.Category, s.Proficiency, s.YearsExperience)
		if len(s.Aliases) > 0 {
			line += "  aliases: " + strings.Join(s.Aliases, ", ")
		}
		fmt.Fprintln(out, line)
	}
}
