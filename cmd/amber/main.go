package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/amberhq/amber/ai"
	"github.com/amberhq/amber/habits"
	"github.com/amberhq/amber/internal/profile"
	"github.com/amberhq/amber/internal/version"
	"github.com/amberhq/amber/search"
	"github.com/amberhq/amber/store"
	"github.com/amberhq/amber/store/db"
)

var rootCmd = &cobra.Command{
	Use:     "amber",
	Short:   "Personal CRM data layer with hybrid search and habit analytics.",
	Version: version.String(),
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		// Try to load .env from the current directory; absence is fine.
		_ = godotenv.Load()
		return nil
	},
}

func loadProfile() (*profile.Profile, error) {
	instanceProfile := &profile.Profile{
		Mode:    viper.GetString("mode"),
		Data:    viper.GetString("data"),
		Driver:  viper.GetString("driver"),
		DSN:     viper.GetString("dsn"),
		Version: version.GetCurrentVersion(viper.GetString("mode")),
	}
	instanceProfile.FromEnv()
	if err := instanceProfile.Validate(); err != nil {
		return nil, err
	}
	return instanceProfile, nil
}

func openStore(ctx context.Context) (*store.Store, error) {
	instanceProfile, err := loadProfile()
	if err != nil {
		return nil, err
	}
	driver, err := db.NewDriver(instanceProfile)
	if err != nil {
		return nil, err
	}
	storeInstance := store.New(driver, instanceProfile)
	if err := storeInstance.Migrate(ctx); err != nil {
		return nil, err
	}
	return storeInstance, nil
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Initialize or upgrade the database schema.",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		storeInstance, err := openStore(ctx)
		if err != nil {
			slog.Error("failed to migrate", "error", err)
			os.Exit(1)
		}
		defer storeInstance.Close()
		printGreetings(storeInstance.Profile())
		fmt.Println("Database schema is up to date.")
	},
}

func printGreetings(instanceProfile *profile.Profile) {
	fmt.Printf("amber %s\n", version.StringFull())
	fmt.Printf("mode=%s driver=%s dsn=%q\n", instanceProfile.Mode, instanceProfile.Driver, instanceProfile.DSN)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search across contacts, notes, interactions, events and tasks.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		query := args[0]
		userID := int32(viper.GetInt("user"))
		limit := viper.GetInt("limit")
		mode := viper.GetString("search-mode")
		threshold := viper.GetFloat64("threshold")

		types := []store.OwnerType{}
		for _, t := range strings.Split(viper.GetString("types"), ",") {
			if t = strings.TrimSpace(t); t != "" {
				types = append(types, store.OwnerType(t))
			}
		}

		storeInstance, err := openStore(ctx)
		if err != nil {
			slog.Error("failed to open store", "error", err)
			os.Exit(1)
		}
		defer storeInstance.Close()

		engine := search.NewEngine(storeInstance)

		var results []*search.Result
		switch mode {
		case "traditional":
			results, err = engine.SearchTraditional(ctx, userID, query, limit, types)
		case "semantic", "hybrid":
			var embedder ai.EmbeddingService
			embedder, err = ai.NewEmbeddingService(storeInstance.Profile())
			if err != nil {
				slog.Error("semantic search needs an embedding endpoint", "error", err)
				os.Exit(1)
			}
			var queryEmbedding []float32
			queryEmbedding, err = embedder.Embed(ctx, query)
			if err != nil {
				slog.Error("failed to embed query", "error", err)
				os.Exit(1)
			}
			if mode == "semantic" {
				results, err = engine.SearchSemantic(ctx, userID, queryEmbedding, limit, threshold, types)
			} else {
				results, err = engine.SearchHybrid(ctx, userID, query, queryEmbedding, limit, threshold, types)
			}
		default:
			slog.Error("unknown search mode", "mode", mode)
			os.Exit(1)
		}
		if err != nil {
			slog.Error("search failed", "error", err)
			os.Exit(1)
		}

		if len(results) == 0 {
			fmt.Println("No results.")
			return
		}
		for _, result := range results {
			if result.Similarity > 0 {
				fmt.Printf("[%s] %-14s %s (similarity %.3f)\n", result.Source, result.Type, result.Title, result.Similarity)
			} else {
				fmt.Printf("[%s] %-14s %s\n", result.Source, result.Type, result.Title)
			}
		}
	},
}

var habitStatsCmd = &cobra.Command{
	Use:   "habit-stats",
	Short: "Show streaks and completion statistics for a habit, or a summary of all habits.",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		userID := int32(viper.GetInt("user"))
		habitID := int32(viper.GetInt("habit"))

		storeInstance, err := openStore(ctx)
		if err != nil {
			slog.Error("failed to open store", "error", err)
			os.Exit(1)
		}
		defer storeInstance.Close()

		analytics := habits.NewAnalytics(storeInstance)

		if habitID == 0 {
			summary, err := analytics.GetHabitsSummary(ctx, userID)
			if err != nil {
				slog.Error("failed to compute summary", "error", err)
				os.Exit(1)
			}
			fmt.Printf("Active habits:       %d\n", summary.ActiveHabits)
			fmt.Printf("Completed today:     %d\n", summary.CompletedToday)
			fmt.Printf("30-day rate:         %.1f%%\n", summary.CompletionRate30Days*100)
			fmt.Printf("Total streak days:   %d\n", summary.TotalCurrentStreak)
			fmt.Printf("Best current streak: %d\n", summary.MaxCurrentStreak)
			fmt.Printf("Week over week:      %+.1f%%\n", summary.WeekOverWeekChange)
			fmt.Printf("Month over month:    %+.1f%%\n", summary.MonthOverMonthChange)
			return
		}

		streak, err := analytics.CalculateStreak(ctx, userID, habitID)
		if err != nil {
			slog.Error("failed to compute streak", "error", err)
			os.Exit(1)
		}
		fmt.Printf("Current streak: %d\n", streak.CurrentStreak)
		fmt.Printf("Longest streak: %d\n", streak.LongestStreak)
		fmt.Printf("Active today:   %v\n", streak.IsActiveToday)
		if streak.LastCompletedDate != nil {
			fmt.Printf("Last completed: %s\n", *streak.LastCompletedDate)
		}
		for _, milestone := range streak.Milestones {
			achieved := "-"
			if milestone.AchievedAt != nil {
				achieved = *milestone.AchievedAt
			}
			fmt.Printf("  %3d days: %s\n", milestone.Days, achieved)
		}
	},
}

func init() {
	viper.SetDefault("mode", "dev")
	viper.SetDefault("driver", "sqlite")
	viper.SetDefault("user", 1)
	viper.SetDefault("limit", 20)
	viper.SetDefault("search-mode", "traditional")
	viper.SetDefault("threshold", search.DefaultSimilarityThreshold)

	rootCmd.PersistentFlags().String("mode", "dev", `mode, can be "prod" or "dev" or "demo"`)
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", "database driver (sqlite, postgres)")
	rootCmd.PersistentFlags().String("dsn", "", "database source name (aka. DSN)")
	rootCmd.PersistentFlags().Int("user", 1, "owner id scoping every operation")

	searchCmd.Flags().Int("limit", 20, "maximum number of results")
	searchCmd.Flags().String("search-mode", "traditional", "search mode (traditional, semantic, hybrid)")
	searchCmd.Flags().Float64("threshold", search.DefaultSimilarityThreshold, "minimum cosine similarity for semantic results")
	searchCmd.Flags().String("types", "", "comma-separated entity types to search (default: all)")

	habitStatsCmd.Flags().Int("habit", 0, "habit id (omit for the all-habit summary)")

	for _, flag := range []string{"mode", "data", "driver", "dsn", "user"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}
	for _, flag := range []string{"limit", "search-mode", "threshold", "types"} {
		if err := viper.BindPFlag(flag, searchCmd.Flags().Lookup(flag)); err != nil {
			panic(err)
		}
	}
	if err := viper.BindPFlag("habit", habitStatsCmd.Flags().Lookup("habit")); err != nil {
		panic(err)
	}

	viper.SetEnvPrefix("amber")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	rootCmd.AddCommand(migrateCmd, searchCmd, habitStatsCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
