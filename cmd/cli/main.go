package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"

	"adpulse/adapters/excel"
	"adpulse/adapters/stats/creative"
	"adpulse/adapters/stats/forecast"
	"adpulse/adapters/stats/significance"
	"adpulse/domain"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "adpulse-cli",
		Short: "Campaign analytics from the command line: forecasts, A/B verdicts, test plans",
	}

	rootCmd.AddCommand(
		newForecastCmd(),
		newABTestCmd(),
		newSampleSizeCmd(),
		newPlanCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newForecastCmd() *cobra.Command {
	var file, metricName, campaignID string
	var horizon int

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Forecast a metric from an exported daily KPI workbook",
		Long: `Forecast reads an xlsx export with date/impressions/clicks/conversions/
spend/revenue columns, derives the requested metric and prints the forecast.

Example: adpulse-cli forecast --file kpis.xlsx --metric roas --horizon 14`,
		RunE: func(cmd *cobra.Command, args []string) error {
			metric, err := domain.ParseMetric(metricName)
			if err != nil {
				return err
			}

			series, err := excel.NewSeriesReader(file).ReadSeries(campaignID, metric)
			if err != nil {
				return err
			}

			result, err := forecast.NewForecaster().Forecast(series, horizon)
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "path to the KPI workbook (required)")
	cmd.Flags().StringVar(&metricName, "metric", "roas", "metric to forecast")
	cmd.Flags().StringVar(&campaignID, "campaign", "", "campaign id tag for the output")
	cmd.Flags().IntVar(&horizon, "horizon", 7, "forecast horizon in days (7, 14 or 30)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newABTestCmd() *cobra.Command {
	var level float64

	cmd := &cobra.Command{
		Use:   "abtest [control-conversions] [control-trials] [treatment-conversions] [treatment-trials]",
		Short: "Evaluate an A/B test with a two-proportion Z-test",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			nums, err := parseInts(args)
			if err != nil {
				return err
			}

			control, err := domain.NewProportionSample(nums[0], nums[1])
			if err != nil {
				return err
			}
			treatment, err := domain.NewProportionSample(nums[2], nums[3])
			if err != nil {
				return err
			}

			verdict, err := significance.NewEngine().Evaluate(control, treatment, domain.ConfidenceLevel(level))
			if err != nil {
				return err
			}
			if math.IsInf(verdict.RelativeUplift, 1) {
				fmt.Fprintln(os.Stderr, "note: control rate is zero; relative uplift is unbounded")
				verdict.RelativeUplift = 0
			}
			return printJSON(verdict)
		},
	}

	cmd.Flags().Float64Var(&level, "confidence", 0.95, "confidence level (0.90, 0.95 or 0.99)")
	return cmd
}

func newSampleSizeCmd() *cobra.Command {
	var power, level float64

	cmd := &cobra.Command{
		Use:   "sample-size [baseline-rate] [minimum-detectable-effect]",
		Short: "Compute the per-variant sample size for a target effect",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var baseline, mde float64
			if _, err := fmt.Sscanf(args[0], "%f", &baseline); err != nil {
				return fmt.Errorf("baseline rate: %w", err)
			}
			if _, err := fmt.Sscanf(args[1], "%f", &mde); err != nil {
				return fmt.Errorf("minimum detectable effect: %w", err)
			}

			size, err := significance.NewEngine().RequiredSampleSize(baseline, mde, power, domain.ConfidenceLevel(level))
			if err != nil {
				return err
			}
			return printJSON(map[string]int{"required_sample_size_per_variant": size})
		},
	}

	cmd.Flags().Float64Var(&power, "power", 0.8, "statistical power")
	cmd.Flags().Float64Var(&level, "confidence", 0.95, "confidence level (0.90, 0.95 or 0.99)")
	return cmd
}

func newPlanCmd() *cobra.Command {
	var in creative.Inputs

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Design the next creative A/B test from current CTR/CVR",
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := creative.NewPlanner(significance.NewEngine()).Plan(in)
			if err != nil {
				return err
			}
			return printJSON(plan)
		},
	}

	cmd.Flags().Float64Var(&in.CurrentCTR, "ctr", 0, "current CTR in percent")
	cmd.Flags().Float64Var(&in.CurrentCVR, "cvr", 0, "current CVR in percent")
	cmd.Flags().Float64Var(&in.AvgDailyImpressions, "daily-impressions", 0, "average daily impressions")
	return cmd
}

func parseInts(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		if _, err := fmt.Sscanf(a, "%d", &out[i]); err != nil {
			return nil, fmt.Errorf("argument %q is not an integer", a)
		}
	}
	return out, nil
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
