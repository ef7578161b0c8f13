package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bigredeye/temrin/internal/tgbot"
)

func makeStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print class statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			class, err := client.LoadStats()
			if err != nil {
				return err
			}
			fmt.Println(tgbot.FormatStats(class))
			return nil
		},
	}
}

func makeAnalyzeCommand() *cobra.Command {
	var fresh bool
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Request an AI analysis of the class",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			res, err := client.Analyze(fresh)
			if err != nil {
				return err
			}

			fmt.Println(res.Summary)
			printSection("Öne Çıkan Başarılar", res.Strengths)
			printSection("Gelişim Bekleyen Noktalar", res.Weaknesses)
			printSection("Eğitmen Tavsiyeleri", res.Recommendations)
			return nil
		},
	}
	cmd.Flags().BoolVar(&fresh, "fresh", false, "Ignore the cached analysis")

	return cmd
}

func printSection(title string, items []string) {
	fmt.Printf("\n%s\n%s\n", title, strings.Repeat("-", len([]rune(title))))
	for i, item := range items {
		fmt.Printf("%d. %s\n", i+1, item)
	}
}
