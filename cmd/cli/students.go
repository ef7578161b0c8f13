package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bigredeye/temrin/internal/models"
)

func makeListCommand() *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List students, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listStudents(query)
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "Filter by name or student number")

	return cmd
}

func listStudents(query string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	students, err := client.ListStudents(query)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNO\tNAME\tGENDER\tT1\tT2\tT3\tT4\tT5\tAVG")
	for _, s := range students {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%.1f\n",
			s.ID, s.StudentNo, s.FullName, s.Gender,
			s.Scores.T1, s.Scores.T2, s.Scores.T3, s.Scores.T4, s.Scores.T5,
			s.Average,
		)
	}
	return w.Flush()
}

func bindFormFlags(cmd *cobra.Command, form *models.StudentForm) {
	cmd.Flags().StringVar(&form.StudentNo, "no", "", "Student number")
	cmd.Flags().StringVar(&form.FullName, "name", "", "Full name")
	cmd.Flags().StringVar(&form.Gender, "gender", models.GenderMale, "Gender (Erkek or Kadın)")
	cmd.Flags().IntVar(&form.Scores.T1, "t1", 0, "Temrin 1 score")
	cmd.Flags().IntVar(&form.Scores.T2, "t2", 0, "Temrin 2 score")
	cmd.Flags().IntVar(&form.Scores.T3, "t3", 0, "Temrin 3 score")
	cmd.Flags().IntVar(&form.Scores.T4, "t4", 0, "Temrin 4 score")
	cmd.Flags().IntVar(&form.Scores.T5, "t5", 0, "Temrin 5 score")
}

func makeAddCommand() *cobra.Command {
	form := models.StudentForm{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a student",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			student, err := client.AddStudent(form)
			if err != nil {
				return err
			}
			log.Info("Added student", zap.String("id", student.ID), zap.Float64("average", student.Average))
			return nil
		},
	}
	bindFormFlags(cmd, &form)
	check(cmd.MarkFlagRequired("no"))
	check(cmd.MarkFlagRequired("name"))

	return cmd
}

func makeUpdateCommand() *cobra.Command {
	form := models.StudentForm{}
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a student; unset flags keep their current values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			current, err := client.GetStudent(args[0])
			if err != nil {
				return err
			}
			merged := mergeForm(current.Form(), form, cmd.Flags().Changed)
			student, err := client.UpdateStudent(args[0], merged)
			if err != nil {
				return err
			}
			log.Info("Updated student", zap.String("id", student.ID), zap.Float64("average", student.Average))
			return nil
		},
	}
	bindFormFlags(cmd, &form)

	return cmd
}

func mergeForm(current, update models.StudentForm, changed func(string) bool) models.StudentForm {
	if changed("no") {
		current.StudentNo = update.StudentNo
	}
	if changed("name") {
		current.FullName = update.FullName
	}
	if changed("gender") {
		current.Gender = update.Gender
	}
	if changed("t1") {
		current.Scores.T1 = update.Scores.T1
	}
	if changed("t2") {
		current.Scores.T2 = update.Scores.T2
	}
	if changed("t3") {
		current.Scores.T3 = update.Scores.T3
	}
	if changed("t4") {
		current.Scores.T4 = update.Scores.T4
	}
	if changed("t5") {
		current.Scores.T5 = update.Scores.T5
	}
	return current
}

func makeDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			if err := client.DeleteStudent(args[0]); err != nil {
				return err
			}
			log.Info("Deleted student", zap.String("id", args[0]))
			return nil
		},
	}
}
